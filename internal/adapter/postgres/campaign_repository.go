package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crowdfund/internal/core/domain"
)

// CampaignRepository implements port.CampaignRepository using pgxpool for
// PostgreSQL.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `id, address, creator, goal_amount::text, raised_amount::text, deadline,
    platform_fee_bps, state, creator_payout::text, fee_paid::text, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c                             domain.Campaign
		address, creator, state       string
		goal, raised, payout, feePaid string
		bps                           int32
	)
	err := row.Scan(&c.ID, &address, &creator, &goal, &raised, &c.Deadline,
		&bps, &state, &payout, &feePaid, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Address, err = parseAddress(address); err != nil {
		return nil, err
	}
	if c.Creator, err = parseAddress(creator); err != nil {
		return nil, err
	}
	if c.State, err = domain.ParseCampaignState(state); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		dst *uint64
		src string
	}{
		{&c.GoalAmount, goal},
		{&c.RaisedAmount, raised},
		{&c.CreatorPayout, payout},
		{&c.FeePaid, feePaid},
	} {
		if *f.dst, err = parseAmount(f.src); err != nil {
			return nil, err
		}
	}
	c.PlatformFeeBps = uint16(bps)
	return &c, nil
}

func (r *CampaignRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM campaigns`).Scan(&n)
	return n, err
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `INSERT INTO campaigns
    (id, address, creator, goal_amount, raised_amount, deadline, platform_fee_bps, state,
     creator_payout, fee_paid, created_at, updated_at)
VALUES ($1,$2,$3,$4::numeric,$5::numeric,$6,$7,$8,$9::numeric,$10::numeric,$11,$12)`,
		c.ID, c.Address.Hex(), c.Creator.Hex(), amountArg(c.GoalAmount), amountArg(c.RaisedAmount),
		c.Deadline.UTC(), int32(c.PlatformFeeBps), c.State.String(),
		amountArg(c.CreatorPayout), amountArg(c.FeePaid), c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return err
}

func (r *CampaignRepository) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	return scanCampaign(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
}

func (r *CampaignRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Campaign, error) {
	return scanCampaign(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 FOR UPDATE`, id))
}

func (r *CampaignRepository) List(ctx context.Context, offset, limit int) ([]domain.Campaign, error) {
	if offset < 0 {
		offset = 0
	}
	var lim any // NULL means no limit
	if limit > 0 {
		lim = limit
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns ORDER BY id OFFSET $1 LIMIT $2`, offset, lim)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
}

func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE campaigns SET
    raised_amount = $2::numeric, state = $3, creator_payout = $4::numeric, fee_paid = $5::numeric, updated_at = $6
WHERE id = $1`,
		c.ID, amountArg(c.RaisedAmount), c.State.String(), amountArg(c.CreatorPayout), amountArg(c.FeePaid), c.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) Contribution(ctx context.Context, campaignID int64, addr domain.Address) (domain.Contribution, error) {
	c := domain.Contribution{CampaignID: campaignID, Contributor: addr}
	var amount string
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT amount::text, refunded, updated_at FROM contributions WHERE campaign_id = $1 AND contributor = $2`,
		campaignID, addr.Hex()).Scan(&amount, &c.Refunded, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	c.Amount, err = parseAmount(amount)
	return c, err
}

func (r *CampaignRepository) SaveContribution(ctx context.Context, c domain.Contribution) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `INSERT INTO contributions (campaign_id, contributor, amount, refunded, updated_at)
VALUES ($1, $2, $3::numeric, $4, $5)
ON CONFLICT (campaign_id, contributor) DO UPDATE
    SET amount = EXCLUDED.amount, refunded = EXCLUDED.refunded, updated_at = EXCLUDED.updated_at`,
		c.CampaignID, c.Contributor.Hex(), amountArg(c.Amount), c.Refunded, c.UpdatedAt.UTC())
	return err
}
