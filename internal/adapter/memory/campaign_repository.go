package memory

import (
	"context"
	"fmt"

	"crowdfund/internal/core/domain"
)

// CampaignRepository implements port.CampaignRepository.
type CampaignRepository struct {
	s *Store
}

func (r *CampaignRepository) Count(ctx context.Context) (int64, error) {
	defer r.s.access(ctx)()
	return int64(len(r.s.st.campaigns)), nil
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	defer r.s.access(ctx)()
	if want := int64(len(r.s.st.campaigns)) + 1; c.ID != want {
		return fmt.Errorf("campaign id %d out of sequence, want %d", c.ID, want)
	}
	r.s.st.campaigns = append(r.s.st.campaigns, *c)
	return nil
}

func (r *CampaignRepository) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	defer r.s.access(ctx)()
	if id < 1 || id > int64(len(r.s.st.campaigns)) {
		return nil, domain.ErrCampaignNotFound
	}
	c := r.s.st.campaigns[id-1]
	return &c, nil
}

// GetForUpdate is Get; the unit of work already holds the store exclusively.
func (r *CampaignRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Campaign, error) {
	return r.Get(ctx, id)
}

func (r *CampaignRepository) List(ctx context.Context, offset, limit int) ([]domain.Campaign, error) {
	defer r.s.access(ctx)()
	all := r.s.st.campaigns
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []domain.Campaign{}, nil
	}
	end := len(all)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	out := make([]domain.Campaign, end-offset)
	copy(out, all[offset:end])
	return out, nil
}

func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	defer r.s.access(ctx)()
	if c.ID < 1 || c.ID > int64(len(r.s.st.campaigns)) {
		return domain.ErrCampaignNotFound
	}
	r.s.st.campaigns[c.ID-1] = *c
	return nil
}

func (r *CampaignRepository) Contribution(ctx context.Context, campaignID int64, addr domain.Address) (domain.Contribution, error) {
	defer r.s.access(ctx)()
	c, ok := r.s.st.contributions[contributionKey{campaignID, addr}]
	if !ok {
		return domain.Contribution{CampaignID: campaignID, Contributor: addr}, nil
	}
	return c, nil
}

func (r *CampaignRepository) SaveContribution(ctx context.Context, c domain.Contribution) error {
	defer r.s.access(ctx)()
	r.s.st.contributions[contributionKey{c.CampaignID, c.Contributor}] = c
	return nil
}
