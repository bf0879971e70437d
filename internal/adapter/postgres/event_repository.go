package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crowdfund/internal/core/domain"
)

// EventRepository implements port.EventRepository as an outbox table written
// in the same transaction as the state change that emitted the events.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository returns a new repository instance.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Append reserves len(events) sequence numbers from the event_seq counter and
// stores the events under them. The counter row stays locked until the
// enclosing transaction ends, so no event can commit behind a later one.
func (r *EventRepository) Append(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); !ok {
		return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
			return r.Append(context.WithValue(ctx, txKey{}, tx), events...)
		})
	}
	q := conn(ctx, r.pool)
	var last int64
	err := q.QueryRow(ctx, `UPDATE event_seq SET last = last + $1 WHERE id = 1 RETURNING last`, len(events)).Scan(&last)
	if err != nil {
		return err
	}
	first := last - int64(len(events)) + 1
	for i := range events {
		e := &events[i]
		state := ""
		if e.State != 0 {
			state = e.State.String()
		}
		seq := first + int64(i)
		_, err = q.Exec(ctx, `INSERT INTO events
    (seq, id, kind, campaign_id, actor, subject, amount, fee, state, occurred_at)
VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8::numeric,$9,$10)`,
			seq, e.ID, string(e.Kind), e.CampaignID, e.Actor.Hex(), e.Subject.Hex(),
			amountArg(e.Amount), amountArg(e.Fee), state, e.OccurredAt.UTC())
		if err != nil {
			return err
		}
		e.Seq = seq
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context, after int64, limit int) ([]domain.Event, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT seq, id, kind, campaign_id, actor, subject,
    amount::text, fee::text, state, occurred_at
FROM events WHERE seq > $1 ORDER BY seq LIMIT $2`, after, lim)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		var (
			e                           domain.Event
			kind, actor, subject, state string
			amount, fee                 string
		)
		err := row.Scan(&e.Seq, &e.ID, &kind, &e.CampaignID, &actor, &subject, &amount, &fee, &state, &e.OccurredAt)
		if err != nil {
			return e, err
		}
		e.Kind = domain.EventKind(kind)
		if e.Actor, err = parseAddress(actor); err != nil {
			return e, err
		}
		if e.Subject, err = parseAddress(subject); err != nil {
			return e, err
		}
		if e.Amount, err = parseAmount(amount); err != nil {
			return e, err
		}
		if e.Fee, err = parseAmount(fee); err != nil {
			return e, err
		}
		if state != "" {
			e.State, err = domain.ParseCampaignState(state)
		}
		return e, err
	})
}
