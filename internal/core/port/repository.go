package port

import (
	"context"

	"crowdfund/internal/core/domain"
)

// Transactor runs a unit of work atomically. Every repository and ledger call
// made with the context passed to fn joins the same transaction; when fn
// returns an error nothing it wrote is kept, asset transfers included.
// Implementations serialize conflicting units of work so that mutating
// operations observe a total order.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AdminRepository persists the admin registry.
type AdminRepository interface {
	// Lock serializes registry mutations until the enclosing transaction ends.
	Lock(ctx context.Context) error
	IsAdmin(ctx context.Context, addr domain.Address) (bool, error)
	List(ctx context.Context) ([]domain.Admin, error)
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, admin domain.Admin) error
	Remove(ctx context.Context, addr domain.Address) error
	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
}

// CampaignRepository persists campaigns and their contributions. Each
// campaign owns its contributions; no operation touches two campaigns.
type CampaignRepository interface {
	// Count returns the number of campaigns ever created.
	Count(ctx context.Context) (int64, error)
	// Create stores a new campaign. c.ID must be the next creation index.
	Create(ctx context.Context, c *domain.Campaign) error
	// Get returns domain.ErrCampaignNotFound for unknown ids.
	Get(ctx context.Context, id int64) (*domain.Campaign, error)
	// GetForUpdate is Get that also locks the campaign for the rest of the
	// transaction.
	GetForUpdate(ctx context.Context, id int64) (*domain.Campaign, error)
	// List returns campaigns in creation order.
	List(ctx context.Context, offset, limit int) ([]domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) error
	// Contribution returns the zero contribution when addr never pledged.
	Contribution(ctx context.Context, campaignID int64, addr domain.Address) (domain.Contribution, error)
	SaveContribution(ctx context.Context, c domain.Contribution) error
}

// EventRepository is the outbox of emitted events.
type EventRepository interface {
	// Append stores events in order and assigns their Seq.
	Append(ctx context.Context, events ...domain.Event) error
	// List returns up to limit events with Seq greater than after.
	List(ctx context.Context, after int64, limit int) ([]domain.Event, error)
}
