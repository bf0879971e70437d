package port

import (
	"context"

	"crowdfund/internal/core/domain"
)

// RegistryUseCase manages the set of principals allowed to create and
// moderate campaigns. The caller argument is always the authenticated
// principal.
type RegistryUseCase interface {
	// Bootstrap admits the deployer when the registry has no admin yet. It is
	// a no-op afterwards.
	Bootstrap(ctx context.Context, deployer domain.Address) error
	AddAdmin(ctx context.Context, caller, target domain.Address) error
	RemoveAdmin(ctx context.Context, caller, target domain.Address) error
	IsAdmin(ctx context.Context, addr domain.Address) (bool, error)
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
	// Pause blocks campaign creation and pledges. Settlement stays open.
	Pause(ctx context.Context, caller domain.Address) error
	Unpause(ctx context.Context, caller domain.Address) error
	Paused(ctx context.Context) (bool, error)
}

// FactoryUseCase is the only way to create campaigns.
type FactoryUseCase interface {
	CreateCampaign(ctx context.Context, caller domain.Address, p domain.CampaignParams) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context, offset, limit int) ([]domain.Campaign, error)
	CampaignCount(ctx context.Context) (int64, error)
}

// CampaignUseCase drives the per-campaign escrow state machine.
type CampaignUseCase interface {
	Get(ctx context.Context, id int64) (*domain.Campaign, error)
	ContributionOf(ctx context.Context, id int64, addr domain.Address) (domain.Contribution, error)
	Pledge(ctx context.Context, caller domain.Address, id int64, amount uint64) (*domain.Campaign, error)
	// Finalize may be called by anyone once the deadline passed.
	Finalize(ctx context.Context, caller domain.Address, id int64) (*domain.Campaign, error)
	Withdraw(ctx context.Context, caller domain.Address, id int64) (domain.Settlement, error)
	Refund(ctx context.Context, caller domain.Address, id int64) (uint64, error)
	Cancel(ctx context.Context, caller domain.Address, id int64) (*domain.Campaign, error)
}

// EventFeed serves emitted events to indexers.
type EventFeed interface {
	Events(ctx context.Context, after int64, limit int) ([]domain.Event, error)
}
