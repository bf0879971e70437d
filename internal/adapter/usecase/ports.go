package usecase

import (
	"context"
	"fmt"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// Ports bundles the outbound dependencies shared by the services. All
// repositories and the ledger must enlist in transactions started by Tx.
type Ports struct {
	Tx        port.Transactor
	Admins    port.AdminRepository
	Campaigns port.CampaignRepository
	Events    port.EventRepository
	Ledger    port.AssetLedger
	Clock     port.Clock
}

func requireAdmin(ctx context.Context, admins port.AdminRepository, caller domain.Address) error {
	ok, err := admins.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not an admin", domain.ErrUnauthorized, caller.Hex())
	}
	return nil
}

func requireNotPaused(ctx context.Context, admins port.AdminRepository) error {
	paused, err := admins.Paused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return domain.ErrPaused
	}
	return nil
}
