package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/metrics"
)

// RegistryService implements port.RegistryUseCase.
type RegistryService struct {
	p      Ports
	logger *slog.Logger
}

func NewRegistryService(p Ports, logger *slog.Logger) *RegistryService {
	return &RegistryService{p: p, logger: logger}
}

// Bootstrap admits deployer as the first admin of an empty registry. Once the
// registry has an admin it is never empty again, so later calls do nothing.
func (s *RegistryService) Bootstrap(ctx context.Context, deployer domain.Address) error {
	if deployer == (domain.Address{}) {
		return fmt.Errorf("%w: deployer", domain.ErrInvalidAddress)
	}
	var admitted bool
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.p.Admins.Lock(ctx); err != nil {
			return err
		}
		n, err := s.p.Admins.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		now := s.p.Clock.Now()
		if err = s.p.Admins.Add(ctx, domain.Admin{Address: deployer, AddedBy: deployer, AddedAt: now}); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventAdminAdded, deployer, now)
		ev.Subject = deployer
		admitted = true
		return s.p.Events.Append(ctx, ev)
	})
	if err != nil {
		return err
	}
	if admitted {
		s.logger.InfoContext(ctx, "registry bootstrapped", slog.String("deployer", deployer.Hex()))
	}
	return nil
}

func (s *RegistryService) AddAdmin(ctx context.Context, caller, target domain.Address) error {
	err := s.addAdmin(ctx, caller, target)
	metrics.RecordOperation("add_admin", err)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "admin added",
		slog.String("caller", caller.Hex()), slog.String("admin", target.Hex()))
	return nil
}

func (s *RegistryService) addAdmin(ctx context.Context, caller, target domain.Address) error {
	return s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.p.Admins.Lock(ctx); err != nil {
			return err
		}
		if err := requireAdmin(ctx, s.p.Admins, caller); err != nil {
			return err
		}
		if target == (domain.Address{}) {
			return fmt.Errorf("%w: target", domain.ErrInvalidAddress)
		}
		exists, err := s.p.Admins.IsAdmin(ctx, target)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyAdmin, target.Hex())
		}
		now := s.p.Clock.Now()
		if err = s.p.Admins.Add(ctx, domain.Admin{Address: target, AddedBy: caller, AddedAt: now}); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventAdminAdded, caller, now)
		ev.Subject = target
		return s.p.Events.Append(ctx, ev)
	})
}

func (s *RegistryService) RemoveAdmin(ctx context.Context, caller, target domain.Address) error {
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.p.Admins.Lock(ctx); err != nil {
			return err
		}
		if err := requireAdmin(ctx, s.p.Admins, caller); err != nil {
			return err
		}
		exists, err := s.p.Admins.IsAdmin(ctx, target)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrNotAdmin, target.Hex())
		}
		n, err := s.p.Admins.Count(ctx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return domain.ErrLastAdminProtected
		}
		if err = s.p.Admins.Remove(ctx, target); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventAdminRemoved, caller, s.p.Clock.Now())
		ev.Subject = target
		return s.p.Events.Append(ctx, ev)
	})
	metrics.RecordOperation("remove_admin", err)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "admin removed",
		slog.String("caller", caller.Hex()), slog.String("admin", target.Hex()))
	return nil
}

func (s *RegistryService) IsAdmin(ctx context.Context, addr domain.Address) (bool, error) {
	return s.p.Admins.IsAdmin(ctx, addr)
}

func (s *RegistryService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.p.Admins.List(ctx)
}

func (s *RegistryService) Paused(ctx context.Context) (bool, error) {
	return s.p.Admins.Paused(ctx)
}

func (s *RegistryService) Pause(ctx context.Context, caller domain.Address) error {
	return s.setPaused(ctx, caller, true)
}

func (s *RegistryService) Unpause(ctx context.Context, caller domain.Address) error {
	return s.setPaused(ctx, caller, false)
}

func (s *RegistryService) setPaused(ctx context.Context, caller domain.Address, paused bool) error {
	kind, op, already := domain.EventRegistryUnpaused, "unpause", "registry is not paused"
	if paused {
		kind, op, already = domain.EventRegistryPaused, "pause", "registry is already paused"
	}
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.p.Admins.Lock(ctx); err != nil {
			return err
		}
		if err := requireAdmin(ctx, s.p.Admins, caller); err != nil {
			return err
		}
		current, err := s.p.Admins.Paused(ctx)
		if err != nil {
			return err
		}
		if current == paused {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyProcessed, already)
		}
		if err = s.p.Admins.SetPaused(ctx, paused); err != nil {
			return err
		}
		return s.p.Events.Append(ctx, domain.NewEvent(kind, caller, s.p.Clock.Now()))
	})
	metrics.RecordOperation(op, err)
	if err != nil {
		return err
	}
	s.logger.WarnContext(ctx, "registry pause changed",
		slog.String("caller", caller.Hex()), slog.Bool("paused", paused))
	return nil
}
