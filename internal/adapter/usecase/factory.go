package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/metrics"
)

// FactoryConfig binds every campaign of the factory to the same custody
// namespace and fee rate.
type FactoryConfig struct {
	Address domain.Address
	FeeBps  uint16
}

// FactoryService implements port.FactoryUseCase. It never holds funds.
type FactoryService struct {
	cfg    FactoryConfig
	p      Ports
	logger *slog.Logger
}

func NewFactoryService(cfg FactoryConfig, p Ports, logger *slog.Logger) (*FactoryService, error) {
	if cfg.Address == (domain.Address{}) {
		return nil, fmt.Errorf("%w: factory address", domain.ErrInvalidAddress)
	}
	if cfg.FeeBps > domain.MaxFeeBps {
		return nil, fmt.Errorf("platform fee %d bps exceeds %d", cfg.FeeBps, domain.MaxFeeBps)
	}
	return &FactoryService{cfg: cfg, p: p, logger: logger}, nil
}

// CreateCampaign instantiates an Active campaign. Only admins may create
// campaigns and only while the platform is not paused.
func (s *FactoryService) CreateCampaign(ctx context.Context, caller domain.Address, params domain.CampaignParams) (*domain.Campaign, error) {
	var created *domain.Campaign
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// creation indexes are handed out under the registry lock
		if err := s.p.Admins.Lock(ctx); err != nil {
			return err
		}
		if err := requireAdmin(ctx, s.p.Admins, caller); err != nil {
			return err
		}
		if err := requireNotPaused(ctx, s.p.Admins); err != nil {
			return err
		}
		n, err := s.p.Campaigns.Count(ctx)
		if err != nil {
			return err
		}
		now := s.p.Clock.Now()
		c, err := domain.NewCampaign(n+1, s.cfg.Address, s.cfg.FeeBps, params, now)
		if err != nil {
			return err
		}
		if err = s.p.Campaigns.Create(ctx, c); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventCampaignCreated, caller, now)
		ev.CampaignID = c.ID
		ev.Subject = c.Creator
		ev.Amount = c.GoalAmount
		ev.State = c.State
		if err = s.p.Events.Append(ctx, ev); err != nil {
			return err
		}
		created = c
		return nil
	})
	metrics.RecordOperation("create_campaign", err)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "campaign created",
		slog.Int64("campaign_id", created.ID),
		slog.String("custody", created.Address.Hex()),
		slog.String("creator", created.Creator.Hex()),
		slog.Uint64("goal", created.GoalAmount),
		slog.Time("deadline", created.Deadline),
	)
	return created, nil
}

func (s *FactoryService) ListCampaigns(ctx context.Context, offset, limit int) ([]domain.Campaign, error) {
	return s.p.Campaigns.List(ctx, offset, limit)
}

func (s *FactoryService) CampaignCount(ctx context.Context) (int64, error) {
	return s.p.Campaigns.Count(ctx)
}
