package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/metrics"
)

// CampaignService implements port.CampaignUseCase. Each operation runs in
// one transaction: the campaign is locked, the domain transition applied,
// funds moved through the ledger, then state and events are written. A
// failing step discards all of it.
type CampaignService struct {
	feeSink domain.Address
	p       Ports
	logger  *slog.Logger
}

func NewCampaignService(feeSink domain.Address, p Ports, logger *slog.Logger) (*CampaignService, error) {
	if feeSink == (domain.Address{}) {
		return nil, fmt.Errorf("%w: fee sink", domain.ErrInvalidAddress)
	}
	return &CampaignService{feeSink: feeSink, p: p, logger: logger}, nil
}

func (s *CampaignService) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.p.Campaigns.Get(ctx, id)
}

func (s *CampaignService) ContributionOf(ctx context.Context, id int64, addr domain.Address) (domain.Contribution, error) {
	if _, err := s.p.Campaigns.Get(ctx, id); err != nil {
		return domain.Contribution{}, err
	}
	return s.p.Campaigns.Contribution(ctx, id, addr)
}

func (s *CampaignService) Pledge(ctx context.Context, caller domain.Address, id int64, amount uint64) (*domain.Campaign, error) {
	var out *domain.Campaign
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := requireNotPaused(ctx, s.p.Admins); err != nil {
			return err
		}
		c, err := s.p.Campaigns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		contrib, err := s.p.Campaigns.Contribution(ctx, id, caller)
		if err != nil {
			return err
		}
		now := s.p.Clock.Now()
		if err = c.Pledge(now, &contrib, amount); err != nil {
			return err
		}
		if err = s.transfer(ctx, caller, c.Address, amount); err != nil {
			return err
		}
		if err = s.checkCustody(ctx, c); err != nil {
			return err
		}
		if err = s.p.Campaigns.Update(ctx, c); err != nil {
			return err
		}
		if err = s.p.Campaigns.SaveContribution(ctx, contrib); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventPledgeReceived, caller, now)
		ev.CampaignID = id
		ev.Subject = caller
		ev.Amount = amount
		ev.State = c.State
		out = c
		return s.p.Events.Append(ctx, ev)
	})
	metrics.RecordOperation("pledge", err)
	if err != nil {
		return nil, err
	}
	metrics.RecordFunds(metrics.FlowPledge, amount)
	s.logger.InfoContext(ctx, "pledge received",
		slog.Int64("campaign_id", id),
		slog.String("contributor", caller.Hex()),
		slog.Uint64("amount", amount),
		slog.Uint64("raised", out.RaisedAmount),
	)
	return out, nil
}

// Finalize records the verdict of a campaign whose deadline passed. It is
// open to any caller so a campaign cannot stall on an absent creator, and it
// is a no-op for campaigns that already have a verdict.
func (s *CampaignService) Finalize(ctx context.Context, caller domain.Address, id int64) (*domain.Campaign, error) {
	var (
		out     *domain.Campaign
		changed bool
	)
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.p.Campaigns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		now := s.p.Clock.Now()
		out = c
		if changed, err = c.Finalize(now); err != nil || !changed {
			return err
		}
		if err = s.p.Campaigns.Update(ctx, c); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventCampaignFinalized, caller, now)
		ev.CampaignID = id
		ev.Subject = c.Creator
		ev.Amount = c.RaisedAmount
		ev.State = c.State
		return s.p.Events.Append(ctx, ev)
	})
	metrics.RecordOperation("finalize", err)
	if err != nil {
		return nil, err
	}
	if changed {
		s.logger.InfoContext(ctx, "campaign finalized",
			slog.Int64("campaign_id", id),
			slog.String("verdict", out.State.String()),
			slog.Uint64("raised", out.RaisedAmount),
			slog.Uint64("goal", out.GoalAmount),
		)
	}
	return out, nil
}

// Withdraw pays out a Successful campaign: the fee to the platform sink and
// the remainder to the creator, both or neither.
func (s *CampaignService) Withdraw(ctx context.Context, caller domain.Address, id int64) (domain.Settlement, error) {
	var settlement domain.Settlement
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.p.Campaigns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		now := s.p.Clock.Now()
		if settlement, err = c.Withdraw(now, caller); err != nil {
			return err
		}
		if err = s.transfer(ctx, c.Address, c.Creator, settlement.Payout); err != nil {
			return err
		}
		if err = s.transfer(ctx, c.Address, s.feeSink, settlement.Fee); err != nil {
			return err
		}
		if err = s.p.Campaigns.Update(ctx, c); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventWithdrawal, caller, now)
		ev.CampaignID = id
		ev.Subject = c.Creator
		ev.Amount = settlement.Payout
		ev.Fee = settlement.Fee
		ev.State = c.State
		return s.p.Events.Append(ctx, ev)
	})
	metrics.RecordOperation("withdraw", err)
	if err != nil {
		return domain.Settlement{}, err
	}
	metrics.RecordFunds(metrics.FlowPayout, settlement.Payout)
	metrics.RecordFunds(metrics.FlowFee, settlement.Fee)
	s.logger.InfoContext(ctx, "withdrawal executed",
		slog.Int64("campaign_id", id),
		slog.String("creator", caller.Hex()),
		slog.Uint64("payout", settlement.Payout),
		slog.Uint64("fee", settlement.Fee),
	)
	return settlement, nil
}

// Refund returns the caller's contribution to a Failed or Cancelled
// campaign. Refunds are per contributor so one failing transfer never blocks
// the others; a failed transfer leaves the contribution claimable.
func (s *CampaignService) Refund(ctx context.Context, caller domain.Address, id int64) (uint64, error) {
	var amount uint64
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.p.Campaigns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		contrib, err := s.p.Campaigns.Contribution(ctx, id, caller)
		if err != nil {
			return err
		}
		now := s.p.Clock.Now()
		if amount, err = c.Refund(now, &contrib); err != nil {
			return err
		}
		if err = s.transfer(ctx, c.Address, caller, amount); err != nil {
			return err
		}
		if err = s.checkCustody(ctx, c); err != nil {
			return err
		}
		if err = s.p.Campaigns.Update(ctx, c); err != nil {
			return err
		}
		if err = s.p.Campaigns.SaveContribution(ctx, contrib); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventRefund, caller, now)
		ev.CampaignID = id
		ev.Subject = caller
		ev.Amount = amount
		ev.State = c.State
		return s.p.Events.Append(ctx, ev)
	})
	metrics.RecordOperation("refund", err)
	if err != nil {
		return 0, err
	}
	metrics.RecordFunds(metrics.FlowRefund, amount)
	s.logger.InfoContext(ctx, "refund executed",
		slog.Int64("campaign_id", id),
		slog.String("contributor", caller.Hex()),
		slog.Uint64("amount", amount),
	)
	return amount, nil
}

// Cancel lets an admin stop an Active campaign before its deadline.
func (s *CampaignService) Cancel(ctx context.Context, caller domain.Address, id int64) (*domain.Campaign, error) {
	var out *domain.Campaign
	err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := requireAdmin(ctx, s.p.Admins, caller); err != nil {
			return err
		}
		c, err := s.p.Campaigns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		now := s.p.Clock.Now()
		if err = c.Cancel(now); err != nil {
			return err
		}
		if err = s.p.Campaigns.Update(ctx, c); err != nil {
			return err
		}
		ev := domain.NewEvent(domain.EventCampaignCancelled, caller, now)
		ev.CampaignID = id
		ev.Subject = c.Creator
		ev.Amount = c.RaisedAmount
		ev.State = c.State
		out = c
		return s.p.Events.Append(ctx, ev)
	})
	metrics.RecordOperation("cancel", err)
	if err != nil {
		return nil, err
	}
	s.logger.WarnContext(ctx, "campaign cancelled",
		slog.Int64("campaign_id", id),
		slog.String("admin", caller.Hex()),
		slog.Uint64("refundable", out.RaisedAmount),
	)
	return out, nil
}

func (s *CampaignService) transfer(ctx context.Context, from, to domain.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := s.p.Ledger.TransferFrom(ctx, from, to, amount); err != nil {
		return fmt.Errorf("%w: %d from %s to %s: %w", domain.ErrTransferFailed, amount, from.Hex(), to.Hex(), err)
	}
	return nil
}

// checkCustody aborts when the ledger holds less for the campaign than its
// books say, which means a transfer reported success without moving funds.
func (s *CampaignService) checkCustody(ctx context.Context, c *domain.Campaign) error {
	held, err := s.p.Ledger.BalanceOf(ctx, c.Address)
	if err != nil {
		return fmt.Errorf("%w: balance of %s: %w", domain.ErrTransferFailed, c.Address.Hex(), err)
	}
	if held < c.RaisedAmount {
		return fmt.Errorf("%w: custody %s holds %d, accounted %d", domain.ErrTransferFailed, c.Address.Hex(), held, c.RaisedAmount)
	}
	return nil
}
