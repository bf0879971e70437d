package domain

import (
	"fmt"
	"time"
)

// Campaign is one fundraising round. Amounts are denominated in the payment
// asset's smallest unit. RaisedAmount always equals the balance held at
// Address: it grows with pledges and shrinks with refunds or the withdrawal.
type Campaign struct {
	ID             int64   // creation index, starts at 1
	Address        Address // custody account on the payment ledger
	Creator        Address
	GoalAmount     uint64
	RaisedAmount   uint64
	Deadline       time.Time
	PlatformFeeBps uint16
	State          CampaignState
	CreatorPayout  uint64 // set on withdrawal
	FeePaid        uint64 // set on withdrawal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CampaignParams describe a campaign to be created by the factory.
type CampaignParams struct {
	Creator    Address
	GoalAmount uint64
	Deadline   time.Time
}

// Validate checks creation parameters against the current time.
func (p CampaignParams) Validate(now time.Time) error {
	if p.Creator == (Address{}) {
		return fmt.Errorf("%w: creator", ErrInvalidAddress)
	}
	if p.GoalAmount == 0 {
		return ErrInvalidGoal
	}
	if !p.Deadline.After(now) {
		return fmt.Errorf("%w: %s is not after %s", ErrInvalidDeadline,
			p.Deadline.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	return nil
}

// NewCampaign builds the Active record for the campaign with creation index id.
func NewCampaign(id int64, factory Address, feeBps uint16, p CampaignParams, now time.Time) (*Campaign, error) {
	if err := p.Validate(now); err != nil {
		return nil, err
	}
	if feeBps > MaxFeeBps {
		return nil, fmt.Errorf("fee %d bps exceeds %d", feeBps, MaxFeeBps)
	}
	return &Campaign{
		ID:             id,
		Address:        CustodyAddress(factory, id),
		Creator:        p.Creator,
		GoalAmount:     p.GoalAmount,
		Deadline:       p.Deadline.UTC(),
		PlatformFeeBps: feeBps,
		State:          StateActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Contribution is the cumulative pledge of one contributor to one campaign.
// A refunded contribution keeps Refunded set with Amount zeroed.
type Contribution struct {
	CampaignID  int64
	Contributor Address
	Amount      uint64
	Refunded    bool
	UpdatedAt   time.Time
}

// Settlement is the fund split computed by a withdrawal.
type Settlement struct {
	Payout uint64
	Fee    uint64
}

// Pledge records amount from the contributor of c. Pledges are accepted only
// while Active and strictly before the deadline, whether or not the campaign
// was finalized.
func (c *Campaign) Pledge(now time.Time, contrib *Contribution, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: pledge must be positive", ErrInvalidAmount)
	}
	if c.State.Settled() {
		return fmt.Errorf("%w: pledge on %s campaign", ErrInvalidState, c.State)
	}
	if !now.Before(c.Deadline) {
		return fmt.Errorf("%w: deadline passed", ErrInvalidState)
	}
	raised, err := addAmount(c.RaisedAmount, amount)
	if err != nil {
		return fmt.Errorf("%w: raised amount overflow", err)
	}
	pledged, err := addAmount(contrib.Amount, amount)
	if err != nil {
		return fmt.Errorf("%w: contribution overflow", err)
	}
	c.RaisedAmount = raised
	c.UpdatedAt = now
	contrib.CampaignID = c.ID
	contrib.Amount = pledged
	contrib.UpdatedAt = now
	return nil
}

// Finalize turns an Active campaign whose deadline passed into Successful or
// Failed. Calling it on an already decided campaign is a no-op and reports
// changed=false.
func (c *Campaign) Finalize(now time.Time) (changed bool, err error) {
	switch c.State {
	case StateSuccessful, StateFailed, StateWithdrawn:
		return false, nil
	case StateActive:
	default:
		return false, fmt.Errorf("%w: finalize on %s campaign", ErrInvalidState, c.State)
	}
	if now.Before(c.Deadline) {
		return false, fmt.Errorf("%w: deadline not reached", ErrInvalidState)
	}
	if c.RaisedAmount >= c.GoalAmount {
		c.State = StateSuccessful
	} else {
		c.State = StateFailed
	}
	c.UpdatedAt = now
	return true, nil
}

// Withdraw settles a Successful campaign for its creator. The whole raised
// amount leaves custody: the fee to the platform, the rest to the creator.
func (c *Campaign) Withdraw(now time.Time, caller Address) (Settlement, error) {
	if caller != c.Creator {
		return Settlement{}, fmt.Errorf("%w: only the creator may withdraw", ErrUnauthorized)
	}
	switch c.State {
	case StateSuccessful:
	case StateWithdrawn:
		return Settlement{}, fmt.Errorf("%w: campaign already withdrawn", ErrAlreadyProcessed)
	default:
		return Settlement{}, fmt.Errorf("%w: withdraw on %s campaign", ErrInvalidState, c.State)
	}
	fee := PlatformFee(c.RaisedAmount, c.PlatformFeeBps)
	s := Settlement{Payout: c.RaisedAmount - fee, Fee: fee}
	c.State = StateWithdrawn
	c.CreatorPayout = s.Payout
	c.FeePaid = s.Fee
	c.RaisedAmount = 0
	c.UpdatedAt = now
	return s, nil
}

// Refund releases the contribution of a Failed or Cancelled campaign and
// returns the amount to send back.
func (c *Campaign) Refund(now time.Time, contrib *Contribution) (uint64, error) {
	if !c.State.Refundable() {
		return 0, fmt.Errorf("%w: refund on %s campaign", ErrInvalidState, c.State)
	}
	if contrib.Refunded {
		return 0, fmt.Errorf("%w: contribution already refunded", ErrAlreadyProcessed)
	}
	if contrib.Amount == 0 {
		return 0, ErrNoContribution
	}
	if contrib.Amount > c.RaisedAmount {
		return 0, fmt.Errorf("%w: contribution %d exceeds custody %d", ErrInvalidState, contrib.Amount, c.RaisedAmount)
	}
	amount := contrib.Amount
	c.RaisedAmount -= amount
	c.UpdatedAt = now
	contrib.Amount = 0
	contrib.Refunded = true
	contrib.UpdatedAt = now
	return amount, nil
}

// Cancel stops an Active campaign before its deadline and opens refunds.
// Authorization is checked by the caller against the admin registry.
func (c *Campaign) Cancel(now time.Time) error {
	if c.State != StateActive {
		return fmt.Errorf("%w: cancel on %s campaign", ErrInvalidState, c.State)
	}
	if !now.Before(c.Deadline) {
		return fmt.Errorf("%w: deadline passed", ErrInvalidState)
	}
	c.State = StateCancelled
	c.UpdatedAt = now
	return nil
}
