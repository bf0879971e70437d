package httpadapter

import (
	"time"

	"crowdfund/internal/core/domain"
)

// Amounts travel as decimal strings so clients without 64-bit integers do
// not lose precision.

type campaignResponse struct {
	ID             int64                `json:"id"`
	Address        string               `json:"address"`
	Creator        string               `json:"creator"`
	GoalAmount     uint64               `json:"goal_amount,string"`
	RaisedAmount   uint64               `json:"raised_amount,string"`
	Deadline       time.Time            `json:"deadline"`
	PlatformFeeBps uint16               `json:"platform_fee_bps"`
	State          domain.CampaignState `json:"state"`
	CreatorPayout  uint64               `json:"creator_payout,string"`
	FeePaid        uint64               `json:"fee_paid,string"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:             c.ID,
		Address:        c.Address.Hex(),
		Creator:        c.Creator.Hex(),
		GoalAmount:     c.GoalAmount,
		RaisedAmount:   c.RaisedAmount,
		Deadline:       c.Deadline,
		PlatformFeeBps: c.PlatformFeeBps,
		State:          c.State,
		CreatorPayout:  c.CreatorPayout,
		FeePaid:        c.FeePaid,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type createCampaignRequest struct {
	Creator    string    `json:"creator"`
	GoalAmount uint64    `json:"goal_amount,string"`
	Deadline   time.Time `json:"deadline"`
}

type pledgeRequest struct {
	Amount uint64 `json:"amount,string"`
}

type adminRequest struct {
	Address string `json:"address"`
}

type contributionResponse struct {
	CampaignID  int64  `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      uint64 `json:"amount,string"`
	Refunded    bool   `json:"refunded"`
}

type settlementResponse struct {
	CampaignID int64  `json:"campaign_id"`
	Payout     uint64 `json:"payout,string"`
	Fee        uint64 `json:"fee,string"`
}

type refundResponse struct {
	CampaignID int64  `json:"campaign_id"`
	Amount     uint64 `json:"amount,string"`
}

type adminResponse struct {
	Address string    `json:"address"`
	AddedBy string    `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

type registryResponse struct {
	Paused        bool            `json:"paused"`
	Admins        []adminResponse `json:"admins"`
	CampaignCount int64           `json:"campaign_count"`
}

type isAdminResponse struct {
	Address string `json:"address"`
	IsAdmin bool   `json:"is_admin"`
}

type eventResponse struct {
	Seq        int64            `json:"seq"`
	ID         string           `json:"id"`
	Kind       domain.EventKind `json:"kind"`
	CampaignID int64            `json:"campaign_id,omitempty"`
	Actor      string           `json:"actor"`
	Subject    string           `json:"subject,omitempty"`
	Amount     uint64           `json:"amount,string"`
	Fee        uint64           `json:"fee,string"`
	State      string           `json:"state,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func toEventResponse(e domain.Event) eventResponse {
	resp := eventResponse{
		Seq:        e.Seq,
		ID:         e.ID.String(),
		Kind:       e.Kind,
		CampaignID: e.CampaignID,
		Actor:      e.Actor.Hex(),
		Amount:     e.Amount,
		Fee:        e.Fee,
		OccurredAt: e.OccurredAt,
	}
	if e.Subject != (domain.Address{}) {
		resp.Subject = e.Subject.Hex()
	}
	if e.State != 0 {
		resp.State = e.State.String()
	}
	return resp
}
