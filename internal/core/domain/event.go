package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind names an event published for off-chain observers.
type EventKind string

const (
	EventAdminAdded        EventKind = "admin_added"
	EventAdminRemoved      EventKind = "admin_removed"
	EventRegistryPaused    EventKind = "registry_paused"
	EventRegistryUnpaused  EventKind = "registry_unpaused"
	EventCampaignCreated   EventKind = "campaign_created"
	EventPledgeReceived    EventKind = "pledge_received"
	EventCampaignFinalized EventKind = "campaign_finalized"
	EventWithdrawal        EventKind = "withdrawal_executed"
	EventRefund            EventKind = "refund_executed"
	EventCampaignCancelled EventKind = "campaign_cancelled"
)

// Event is an entry of the append-only event feed. Seq is assigned when the
// event is stored and orders events by commit.
type Event struct {
	Seq        int64
	ID         uuid.UUID
	Kind       EventKind
	CampaignID int64 // zero for registry events
	Actor      Address
	Subject    Address
	Amount     uint64
	Fee        uint64
	State      CampaignState // verdict or resulting state, zero for registry events
	OccurredAt time.Time
}

// NewEvent returns an event of kind with a fresh identifier.
func NewEvent(kind EventKind, actor Address, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		Actor:      actor,
		OccurredAt: at,
	}
}
