// Package memory implements the outbound ports in process memory. A single
// mutex gives every unit of work exclusive access, and a snapshot taken at
// the start of WithinTx is restored when the unit of work fails.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"crowdfund/internal/core/domain"
)

type contributionKey struct {
	campaignID  int64
	contributor domain.Address
}

type state struct {
	admins        map[domain.Address]domain.Admin
	paused        bool
	campaigns     []domain.Campaign // index = id - 1
	contributions map[contributionKey]domain.Contribution
	events        []domain.Event
	balances      map[domain.Address]uint64
}

func (s *state) clone() state {
	return state{
		admins:        maps.Clone(s.admins),
		paused:        s.paused,
		campaigns:     slices.Clone(s.campaigns),
		contributions: maps.Clone(s.contributions),
		events:        slices.Clone(s.events),
		balances:      maps.Clone(s.balances),
	}
}

// Store holds the whole platform state. The zero value is not usable, use
// NewStore.
type Store struct {
	mu sync.Mutex
	st state
}

type txKey struct{}

func NewStore() *Store {
	return &Store{st: state{
		admins:        make(map[domain.Address]domain.Admin),
		contributions: make(map[contributionKey]domain.Contribution),
		balances:      make(map[domain.Address]uint64),
	}}
}

// WithinTx implements port.Transactor. Nested calls join the outer unit.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// access locks the store unless ctx already runs inside one of its units of
// work. The returned func releases the lock.
func (s *Store) access(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Admins() *AdminRepository       { return &AdminRepository{s: s} }
func (s *Store) Campaigns() *CampaignRepository { return &CampaignRepository{s: s} }
func (s *Store) Events() *EventRepository       { return &EventRepository{s: s} }
func (s *Store) Ledger() *Ledger                { return &Ledger{s: s} }
