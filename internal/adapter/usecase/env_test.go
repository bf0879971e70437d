package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/core/domain"
)

var (
	deployer = domain.Address{0xde}
	admin2   = domain.Address{0xad}
	creator  = domain.Address{0xc1}
	alice    = domain.Address{0xa1}
	bob      = domain.Address{0xb1}
	mallory  = domain.Address{0x66}
	feeSink  = domain.Address{0xfe}
	factory  = domain.Address{0xfa}

	t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

const timeDay = 24 * time.Hour

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	store     *memory.Store
	clock     *fakeClock
	registry  *RegistryService
	factory   *FactoryService
	campaigns *CampaignService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryPorts(store *memory.Store, clock *fakeClock) Ports {
	return Ports{
		Tx:        store,
		Admins:    store.Admins(),
		Campaigns: store.Campaigns(),
		Events:    store.Events(),
		Ledger:    store.Ledger(),
		Clock:     clock,
	}
}

func newTestEnvWith(t *testing.T, adjust func(p *Ports)) *testEnv {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{now: t0}
	p := memoryPorts(store, clock)
	if adjust != nil {
		adjust(&p)
	}

	registry := NewRegistryService(p, discardLogger())
	require.NoError(t, registry.Bootstrap(context.Background(), deployer))

	fac, err := NewFactoryService(FactoryConfig{Address: factory, FeeBps: 100}, p, discardLogger())
	require.NoError(t, err)
	camps, err := NewCampaignService(feeSink, p, discardLogger())
	require.NoError(t, err)

	return &testEnv{store: store, clock: clock, registry: registry, factory: fac, campaigns: camps}
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, nil)
}

func (e *testEnv) mint(t *testing.T, owner domain.Address, amount uint64) {
	t.Helper()
	require.NoError(t, e.store.Ledger().Mint(context.Background(), owner, amount))
}

func (e *testEnv) balance(t *testing.T, owner domain.Address) uint64 {
	t.Helper()
	b, err := e.store.Ledger().BalanceOf(context.Background(), owner)
	require.NoError(t, err)
	return b
}

func (e *testEnv) create(t *testing.T, goal uint64, deadline time.Time) *domain.Campaign {
	t.Helper()
	c, err := e.factory.CreateCampaign(context.Background(), deployer, domain.CampaignParams{
		Creator:    creator,
		GoalAmount: goal,
		Deadline:   deadline,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) events(t *testing.T) []domain.Event {
	t.Helper()
	evs, err := e.store.Events().List(context.Background(), 0, 0)
	require.NoError(t, err)
	return evs
}

func kinds(evs []domain.Event) []domain.EventKind {
	out := make([]domain.EventKind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}
