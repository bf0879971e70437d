package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

var (
	_ port.Transactor         = (*Store)(nil)
	_ port.AdminRepository    = (*AdminRepository)(nil)
	_ port.CampaignRepository = (*CampaignRepository)(nil)
	_ port.EventRepository    = (*EventRepository)(nil)
	_ port.AssetLedger        = (*Ledger)(nil)
)

var (
	alice = domain.Address{0xa1}
	bob   = domain.Address{0xb1}
)

func TestWithinTxRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Ledger().Mint(ctx, alice, 100))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Admins().Add(ctx, domain.Admin{Address: alice}))
		require.NoError(t, s.Ledger().TransferFrom(ctx, alice, bob, 60))
		require.NoError(t, s.Events().Append(ctx, domain.NewEvent(domain.EventAdminAdded, alice, time.Now())))
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := s.Admins().IsAdmin(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	bal, err := s.Ledger().BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), bal)

	evs, err := s.Events().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, evs)
}

func TestWithinTxNestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		return s.WithinTx(ctx, func(ctx context.Context) error {
			return s.Admins().Add(ctx, domain.Admin{Address: bob})
		})
	})
	require.NoError(t, err)

	n, err := s.Admins().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLedgerTransfer(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	l := s.Ledger()
	require.NoError(t, l.Mint(ctx, alice, 10))

	err := l.TransferFrom(ctx, alice, bob, 11)
	require.ErrorIs(t, err, port.ErrInsufficientBalance)

	require.NoError(t, l.TransferFrom(ctx, alice, bob, 4))
	a, _ := l.BalanceOf(ctx, alice)
	b, _ := l.BalanceOf(ctx, bob)
	assert.Equal(t, uint64(6), a)
	assert.Equal(t, uint64(4), b)
}

func TestCampaignListAndSequence(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Campaigns()

	require.Error(t, r.Create(ctx, &domain.Campaign{ID: 2}))
	for id := int64(1); id <= 5; id++ {
		require.NoError(t, r.Create(ctx, &domain.Campaign{ID: id}))
	}

	page, err := r.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)

	page, err = r.List(ctx, 3, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(4), page[0].ID)

	page, err = r.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = r.Get(ctx, 6)
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)

	c, err := r.Contribution(ctx, 1, alice)
	require.NoError(t, err)
	assert.Zero(t, c.Amount)
	assert.Equal(t, alice, c.Contributor)
}

func TestEventsAfter(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Events()
	now := time.Now()
	require.NoError(t, r.Append(ctx,
		domain.NewEvent(domain.EventAdminAdded, alice, now),
		domain.NewEvent(domain.EventAdminAdded, bob, now),
		domain.NewEvent(domain.EventAdminRemoved, alice, now),
	))

	evs, err := r.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, int64(2), evs[0].Seq)
	assert.Equal(t, bob, evs[0].Actor)
}
