package postgres

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

var (
	_ port.Transactor         = (*Transactor)(nil)
	_ port.AdminRepository    = (*AdminRepository)(nil)
	_ port.CampaignRepository = (*CampaignRepository)(nil)
	_ port.EventRepository    = (*EventRepository)(nil)
	_ port.AssetLedger        = (*Ledger)(nil)
)

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, retryable(fmt.Errorf("%w: pledge: %w", domain.ErrTransferFailed, &pgconn.PgError{Code: "40P01"})))
	assert.False(t, retryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, retryable(domain.ErrInvalidState))
	assert.False(t, retryable(errors.New("connection reset")))
}

func TestAmountText(t *testing.T) {
	for _, v := range []uint64{0, 1, 1100, math.MaxUint64} {
		got, err := parseAmount(amountArg(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	_, err := parseAmount("-1")
	require.Error(t, err)
	_, err = parseAmount("18446744073709551616")
	require.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	addr := domain.Address{0xab, 0xcd}
	got, err := parseAddress(addr.Hex())
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	zero, err := parseAddress(domain.Address{}.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.Address{}, zero)

	_, err = parseAddress("not-an-address")
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
}
