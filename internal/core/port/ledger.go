package port

import (
	"context"
	"errors"
	"time"

	"crowdfund/internal/core/domain"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// AssetLedger is the external fungible balance ledger of the payment asset.
// The core only reads balances and instructs transfers; any error means the
// transfer did not happen and the calling operation must abort.
type AssetLedger interface {
	BalanceOf(ctx context.Context, owner domain.Address) (uint64, error)
	TransferFrom(ctx context.Context, owner, recipient domain.Address, amount uint64) error
}

// Clock is the ambient time source used for deadline checks. It is never
// supplied by callers.
type Clock interface {
	Now() time.Time
}
