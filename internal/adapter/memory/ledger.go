package memory

import (
	"context"
	"fmt"
	"math/bits"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// Ledger implements port.AssetLedger on balances held by the store, so
// transfers roll back together with the unit of work that made them.
type Ledger struct {
	s *Store
}

func (l *Ledger) BalanceOf(ctx context.Context, owner domain.Address) (uint64, error) {
	defer l.s.access(ctx)()
	return l.s.st.balances[owner], nil
}

func (l *Ledger) TransferFrom(ctx context.Context, owner, recipient domain.Address, amount uint64) error {
	defer l.s.access(ctx)()
	bal := l.s.st.balances[owner]
	if bal < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", port.ErrInsufficientBalance, owner.Hex(), bal, amount)
	}
	if owner == recipient {
		return nil
	}
	credited, carry := bits.Add64(l.s.st.balances[recipient], amount, 0)
	if carry != 0 {
		return fmt.Errorf("balance overflow for %s", recipient.Hex())
	}
	l.s.st.balances[owner] = bal - amount
	l.s.st.balances[recipient] = credited
	return nil
}

// Mint credits owner out of thin air. It stands in for the external asset
// issuer in local runs and tests.
func (l *Ledger) Mint(ctx context.Context, owner domain.Address, amount uint64) error {
	defer l.s.access(ctx)()
	credited, carry := bits.Add64(l.s.st.balances[owner], amount, 0)
	if carry != 0 {
		return fmt.Errorf("balance overflow for %s", owner.Hex())
	}
	l.s.st.balances[owner] = credited
	return nil
}
