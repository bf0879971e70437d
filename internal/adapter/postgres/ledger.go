package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// Ledger implements port.AssetLedger on the asset_balances mirror. Transfers
// join the caller's transaction, so a rolled back operation also rolls back
// its fund movements.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

func (l *Ledger) BalanceOf(ctx context.Context, owner domain.Address) (uint64, error) {
	var bal string
	err := conn(ctx, l.pool).QueryRow(ctx, `SELECT balance::text FROM asset_balances WHERE address = $1`, owner.Hex()).Scan(&bal)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseAmount(bal)
}

func (l *Ledger) TransferFrom(ctx context.Context, owner, recipient domain.Address, amount uint64) error {
	if owner == recipient {
		return nil
	}
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); !ok {
		// debit and credit must commit together
		return pgx.BeginFunc(ctx, l.pool, func(tx pgx.Tx) error {
			return l.TransferFrom(context.WithValue(ctx, txKey{}, tx), owner, recipient, amount)
		})
	}
	q := conn(ctx, l.pool)
	tag, err := q.Exec(ctx,
		`UPDATE asset_balances SET balance = balance - $2::numeric WHERE address = $1 AND balance >= $2::numeric`,
		owner.Hex(), amountArg(amount))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s cannot cover %d", port.ErrInsufficientBalance, owner.Hex(), amount)
	}
	_, err = q.Exec(ctx, `INSERT INTO asset_balances (address, balance) VALUES ($1, $2::numeric)
ON CONFLICT (address) DO UPDATE SET balance = asset_balances.balance + EXCLUDED.balance`,
		recipient.Hex(), amountArg(amount))
	return err
}
