package postgres

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"crowdfund/internal/core/domain"
)

// NUMERIC columns are read as text and written from decimal strings so the
// full uint64 range survives the round trip.

func amountArg(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

func parseAddress(s string) (domain.Address, error) {
	if !common.IsHexAddress(s) {
		return domain.Address{}, fmt.Errorf("parse address %q: %w", s, domain.ErrInvalidAddress)
	}
	return common.HexToAddress(s), nil
}
