package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address identifies a principal or a custody account on the payment asset
// ledger. It is a 20-byte EVM address.
type Address = common.Address

// ParseAddress accepts a hex encoded address with or without the 0x prefix.
// The zero address is rejected because no principal can sign for it.
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	addr := common.HexToAddress(s)
	if addr == (Address{}) {
		return Address{}, fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}
	return addr, nil
}

// CustodyAddress derives the address holding the funds of the campaign with
// the given creation index. Derivation mirrors contract creation addresses so
// every campaign of one factory gets a distinct, reproducible account.
func CustodyAddress(factory Address, index int64) Address {
	return crypto.CreateAddress(factory, uint64(index))
}
