package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
)

type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// NewTransactor builds the admin signer from a hex private key (with or
// without 0x) for the chain the backend reports.
func NewTransactor(ctx context.Context, keyHex string, backend ChainIDReader) (*bind.TransactOpts, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(keyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse admin private key: %w", err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chain id: %w", err)
	}

	return bind.NewKeyedTransactorWithChainID(key, chainID)
}
