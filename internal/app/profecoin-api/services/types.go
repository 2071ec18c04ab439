package services

import (
	"context"
	"math/big"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

// WriteContract submits signed calls to one contract and decodes its receipts.
type WriteContract interface {
	Transact(ctx context.Context, method string, params ...interface{}) (*gethtypes.Transaction, error)

	WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error)

	EventField(receipt *gethtypes.Receipt, event, field string) (string, bool)
}

type ReadContract interface {
	Call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error)
}

type NetworkReader interface {
	ChainID(ctx context.Context) (*big.Int, error)

	BlockNumber(ctx context.Context) (uint64, error)

	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// Sequencer runs fn exclusively with respect to every other submission of
// the same signer.
type Sequencer interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Journal interface {
	SaveWriteRecord(ctx context.Context, record types.WriteRecord) error
}

type Helper interface {
	Unix() int64
}
