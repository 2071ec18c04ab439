package services

import (
	"context"
	"math/big"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

type mockContract struct {
	mock.Mock
}

func (mc *mockContract) Transact(ctx context.Context, method string, params ...interface{}) (*gethtypes.Transaction, error) {
	args := mc.Called(ctx, method, params)
	tx, _ := args.Get(0).(*gethtypes.Transaction)
	return tx, args.Error(1)
}

func (mc *mockContract) WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	args := mc.Called(ctx, tx)
	receipt, _ := args.Get(0).(*gethtypes.Receipt)
	return receipt, args.Error(1)
}

func (mc *mockContract) EventField(receipt *gethtypes.Receipt, event, field string) (string, bool) {
	args := mc.Called(receipt, event, field)
	return args.String(0), args.Bool(1)
}

func (mc *mockContract) Call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	args := mc.Called(ctx, method, params)
	out, _ := args.Get(0).([]interface{})
	return out, args.Error(1)
}

type mockNetwork struct {
	mock.Mock
}

func (mn *mockNetwork) ChainID(ctx context.Context) (*big.Int, error) {
	args := mn.Called(ctx)
	id, _ := args.Get(0).(*big.Int)
	return id, args.Error(1)
}

func (mn *mockNetwork) BlockNumber(ctx context.Context) (uint64, error) {
	args := mn.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (mn *mockNetwork) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := mn.Called(ctx)
	price, _ := args.Get(0).(*big.Int)
	return price, args.Error(1)
}

type mockJournal struct {
	mock.Mock
}

func (mj *mockJournal) SaveWriteRecord(ctx context.Context, record types.WriteRecord) error {
	args := mj.Called(ctx, record)
	return args.Error(0)
}

// inlineSequencer runs submissions on the caller's goroutine and counts them.
type inlineSequencer struct {
	submissions int
}

func (s *inlineSequencer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.submissions++
	return fn(ctx)
}

type mockHelper struct {
}

func (_ *mockHelper) Unix() int64 {
	return 1666641078
}

func newTx(nonce uint64) *gethtypes.Transaction {
	return gethtypes.NewTx(&gethtypes.LegacyTx{Nonce: nonce, Gas: 21000, GasPrice: big.NewInt(1)})
}

func newReceipt(status uint64, block int64) *gethtypes.Receipt {
	return &gethtypes.Receipt{Status: status, BlockNumber: big.NewInt(block)}
}
