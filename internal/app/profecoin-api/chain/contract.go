package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrReadOnly = errors.New("contract is bound without a transactor")

// Backend is what a Contract needs from the ledger client. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Contract is a handle on one deployed contract: address, interface and the
// shared admin transactor.
type Contract struct {
	name    string
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	backend Backend
	opts    *bind.TransactOpts
}

// NewContract binds to an already-deployed contract. opts may be nil for a
// read-only handle.
func NewContract(name string, address common.Address, parsed abi.ABI, backend Backend, opts *bind.TransactOpts) *Contract {
	return &Contract{
		name:    name,
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend: backend,
		opts:    opts,
	}
}

func (c *Contract) Name() string { return c.name }

func (c *Contract) Address() common.Address { return c.address }

// Transact signs and sends a call to method. Nonce, gas and fees are left to
// the bind package.
func (c *Contract) Transact(ctx context.Context, method string, params ...interface{}) (*types.Transaction, error) {
	if c.opts == nil {
		return nil, ErrReadOnly
	}
	opts := *c.opts
	opts.Context = ctx

	return c.bound.Transact(&opts, method, params...)
}

// WaitMined blocks until tx is included in a block or ctx ends.
func (c *Contract) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, c.backend, tx)
}

func (c *Contract) Call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, err
	}
	return out, nil
}

// EventField looks through the receipt for the first log of event emitted by
// this contract and returns field formatted as a string.
func (c *Contract) EventField(receipt *types.Receipt, event, field string) (string, bool) {
	if receipt == nil {
		return "", false
	}
	ev, ok := c.abi.Events[event]
	if !ok {
		return "", false
	}

	for _, entry := range receipt.Logs {
		if entry == nil || entry.Address != c.address {
			continue
		}
		if len(entry.Topics) == 0 || entry.Topics[0] != ev.ID {
			continue
		}

		values := make(map[string]interface{})
		if err := c.bound.UnpackLogIntoMap(values, event, *entry); err != nil {
			continue
		}
		if value, ok := values[field]; ok {
			return formatValue(value), true
		}
	}

	return "", false
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case *big.Int:
		return v.String()
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case [32]byte:
		return common.Hash(v).Hex()
	default:
		return fmt.Sprint(v)
	}
}
