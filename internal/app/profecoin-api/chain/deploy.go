package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Deploy sends the creation transaction for artifact and waits until the
// contract code is on chain.
func Deploy(ctx context.Context, backend Backend, opts *bind.TransactOpts, artifact *Artifact, params ...interface{}) (common.Address, *types.Transaction, error) {
	parsed, err := artifact.ParsedABI()
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("parse %s abi: %w", artifact.ContractName, err)
	}
	code, err := artifact.Code()
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("%s: %w", artifact.ContractName, err)
	}

	deployOpts := *opts
	deployOpts.Context = ctx

	address, tx, _, err := bind.DeployContract(&deployOpts, parsed, code, backend, params...)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("deploy %s: %w", artifact.ContractName, err)
	}

	if _, err := bind.WaitDeployed(ctx, backend, tx); err != nil {
		return address, tx, fmt.Errorf("wait for %s deployment %s: %w", artifact.ContractName, tx.Hash().Hex(), err)
	}

	return address, tx, nil
}
