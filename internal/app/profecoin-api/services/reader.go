package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/infrastructure"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

const (
	networkConnected = "Conectado"
	gweiDecimals     = 9

	messageNetworkFailed   = "No se pudo conectar con la red de Besu."
	messageProfeCoinFailed = "No se pudo interactuar con el contrato ProfeCoin."
	messageServerFailed    = "Ocurrio un error en el servidor."
)

func NewReadService(config *infrastructure.Config, profeCoin, logroNFT ReadContract, network NetworkReader) *ReadService {
	return &ReadService{config: config, profeCoin: profeCoin, logroNFT: logroNFT, network: network}
}

// ReadService formats view calls for clients. Reads never go through the
// submit queue.
type ReadService struct {
	config    *infrastructure.Config
	profeCoin ReadContract
	logroNFT  ReadContract
	network   NetworkReader
}

func (s *ReadService) NetworkStatus(ctx context.Context) (types.NetworkStatus, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	blockNumber, err := s.network.BlockNumber(ctx)
	if err != nil {
		return types.NetworkStatus{}, s.readFailed("block number", messageNetworkFailed, err)
	}
	chainID, err := s.network.ChainID(ctx)
	if err != nil {
		return types.NetworkStatus{}, s.readFailed("chain id", messageNetworkFailed, err)
	}
	gasPrice, err := s.network.SuggestGasPrice(ctx)
	if err != nil {
		return types.NetworkStatus{}, s.readFailed("gas price", messageNetworkFailed, err)
	}

	return types.NetworkStatus{
		Status:      networkConnected,
		ChainID:     chainID.String(),
		LatestBlock: fmt.Sprintf("%d", blockNumber),
		GasPrice:    FormatUnits(gasPrice, gweiDecimals) + " Gwei",
	}, nil
}

func (s *ReadService) TotalSupply(ctx context.Context) (types.TotalSupply, error) {
	raw, err := s.callBigInt(ctx, s.profeCoin, "totalSupply")
	if err != nil {
		return types.TotalSupply{}, s.readFailed("ProfeCoin total supply", messageProfeCoinFailed, err)
	}

	return types.TotalSupply{
		TotalSupply:    FormatUnits(raw, TokenDecimals),
		TotalSupplyRaw: raw.String(),
	}, nil
}

func (s *ReadService) TokenBalance(ctx context.Context, address string) (types.TokenBalance, error) {
	account, err := ValidateAddress("address", address)
	if err != nil {
		return types.TokenBalance{}, err
	}

	raw, err := s.callBigInt(ctx, s.profeCoin, "balanceOf", account)
	if err != nil {
		return types.TokenBalance{}, s.readFailed("PFC balance of "+address, messageServerFailed, err)
	}

	return types.TokenBalance{
		Address:    address,
		Balance:    FormatUnits(raw, TokenDecimals),
		BalanceRaw: raw.String(),
	}, nil
}

func (s *ReadService) AchievementBalance(ctx context.Context, address string) (types.AchievementBalance, error) {
	account, err := ValidateAddress("address", address)
	if err != nil {
		return types.AchievementBalance{}, err
	}

	count, err := s.callBigInt(ctx, s.logroNFT, "balanceOf", account)
	if err != nil {
		return types.AchievementBalance{}, s.readFailed("achievement balance of "+address, messageServerFailed, err)
	}

	return types.AchievementBalance{Address: address, NftCount: count.String()}, nil
}

// AchievementOwner looks up the holder of tokenID. The contract reverts for
// tokens that were never issued, which is reported as a ChainCall error.
func (s *ReadService) AchievementOwner(ctx context.Context, tokenID string) (types.AchievementOwner, error) {
	id, err := ValidateTokenID(tokenID)
	if err != nil {
		return types.AchievementOwner{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.logroNFT.Call(ctx, "ownerOf", id)
	if err == nil {
		if owner, ok := firstOutput[common.Address](out); ok {
			return types.AchievementOwner{TokenID: tokenID, Owner: owner.Hex()}, nil
		}
		err = fmt.Errorf("unexpected ownerOf output %v", out)
	}

	message := fmt.Sprintf("No se pudo encontrar el dueño del Token ID %s. ¿Estas seguro de que existe?", tokenID)
	return types.AchievementOwner{}, s.readFailed("owner of token "+tokenID, message, err)
}

func (s *ReadService) callBigInt(ctx context.Context, contract ReadContract, method string, params ...interface{}) (*big.Int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := contract.Call(ctx, method, params...)
	if err != nil {
		return nil, err
	}

	value, ok := firstOutput[*big.Int](out)
	if !ok || value == nil {
		return nil, fmt.Errorf("unexpected %s output %v", method, out)
	}
	return value, nil
}

func (s *ReadService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.CallTimeout)
}

func (s *ReadService) readFailed(what, message string, err error) error {
	callErr := newCallError(message, fmt.Errorf("read %s: %w", what, err))
	log.Error().Err(err).Str("kind", string(callErr.Kind)).Msgf("failed to read %s", what)
	return callErr
}

func firstOutput[T any](out []interface{}) (T, bool) {
	var zero T
	if len(out) == 0 {
		return zero, false
	}
	value, ok := out[0].(T)
	return value, ok
}
