package services

import (
	"context"
	"errors"
	"fmt"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/infrastructure"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

const (
	eventAchievementAwarded = "AchievementAwarded"
	fieldTokenID            = "tokenId"

	messageTxFailed       = "Ocurrio un error en el servidor al procesar la transaccion."
	messageUpdateFailed   = "Ocurrio un error al procesar la transaccion de actualizacion."
	messageTokenIDUnknown = "No se pudo determinar"
	messageSubmitTimeout  = "La transaccion no pudo ser enviada a tiempo."
)

func NewWriteService(config *infrastructure.Config, profeCoin, logroNFT WriteContract, sequencer Sequencer, journal Journal, helper Helper) *WriteService {
	return &WriteService{
		config:    config,
		profeCoin: profeCoin,
		logroNFT:  logroNFT,
		sequencer: sequencer,
		journal:   journal,
		helper:    helper,
	}
}

// WriteService submits state-changing calls as the admin signer and waits
// for their first confirmation. It never retries: every call produces a new
// transaction.
type WriteService struct {
	config    *infrastructure.Config
	profeCoin WriteContract
	logroNFT  WriteContract
	sequencer Sequencer
	journal   Journal
	helper    Helper
}

type confirmedTx struct {
	tx      *gethtypes.Transaction
	receipt *gethtypes.Receipt
}

func (c confirmedTx) hash() string {
	if c.tx == nil {
		return ""
	}
	return c.tx.Hash().Hex()
}

func (c confirmedTx) blockNumber() uint64 {
	if c.receipt == nil || c.receipt.BlockNumber == nil {
		return 0
	}
	return c.receipt.BlockNumber.Uint64()
}

// Mint creates req.Amount PFC for req.To.
func (s *WriteService) Mint(ctx context.Context, req types.MintRequest) (types.WriteResult, error) {
	call, err := validateMint(req)
	if err != nil {
		return s.fail(ctx, types.OperationMint, confirmedTx{}, err)
	}

	log.Info().Msgf("Minting %s PFC for %s", req.Amount, req.To)

	confirmed, err := s.execute(ctx, s.profeCoin, "mint", messageTxFailed, call.to, call.amount)
	if err != nil {
		return s.fail(ctx, types.OperationMint, confirmed, err)
	}

	return s.succeed(ctx, types.OperationMint, types.WriteResult{
		Status:          types.StatusSuccess,
		Message:         fmt.Sprintf("%s PFC acunados exitosamente para %s.", req.Amount, req.To),
		TransactionHash: confirmed.hash(),
		BlockNumber:     confirmed.blockNumber(),
	}), nil
}

// Award issues a new achievement token to req.Student and reports the token
// id announced by the AchievementAwarded event.
func (s *WriteService) Award(ctx context.Context, req types.AwardRequest) (types.WriteResult, error) {
	call, err := validateAward(req)
	if err != nil {
		return s.fail(ctx, types.OperationAward, confirmedTx{}, err)
	}

	log.Info().Msgf("Awarding achievement to %s with URI %s", req.Student, req.TokenURI)

	confirmed, err := s.execute(ctx, s.logroNFT, "awardAchievement", messageTxFailed, call.student, call.tokenURI)
	if err != nil {
		return s.fail(ctx, types.OperationAward, confirmed, err)
	}

	tokenID, found := s.logroNFT.EventField(confirmed.receipt, eventAchievementAwarded, fieldTokenID)
	displayID := tokenID
	if !found {
		log.Warn().Msgf("no %s event in receipt of %s", eventAchievementAwarded, confirmed.hash())
		tokenID = ""
		displayID = messageTokenIDUnknown
	}

	log.Info().Msgf("Achievement %s confirmed in block %d", displayID, confirmed.blockNumber())

	return s.succeed(ctx, types.OperationAward, types.WriteResult{
		Status:          types.StatusSuccess,
		Message:         fmt.Sprintf("Logro NFT (ID: %s) otorgado exitosamente a %s.", displayID, req.Student),
		TransactionHash: confirmed.hash(),
		TokenID:         tokenID,
		BlockNumber:     confirmed.blockNumber(),
	}), nil
}

// UpdateAchievementURI replaces the metadata URI of an issued achievement.
func (s *WriteService) UpdateAchievementURI(ctx context.Context, tokenID string, req types.UpdateURIRequest) (types.WriteResult, error) {
	call, err := validateUpdateURI(tokenID, req)
	if err != nil {
		return s.fail(ctx, types.OperationUpdateURI, confirmedTx{}, err)
	}

	log.Info().Msgf("Updating URI of token %s to %s", tokenID, req.NewTokenURI)

	confirmed, err := s.execute(ctx, s.logroNFT, "updateAchievementURI", messageUpdateFailed, call.tokenID, call.newTokenURI)
	if err != nil {
		return s.fail(ctx, types.OperationUpdateURI, confirmed, err)
	}

	return s.succeed(ctx, types.OperationUpdateURI, types.WriteResult{
		Status:          types.StatusSuccess,
		Message:         fmt.Sprintf("La URI del Token ID %s ha sido actualizada.", tokenID),
		TransactionHash: confirmed.hash(),
		TokenID:         tokenID,
		BlockNumber:     confirmed.blockNumber(),
	}), nil
}

// execute submits through the sequencer, then waits for the receipt outside
// of it so other submissions are not held behind a confirmation. The queue
// wait plus the submission are bounded by SubmitTimeout, the confirmation by
// ConfirmationTimeout.
func (s *WriteService) execute(ctx context.Context, contract WriteContract, method, failureMessage string, params ...interface{}) (confirmedTx, error) {
	var confirmed confirmedTx

	submitCtx := ctx
	if s.config.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.config.SubmitTimeout)
		defer cancel()
	}

	err := s.sequencer.Do(submitCtx, func(ctx context.Context) error {
		tx, err := contract.Transact(ctx, method, params...)
		if err != nil {
			return err
		}
		confirmed.tx = tx
		return nil
	})
	if err != nil {
		callErr := newCallError(failureMessage, fmt.Errorf("submit %s: %w", method, err))
		if callErr.Kind == KindTimeout && ctx.Err() == nil {
			callErr.Message = messageSubmitTimeout
		}
		return confirmed, callErr
	}

	log.Info().Msgf("Transaction sent. Hash: %s. Waiting for confirmation...", confirmed.hash())

	waitCtx := ctx
	if s.config.ConfirmationTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.config.ConfirmationTimeout)
		defer cancel()
	}

	receipt, err := contract.WaitMined(waitCtx, confirmed.tx)
	if err != nil {
		callErr := newCallError(failureMessage, fmt.Errorf("wait for %s: %w", confirmed.hash(), err))
		if callErr.Kind == KindTimeout {
			callErr.Message = fmt.Sprintf("La transaccion %s no fue confirmada a tiempo.", confirmed.hash())
		}
		return confirmed, callErr
	}
	confirmed.receipt = receipt

	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return confirmed, &CallError{
			Kind:    KindChainCall,
			Message: failureMessage,
			Err:     fmt.Errorf("transaction %s reverted in block %d", confirmed.hash(), confirmed.blockNumber()),
		}
	}

	log.Info().Msgf("Transaction %s confirmed in block %d", confirmed.hash(), confirmed.blockNumber())

	return confirmed, nil
}

func (s *WriteService) succeed(ctx context.Context, operation string, result types.WriteResult) types.WriteResult {
	s.record(ctx, operation, result, "")
	return result
}

func (s *WriteService) fail(ctx context.Context, operation string, confirmed confirmedTx, err error) (types.WriteResult, error) {
	var callErr *CallError
	if !errors.As(err, &callErr) {
		callErr = newCallError(messageTxFailed, err)
	}

	log.Error().Err(err).Str("operation", operation).Str("kind", string(callErr.Kind)).Msg("write failed")

	result := types.WriteResult{
		Status:          types.StatusError,
		Message:         callErr.Message,
		TransactionHash: confirmed.hash(),
		BlockNumber:     confirmed.blockNumber(),
	}
	s.record(ctx, operation, result, callErr.Kind)

	return result, callErr
}

func (s *WriteService) record(ctx context.Context, operation string, result types.WriteResult, kind ErrorKind) {
	if s.journal == nil {
		return
	}

	record := types.WriteRecord{
		Operation:   operation,
		Status:      result.Status,
		Message:     result.Message,
		TxHash:      result.TransactionHash,
		BlockNumber: int64(result.BlockNumber),
		ExtractedID: result.TokenID,
		ErrorKind:   string(kind),
		CreatedAt:   s.helper.Unix(),
	}

	if err := s.journal.SaveWriteRecord(context.WithoutCancel(ctx), record); err != nil {
		log.Warn().Err(err).Msgf("failed to journal %s outcome", operation)
	}
}
