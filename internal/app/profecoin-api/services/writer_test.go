package services

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	worker "github.com/profecoin/profecoin-api/internal/app/profecoin-api"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/infrastructure"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

func newTestWriteService(profeCoin, logroNFT *mockContract, journal Journal) (*WriteService, *inlineSequencer) {
	config := &infrastructure.Config{SubmitTimeout: time.Second, ConfirmationTimeout: time.Second}
	sequencer := &inlineSequencer{}
	return NewWriteService(config, profeCoin, logroNFT, sequencer, journal, &mockHelper{}), sequencer
}

func TestMint(t *testing.T) {
	profeCoin := &mockContract{}
	tx := newTx(1)
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Return(tx, nil).Once()
	profeCoin.On("WaitMined", mock.Anything, tx).Return(newReceipt(1, 42), nil).Once()

	s, sequencer := newTestWriteService(profeCoin, &mockContract{}, nil)
	result, err := s.Mint(context.Background(), types.MintRequest{To: studentAddress, Amount: "100"})
	require.NoError(t, err)

	require.Equal(t, types.WriteResult{
		Status:          types.StatusSuccess,
		Message:         "100 PFC acunados exitosamente para " + studentAddress + ".",
		TransactionHash: tx.Hash().Hex(),
		BlockNumber:     42,
	}, result)
	require.Equal(t, 1, sequencer.submissions)

	params := profeCoin.Calls[0].Arguments.Get(2).([]interface{})
	require.Len(t, params, 2)
	require.Equal(t, "100000000000000000000", params[1].(*big.Int).String())
	profeCoin.AssertExpectations(t)
}

func TestMintValidationFailureNeverSubmits(t *testing.T) {
	profeCoin := &mockContract{}
	s, sequencer := newTestWriteService(profeCoin, &mockContract{}, nil)

	result, err := s.Mint(context.Background(), types.MintRequest{To: "0x123", Amount: "1"})
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	require.Equal(t, types.StatusError, result.Status)
	require.Equal(t, 0, sequencer.submissions)
	profeCoin.AssertNotCalled(t, "Transact", mock.Anything, mock.Anything, mock.Anything)
}

func TestMintTwiceProducesTwoTransactions(t *testing.T) {
	profeCoin := &mockContract{}
	first, second := newTx(1), newTx(2)
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Return(first, nil).Once()
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Return(second, nil).Once()
	profeCoin.On("WaitMined", mock.Anything, mock.Anything).Return(newReceipt(1, 10), nil)

	s, sequencer := newTestWriteService(profeCoin, &mockContract{}, nil)
	req := types.MintRequest{To: studentAddress, Amount: "5"}

	r1, err := s.Mint(context.Background(), req)
	require.NoError(t, err)
	r2, err := s.Mint(context.Background(), req)
	require.NoError(t, err)

	require.NotEqual(t, r1.TransactionHash, r2.TransactionHash)
	require.Equal(t, 2, sequencer.submissions)
	profeCoin.AssertNumberOfCalls(t, "Transact", 2)
}

func TestAwardExtractsTokenID(t *testing.T) {
	logroNFT := &mockContract{}
	tx := newTx(3)
	receipt := newReceipt(1, 77)
	logroNFT.On("Transact", mock.Anything, "awardAchievement", mock.Anything).Return(tx, nil).Once()
	logroNFT.On("WaitMined", mock.Anything, tx).Return(receipt, nil).Once()
	logroNFT.On("EventField", receipt, "AchievementAwarded", "tokenId").Return("7", true).Once()

	s, _ := newTestWriteService(&mockContract{}, logroNFT, nil)
	result, err := s.Award(context.Background(), types.AwardRequest{Student: studentAddress, TokenURI: tokenURI})
	require.NoError(t, err)

	require.Equal(t, types.StatusSuccess, result.Status)
	require.Equal(t, "7", result.TokenID)
	require.Equal(t, uint64(77), result.BlockNumber)
	require.Equal(t, "Logro NFT (ID: 7) otorgado exitosamente a "+studentAddress+".", result.Message)
	logroNFT.AssertExpectations(t)
}

func TestAwardWithoutEvent(t *testing.T) {
	logroNFT := &mockContract{}
	tx := newTx(4)
	logroNFT.On("Transact", mock.Anything, "awardAchievement", mock.Anything).Return(tx, nil).Once()
	logroNFT.On("WaitMined", mock.Anything, tx).Return(newReceipt(1, 5), nil).Once()
	logroNFT.On("EventField", mock.Anything, "AchievementAwarded", "tokenId").Return("", false).Once()

	s, _ := newTestWriteService(&mockContract{}, logroNFT, nil)
	result, err := s.Award(context.Background(), types.AwardRequest{Student: studentAddress, TokenURI: tokenURI})
	require.NoError(t, err)

	require.Equal(t, types.StatusSuccess, result.Status)
	require.Empty(t, result.TokenID)
	require.Contains(t, result.Message, "No se pudo determinar")
}

func TestWaitFailureReturnsError(t *testing.T) {
	logroNFT := &mockContract{}
	tx := newTx(5)
	logroNFT.On("Transact", mock.Anything, "awardAchievement", mock.Anything).Return(tx, nil).Once()
	logroNFT.On("WaitMined", mock.Anything, tx).Return(nil, errors.New("transaction dropped")).Once()

	s, _ := newTestWriteService(&mockContract{}, logroNFT, nil)
	result, err := s.Award(context.Background(), types.AwardRequest{Student: studentAddress, TokenURI: tokenURI})
	require.Error(t, err)

	require.Equal(t, KindChainCall, KindOf(err))
	require.Equal(t, types.StatusError, result.Status)
	require.Equal(t, messageTxFailed, result.Message)
	require.Equal(t, tx.Hash().Hex(), result.TransactionHash)
	logroNFT.AssertNotCalled(t, "EventField", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmationTimeoutKeepsHash(t *testing.T) {
	profeCoin := &mockContract{}
	tx := newTx(6)
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Return(tx, nil).Once()
	profeCoin.On("WaitMined", mock.Anything, tx).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(nil, context.DeadlineExceeded).Once()

	s, _ := newTestWriteService(profeCoin, &mockContract{}, nil)
	s.config.ConfirmationTimeout = 10 * time.Millisecond

	result, err := s.Mint(context.Background(), types.MintRequest{To: studentAddress, Amount: "1"})
	require.Error(t, err)
	require.Equal(t, KindTimeout, KindOf(err))
	require.Equal(t, tx.Hash().Hex(), result.TransactionHash)
	require.Contains(t, result.Message, tx.Hash().Hex())
}

func TestSubmitTimeout(t *testing.T) {
	profeCoin := &mockContract{}
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(nil, context.DeadlineExceeded).Once()

	s, _ := newTestWriteService(profeCoin, &mockContract{}, nil)
	s.config.SubmitTimeout = 10 * time.Millisecond

	result, err := s.Mint(context.Background(), types.MintRequest{To: studentAddress, Amount: "1"})
	require.Equal(t, KindTimeout, KindOf(err))
	require.Equal(t, types.StatusError, result.Status)
	require.Equal(t, messageSubmitTimeout, result.Message)
	require.Empty(t, result.TransactionHash)
	profeCoin.AssertNotCalled(t, "WaitMined", mock.Anything, mock.Anything)
}

func TestStuckSubmissionDoesNotBlockQueue(t *testing.T) {
	profeCoin := &mockContract{}
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(nil, context.DeadlineExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue := worker.NewSubmitQueue(4)
	go queue.Start(ctx)

	config := &infrastructure.Config{SubmitTimeout: 50 * time.Millisecond, ConfirmationTimeout: 50 * time.Millisecond}
	s := NewWriteService(config, profeCoin, &mockContract{}, queue, nil, &mockHelper{})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := s.Mint(context.Background(), types.MintRequest{To: studentAddress, Amount: "1"})
			errs <- err
		}()
	}

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			require.Equal(t, KindTimeout, KindOf(err))
		case <-time.After(time.Second):
			t.Fatal("write did not return after the submit timeout")
		}
	}
	profeCoin.AssertNotCalled(t, "WaitMined", mock.Anything, mock.Anything)
}

func TestRevertedReceipt(t *testing.T) {
	logroNFT := &mockContract{}
	tx := newTx(7)
	logroNFT.On("Transact", mock.Anything, "updateAchievementURI", mock.Anything).Return(tx, nil).Once()
	logroNFT.On("WaitMined", mock.Anything, tx).Return(newReceipt(0, 9), nil).Once()

	s, _ := newTestWriteService(&mockContract{}, logroNFT, nil)
	result, err := s.UpdateAchievementURI(context.Background(), "3", types.UpdateURIRequest{NewTokenURI: tokenURI})
	require.Error(t, err)

	require.Equal(t, KindChainCall, KindOf(err))
	require.Equal(t, messageUpdateFailed, result.Message)
	require.Equal(t, uint64(9), result.BlockNumber)
}

func TestSubmitFailureIsClassified(t *testing.T) {
	profeCoin := &mockContract{}
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Return(nil, errors.New("execution reverted: OwnableUnauthorizedAccount")).Once()

	s, _ := newTestWriteService(profeCoin, &mockContract{}, nil)
	result, err := s.Mint(context.Background(), types.MintRequest{To: studentAddress, Amount: "1"})
	require.Error(t, err)
	require.Equal(t, KindChainCall, KindOf(err))
	require.Empty(t, result.TransactionHash)
	profeCoin.AssertNotCalled(t, "WaitMined", mock.Anything, mock.Anything)
}

func TestUpdateAchievementURI(t *testing.T) {
	logroNFT := &mockContract{}
	tx := newTx(8)
	logroNFT.On("Transact", mock.Anything, "updateAchievementURI", mock.Anything).Return(tx, nil).Once()
	logroNFT.On("WaitMined", mock.Anything, tx).Return(newReceipt(1, 11), nil).Once()

	s, _ := newTestWriteService(&mockContract{}, logroNFT, nil)
	result, err := s.UpdateAchievementURI(context.Background(), "3", types.UpdateURIRequest{NewTokenURI: tokenURI})
	require.NoError(t, err)
	require.Equal(t, types.StatusSuccess, result.Status)
	require.Equal(t, "La URI del Token ID 3 ha sido actualizada.", result.Message)
	require.Equal(t, tx.Hash().Hex(), result.TransactionHash)
}

func TestOutcomesAreJournaled(t *testing.T) {
	profeCoin := &mockContract{}
	tx := newTx(9)
	profeCoin.On("Transact", mock.Anything, "mint", mock.Anything).Return(tx, nil).Once()
	profeCoin.On("WaitMined", mock.Anything, tx).Return(newReceipt(1, 12), nil).Once()

	journal := &mockJournal{}
	journal.On("SaveWriteRecord", mock.Anything, types.WriteRecord{
		Operation:   types.OperationMint,
		Status:      types.StatusSuccess,
		Message:     "1 PFC acunados exitosamente para " + studentAddress + ".",
		TxHash:      tx.Hash().Hex(),
		BlockNumber: 12,
		CreatedAt:   1666641078,
	}).Return(nil).Once()
	journal.On("SaveWriteRecord", mock.Anything, mock.MatchedBy(func(r types.WriteRecord) bool {
		return r.Status == types.StatusError && r.ErrorKind == string(KindValidation)
	})).Return(errors.New("disk full")).Once()

	s, _ := newTestWriteService(profeCoin, &mockContract{}, journal)

	_, err := s.Mint(context.Background(), types.MintRequest{To: studentAddress, Amount: "1"})
	require.NoError(t, err)

	// a failing journal never changes the response
	result, err := s.Mint(context.Background(), types.MintRequest{To: studentAddress})
	require.Equal(t, KindValidation, KindOf(err))
	require.Equal(t, types.StatusError, result.Status)

	journal.AssertExpectations(t)
}

func TestCancelledCallerNeverSubmits(t *testing.T) {
	profeCoin := &mockContract{}
	s, sequencer := newTestWriteService(profeCoin, &mockContract{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Mint(ctx, types.MintRequest{To: studentAddress, Amount: "1"})
	require.Equal(t, KindTimeout, KindOf(err))
	require.Equal(t, 0, sequencer.submissions)
	profeCoin.AssertNotCalled(t, "Transact", mock.Anything, mock.Anything, mock.Anything)
}
