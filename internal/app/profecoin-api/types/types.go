package types

// Wire values of WriteResult.Status and of every error body.
const (
	StatusSuccess = "Exito"
	StatusError   = "Error"
)

// Operation names used in logs, metrics and the journal.
const (
	OperationMint      = "mint"
	OperationAward     = "award"
	OperationUpdateURI = "update_uri"
)

type MintRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type AwardRequest struct {
	Student  string `json:"student"`
	TokenURI string `json:"tokenURI"`
}

type UpdateURIRequest struct {
	NewTokenURI string `json:"newTokenURI"`
}

// WriteResult is the outcome of one state-changing contract call. It is
// written to the client as-is.
type WriteResult struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	TransactionHash string `json:"transactionHash,omitempty"`
	TokenID         string `json:"tokenId,omitempty"`
	BlockNumber     uint64 `json:"blockNumber,omitempty"`
}

func (r WriteResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
