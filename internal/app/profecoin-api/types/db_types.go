package types

// WriteRecord is one journal row describing a submitted (or rejected) write.
type WriteRecord struct {
	Operation   string `db:"operation" json:"operation"`
	Status      string `db:"status" json:"status"`
	Message     string `db:"message" json:"message"`
	TxHash      string `db:"tx_hash" json:"transactionHash,omitempty"`
	BlockNumber int64  `db:"block_number" json:"blockNumber,omitempty"`
	ExtractedID string `db:"extracted_id" json:"tokenId,omitempty"`
	ErrorKind   string `db:"error_kind" json:"errorKind,omitempty"`
	CreatedAt   int64  `db:"created_at" json:"createdAt"`
}
