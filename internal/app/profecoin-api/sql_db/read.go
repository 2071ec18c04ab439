package sql_db

import (
	"context"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

// GetRecentWriteRecords returns at most limit journal rows, newest first.
// Rows journaled within the same second keep their insertion order.
func (sdb *SqlDB) GetRecentWriteRecords(ctx context.Context, limit int) ([]types.WriteRecord, error) {
	records := []types.WriteRecord{}
	err := sdb.SelectContext(ctx, &records, sdb.Rebind(selectRecentWriteRecords), limit)
	if err != nil {
		return nil, err
	}
	return records, nil
}

const selectRecentWriteRecords = `SELECT operation, status, message, tx_hash, block_number, extracted_id, error_kind, created_at
	FROM write_journal ORDER BY created_at DESC, id DESC LIMIT ?`
