package sql_db

import (
	"context"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

func (sdb *SqlDB) SaveWriteRecord(ctx context.Context, record types.WriteRecord) error {
	return sdb.ExecuteTx(ctx, func(tx *DbTx) error {
		return saveWriteRecord(ctx, tx, record)
	})
}

func saveWriteRecord(ctx context.Context, tx *DbTx, record types.WriteRecord) error {
	_, err := tx.NamedExecContext(ctx, insertWriteRecord, record)
	return err
}

const (
	insertWriteRecord = `INSERT INTO write_journal
		(operation, status, message, tx_hash, block_number, extracted_id, error_kind, created_at)
		VALUES (:operation, :status, :message, :tx_hash, :block_number, :extracted_id, :error_kind, :created_at)`
)
