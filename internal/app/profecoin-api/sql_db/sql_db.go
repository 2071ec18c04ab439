package sql_db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func NewSqlDB(db *sqlx.DB) *SqlDB {
	return &SqlDB{db}
}

// CreateSchema creates the journal table when it does not exist yet. Only the
// id column differs between PostgreSQL and SQLite.
func (sdb *SqlDB) CreateSchema(ctx context.Context) error {
	return sdb.ExecuteTx(ctx, func(tx *DbTx) error {
		for _, statement := range schemaFor(sdb.DriverName()) {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}
		return nil
	})
}

func (sdb *SqlDB) ExecuteTx(ctx context.Context, callback func(*DbTx) error) (retErr error) {
	tx, err := sdb.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if retErr != nil {
			if err := tx.Rollback(); err != nil {
				log.Error().Err(fmt.Errorf("error while executing tx: %s\nerror while making rollback: %s", retErr, err)).Send()
			}
		}
	}()

	if retErr = callback(&DbTx{tx}); retErr != nil {
		return
	}

	if retErr = tx.Commit(); retErr != nil {
		return
	}

	return nil
}

type SqlDB struct {
	*sqlx.DB
}
type DbTx struct {
	*sqlx.Tx
}

func schemaFor(driverName string) []string {
	idColumn := "id BIGSERIAL PRIMARY KEY"
	if driverName == "sqlite3" {
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS write_journal (
			` + idColumn + `,
			operation VARCHAR(32) NOT NULL,
			status VARCHAR(16) NOT NULL,
			message TEXT NOT NULL,
			tx_hash VARCHAR(66) NOT NULL DEFAULT '',
			block_number BIGINT NOT NULL DEFAULT 0,
			extracted_id TEXT NOT NULL DEFAULT '',
			error_kind VARCHAR(32) NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS write_journal_created_at_idx ON write_journal (created_at, id)`,
	}
}
