// Package logstore is the client for the unarchived-log table. The table
// is append-only from the ingest path; the archiver reads bounded batches
// and deletes rows only after their lines are durably archived.
package logstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"logvault/pkg/logger"
	"logvault/pkg/models"
)

const defaultDeleteBatchSize = 100

const schema = `
CREATE TABLE IF NOT EXISTS logs (
	id          TEXT PRIMARY KEY,
	user_id     TEXT,
	created_at  TEXT NOT NULL,
	log_date    TEXT,
	log_time    TEXT,
	timezone    TEXT,
	module      TEXT,
	level       TEXT,
	action      TEXT,
	message     TEXT,
	metadata    TEXT,
	error_stack TEXT
);
CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at);
`

// Store wraps the sql.DB holding the log table.
type Store struct {
	db *sql.DB

	// DeleteBatchSize bounds the "delete where id in (...)" predicate size.
	// Tunable, not a protocol requirement.
	DeleteBatchSize int
}

// Open opens (or creates) the sqlite log table under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log store directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "logs.db")

	// pure Go driver, no CGO
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log store: %w", err)
	}

	// sqlite does not support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}

	logger.Info("log_store_opened", "path", dbPath)
	return &Store{db: db, DeleteBatchSize: defaultDeleteBatchSize}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Insert writes one record into the log table. Empty optional fields are
// stored as NULL so the fetch path round-trips them as absent.
func (s *Store) Insert(ctx context.Context, rec models.LogRecord) error {
	var meta interface{}
	if len(rec.Metadata) > 0 {
		b, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		meta = string(b)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO logs (id, user_id, created_at, log_date, log_time, timezone,
			module, level, action, message, metadata, error_stack)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, nullable(rec.UserID), rec.CreatedAt, nullable(rec.LogDate),
		nullable(rec.LogTime), nullable(rec.Timezone), nullable(rec.Module),
		nullable(rec.Level), nullable(rec.Action), nullable(rec.Message),
		meta, nullable(rec.ErrorStack),
	)
	if err != nil {
		return fmt.Errorf("failed to insert log record: %w", err)
	}
	return nil
}

// FetchUnarchivedBatch returns up to limit records ordered by created_at
// ascending, oldest first, so archives fill in chronological order. An
// empty result is a valid "nothing to do" outcome.
func (s *Store) FetchUnarchivedBatch(ctx context.Context, limit int) ([]models.LogRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, log_date, log_time, timezone,
			module, level, action, message, metadata, error_stack
		FROM logs ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unarchived logs: %w", err)
	}
	defer rows.Close()

	var out []models.LogRecord
	for rows.Next() {
		var rec models.LogRecord
		var userID, logDate, logTime, tz, mod, level, action, message, meta, stack sql.NullString
		if err := rows.Scan(&rec.ID, &userID, &rec.CreatedAt, &logDate, &logTime,
			&tz, &mod, &level, &action, &message, &meta, &stack); err != nil {
			return nil, fmt.Errorf("failed to scan log record: %w", err)
		}
		rec.UserID = userID.String
		rec.LogDate = logDate.String
		rec.LogTime = logTime.String
		rec.Timezone = tz.String
		rec.Module = mod.String
		rec.Level = level.String
		rec.Action = action.String
		rec.Message = message.String
		rec.ErrorStack = stack.String
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("invalid metadata JSON for record %s: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate log records: %w", err)
	}
	return out, nil
}

// DeleteByIDs deletes the given record ids in batches of DeleteBatchSize.
// It returns the number of rows confirmed deleted. On a batch failure no
// further batches are issued; rows deleted by earlier batches stay deleted.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	batchSize := s.DeleteBatchSize
	if batchSize <= 0 {
		batchSize = defaultDeleteBatchSize
	}
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		args := make([]interface{}, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		res, err := s.db.ExecContext(ctx,
			"DELETE FROM logs WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			logger.Error("log_delete_batch_failed",
				"batch_start", start, "batch_size", len(batch), "error", err)
			return deleted, fmt.Errorf("failed to delete log batch [%d:%d]: %w", start, end, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += int(n)
		} else {
			deleted += len(batch)
		}
	}
	return deleted, nil
}

// CountUnarchived returns the number of rows currently awaiting archival.
func (s *Store) CountUnarchived(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM logs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unarchived logs: %w", err)
	}
	return n, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
