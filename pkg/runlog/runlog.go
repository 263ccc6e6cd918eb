// Package runlog persists archive run reports in a Pebble database so
// operators can inspect recent runs after the fact.
package runlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	"logvault/pkg/logger"
	"logvault/pkg/models"
)

var db *pebble.DB

// seq reduces key collisions when two runs finish in the same nanosecond.
var seq uint64

// Open opens (or creates) the run history database at path and keeps a
// global handle for simple usage in this package.
func Open(path string) error {
	var err error
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("runlog_open_failed", "path", path, "error", err)
		return err
	}
	logger.Info("runlog_opened", "path", path)
	return nil
}

// Close closes the opened database if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("runlog_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// Save records a finished run report.
// Key format: run:<unix_nano_padded>-<seq>, so keys sort chronologically.
func Save(report models.RunReport) error {
	if db == nil {
		return fmt.Errorf("runlog not opened; call runlog.Open first")
	}
	ts := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&seq, 1)
	key := fmt.Sprintf("run:%020d-%06d", ts, s)

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	if err := db.Set([]byte(key), data, pebble.Sync); err != nil {
		logger.Error("runlog_save_failed", "key", key, "error", err)
		return err
	}
	logger.Debug("runlog_saved", "key", key, "run_id", report.ID)
	return nil
}

// List returns up to limit run reports, newest first. limit <= 0 returns
// all stored reports.
func List(limit int) ([]models.RunReport, error) {
	if db == nil {
		return nil, fmt.Errorf("runlog not opened; call runlog.Open first")
	}
	prefix := []byte("run:")
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []models.RunReport
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		v := append([]byte(nil), iter.Value()...)
		var r models.RunReport
		if err := json.Unmarshal(v, &r); err != nil {
			return nil, fmt.Errorf("invalid run report at %s: %w", iter.Key(), err)
		}
		out = append(out, r)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	// keys sort oldest first; callers want the most recent runs
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
