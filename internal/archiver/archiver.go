// Package archiver drains the unarchived-log table into per-user-per-day
// text archives in blob storage, deleting only rows whose lines are
// durably uploaded. Partial failure leaves rows in the table so a later
// run can retry; the degraded upload-then-failed-delete case is surfaced
// in the run report, never hidden.
package archiver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"logvault/pkg/blob"
	"logvault/pkg/config"
	"logvault/pkg/logger"
	"logvault/pkg/models"
	"logvault/pkg/runlog"
	"logvault/pkg/telemetry"
	"logvault/pkg/utils"
)

// ErrRunInFlight is returned when a run is requested while another run
// is still active. Runs must not overlap: archive writes are
// last-writer-wins, so overlap could lose lines.
var ErrRunInFlight = errors.New("archive run already in progress")

// LogSource is the slice of the log store the archiver needs.
type LogSource interface {
	FetchUnarchivedBatch(ctx context.Context, limit int) ([]models.LogRecord, error)
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
}

// Archiver runs the fetch → group → merge → upload → delete pipeline.
type Archiver struct {
	store LogSource
	blobs blob.Store
	cfg   config.ArchiveConfig

	mu sync.Mutex // serializes runs
}

// New builds an Archiver over the given stores.
func New(store LogSource, blobs blob.Store, cfg config.ArchiveConfig) *Archiver {
	return &Archiver{store: store, blobs: blobs, cfg: cfg}
}

// Run executes one archival pass and returns its report. It refuses to
// overlap with an already-active run. The report is persisted to the run
// history when the runlog is open.
func (a *Archiver) Run(ctx context.Context) (*models.RunReport, error) {
	if !a.mu.TryLock() {
		return nil, ErrRunInFlight
	}
	defer a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.RunTimeoutOrDefault())
	defer cancel()

	started := time.Now().UTC()
	report := &models.RunReport{
		ID:        utils.GenRunID(),
		StartedAt: started.Format(time.RFC3339),
	}
	telemetry.RunsStarted.Inc()
	logger.Info("archive_run_started", "run_id", report.ID)

	records, err := a.store.FetchUnarchivedBatch(ctx, a.cfg.FetchLimitOrDefault())
	if err != nil {
		// fetch failure is fatal: no group work has started
		telemetry.RunsFailed.Inc()
		report.Success = false
		report.Error = err.Error()
		a.finish(report, started)
		logger.Error("archive_fetch_failed", "run_id", report.ID, "error", err)
		return report, err
	}
	report.Success = true
	report.Fetched = len(records)
	telemetry.RecordsFetched.Add(float64(len(records)))

	if len(records) == 0 {
		a.finish(report, started)
		logger.Info("archive_run_empty", "run_id", report.ID)
		return report, nil
	}

	groups := GroupByUserAndDate(records)
	logger.Info("archive_run_grouped",
		"run_id", report.ID, "records", len(records), "groups", len(groups))

	report.Results = a.processGroups(ctx, groups)
	a.finish(report, started)

	logger.Info("archive_run_finished",
		"run_id", report.ID, "fetched", report.Fetched, "groups", len(report.Results),
		"duration", time.Since(started).Round(time.Millisecond).String())
	return report, nil
}

// processGroups runs each group through merge → upload → delete using a
// bounded worker pool. Groups touch disjoint archive keys and disjoint id
// sets, so they are safe to run concurrently.
func (a *Archiver) processGroups(ctx context.Context, groups map[GroupKey][]models.LogRecord) []models.GroupResult {
	workers := a.cfg.WorkersOrDefault()
	if workers > len(groups) {
		workers = len(groups)
	}

	type job struct {
		key  GroupKey
		recs []models.LogRecord
	}
	jobs := make(chan job)
	results := make([]models.GroupResult, 0, len(groups))

	var wg sync.WaitGroup
	var resMu sync.Mutex
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := a.processGroup(ctx, j.key, j.recs)
				resMu.Lock()
				results = append(results, res)
				resMu.Unlock()
			}
		}()
	}
	for key, recs := range groups {
		jobs <- job{key: key, recs: recs}
	}
	close(jobs)
	wg.Wait()
	return results
}

// processGroup archives one (user, date) group. Steps are strictly
// sequential: delete is never attempted before the upload succeeds.
func (a *Archiver) processGroup(ctx context.Context, key GroupKey, recs []models.LogRecord) models.GroupResult {
	res := models.GroupResult{
		UserID: key.UserID,
		Date:   key.Date,
		Count:  len(recs),
		File:   key.ArchiveKey(),
	}

	lines := make([]string, len(recs))
	ids := make([]string, len(recs))
	for i, rec := range recs {
		lines[i] = FormatLine(rec)
		ids[i] = rec.ID
	}

	existing, found, err := a.blobs.ReadIfExists(ctx, res.File)
	if err != nil {
		// availability over perfect consistency: an unreadable archive is
		// treated as absent so the run still makes progress
		logger.Warn("archive_read_failed_assuming_absent",
			"file", res.File, "error", err)
		existing, found = "", false
	}
	merged := mergeArchive(existing, lines)

	if err := a.blobs.WriteFull(ctx, res.File, merged, "text/plain"); err != nil {
		res.Status = models.StatusError
		res.Error = err.Error()
		telemetry.GroupsProcessed.WithLabelValues(res.Status).Inc()
		logger.Error("archive_upload_failed", "file", res.File, "error", err)
		return res
	}

	deleted, err := a.store.DeleteByIDs(ctx, ids)
	res.DeletedCount = deleted
	telemetry.RecordsDeleted.Add(float64(deleted))
	if err != nil {
		// lines are archived but rows remain: the next run re-appends them.
		// Surfaced so operators can alert on duplicate lines.
		res.Status = models.StatusDeleteFailed
		res.Error = err.Error()
		telemetry.GroupsProcessed.WithLabelValues(res.Status).Inc()
		logger.Error("archive_delete_failed",
			"file", res.File, "deleted", deleted, "of", len(ids), "error", err)
		return res
	}

	res.Status = models.StatusArchived
	telemetry.GroupsProcessed.WithLabelValues(res.Status).Inc()
	logger.Info("group_archived",
		"file", res.File, "records", len(recs), "appended_existing", found,
		"size", humanize.Bytes(uint64(len(merged))))
	return res
}

func (a *Archiver) finish(report *models.RunReport, started time.Time) {
	report.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	telemetry.RunDuration.Observe(time.Since(started).Seconds())
	if runlog.Ready() {
		if err := runlog.Save(*report); err != nil {
			logger.Error("runlog_save_failed", "run_id", report.ID, "error", err)
		}
	}
}
