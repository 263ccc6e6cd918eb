package api

import (
	"errors"
	"net/http"
	"strconv"

	"logvault/internal/archiver"
	"logvault/pkg/logger"
	"logvault/pkg/models"
	"logvault/pkg/runlog"
	"logvault/pkg/utils"
)

const defaultRunsListLimit = 50

// handleArchiveRun triggers one archival pass. The body is ignored; the
// caller gets the structured run report. A fetch failure is the only
// fatal outcome (500); per-group failures come back inside the report
// with a 200 so monitors can alert on status != archived.
func (s *Server) handleArchiveRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.Archiver.Run(r.Context())
	if errors.Is(err, archiver.ErrRunInFlight) {
		utils.JSONError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, report.Error)
		return
	}
	if report.Fetched == 0 {
		utils.JSONWrite(w, http.StatusOK, map[string]string{"message": "No logs to archive"})
		return
	}
	utils.JSONWrite(w, http.StatusOK, struct {
		Success bool                 `json:"success"`
		RunID   string               `json:"runId"`
		Results []models.GroupResult `json:"results"`
	}{Success: report.Success, RunID: report.ID, Results: report.Results})
}

// handleListRuns returns recent run reports, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.JSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := runlog.List(limit)
	if err != nil {
		logger.Error("runs_list_failed", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []models.RunReport{}
	}
	utils.JSONWrite(w, http.StatusOK, struct {
		Runs []models.RunReport `json:"runs"`
	}{Runs: runs})
}
