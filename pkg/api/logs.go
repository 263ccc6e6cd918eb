package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"logvault/pkg/logger"
	"logvault/pkg/models"
	"logvault/pkg/utils"
	"logvault/pkg/validation"
)

const maxLogsListLimit = 500

// handleIngestLog accepts one log record from an application-side
// logger. Missing id/createdAt are filled in server-side so thin clients
// can post bare events.
func (s *Server) handleIngestLog(w http.ResponseWriter, r *http.Request) {
	var rec models.LogRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if rec.ID == "" {
		rec.ID = utils.GenID()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := validation.ValidateRecord(rec); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Logs.Insert(r.Context(), rec); err != nil {
		logger.Error("log_insert_failed", "id", rec.ID, "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "failed to store log")
		return
	}
	logger.Debug("log_ingested", "id", rec.ID, "user", rec.UserID)
	utils.JSONWrite(w, http.StatusCreated, rec)
}

// handleListLogs returns logs still awaiting archival, oldest first.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	limit := maxLogsListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxLogsListLimit {
			utils.JSONError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	recs, err := s.Logs.FetchUnarchivedBatch(r.Context(), limit)
	if err != nil {
		logger.Error("logs_list_failed", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	if recs == nil {
		recs = []models.LogRecord{}
	}
	utils.JSONWrite(w, http.StatusOK, struct {
		Logs []models.LogRecord `json:"logs"`
	}{Logs: recs})
}
