package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"logvault/internal/archiver"
	"logvault/pkg/blob"
	"logvault/pkg/config"
	"logvault/pkg/logstore"
	"logvault/pkg/runlog"
	"logvault/pkg/security"
)

func newTestHandler(t *testing.T) (http.Handler, blob.Store) {
	t.Helper()

	logs, err := logstore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { logs.Close() })

	require.NoError(t, runlog.Open(t.TempDir()))
	t.Cleanup(func() { runlog.Close() })

	blobs, err := blob.New(config.BlobConfig{Backend: "fs", FSRoot: t.TempDir()})
	require.NoError(t, err)

	arch := archiver.New(logs, blobs, config.ArchiveConfig{})
	srv := &Server{Archiver: arch, Logs: logs}

	sec := security.SecConfig{}
	cors := security.CORSMiddleware(sec)
	return cors(srv.Router(sec)), blobs
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIngestThenList(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h, "/v1/logs",
		`{"userId":"alice","logDate":"2024-01-01","level":"info","action":"login","message":"ok"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID        string `json:"id"`
		CreatedAt string `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID, "server must assign an id")
	require.NotEmpty(t, created.CreatedAt)

	req := httptest.NewRequest(http.MethodGet, "/v1/logs", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var listed struct {
		Logs []struct {
			UserID string `json:"userId"`
		} `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &listed))
	require.Len(t, listed.Logs, 1)
	require.Equal(t, "alice", listed.Logs[0].UserID)
}

func TestIngestRejectsInvalidRecord(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h, "/v1/logs", `{"userId":"../etc","message":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h, "/v1/logs", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveRunEndToEnd(t *testing.T) {
	h, blobs := newTestHandler(t)

	for _, body := range []string{
		`{"userId":"u1","logDate":"2024-01-01","message":"first"}`,
		`{"userId":"u1","logDate":"2024-01-01","message":"second"}`,
	} {
		require.Equal(t, http.StatusCreated, postJSON(t, h, "/v1/logs", body).Code)
	}

	rec := postJSON(t, h, "/v1/archive/run", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Success bool `json:"success"`
		Results []struct {
			Status       string `json:"status"`
			File         string `json:"file"`
			DeletedCount int    `json:"deletedCount"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.True(t, report.Success)
	require.Len(t, report.Results, 1)
	require.Equal(t, "archived", report.Results[0].Status)
	require.Equal(t, 2, report.Results[0].DeletedCount)

	text, found, err := blobs.ReadIfExists(context.Background(), report.Results[0].File)
	require.NoError(t, err)
	require.True(t, found)
	require.Contains(t, text, "first")
	require.Contains(t, text, "second")

	// the archived rows are gone, so the next run is a no-op
	rec = postJSON(t, h, "/v1/archive/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No logs to archive")

	// both runs are in the history, newest first
	req := httptest.NewRequest(http.MethodGet, "/v1/archive/runs", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var history struct {
		Runs []struct {
			Fetched int `json:"fetched"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &history))
	require.Len(t, history.Runs, 2)
	require.Zero(t, history.Runs[0].Fetched)
	require.Equal(t, 2, history.Runs[1].Fetched)
}

func TestArchivePreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/archive/run", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}
