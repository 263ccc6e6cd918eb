package archiver

import (
	"strings"
	"testing"

	"logvault/pkg/models"
)

func TestFormatLineFull(t *testing.T) {
	rec := models.LogRecord{
		ID:       "r1",
		UserID:   "alice",
		LogDate:  "2024-01-01",
		LogTime:  "10:30:00",
		Timezone: "UTC",
		Module:   "billing",
		Level:    "ERROR",
		Action:   "charge",
		Message:  "card declined",
		Metadata: map[string]interface{}{"code": float64(402)},
	}
	got := FormatLine(rec)
	want := `[2024-01-01 10:30:00 UTC] [User: alice] [billing] [ERROR] charge: card declined | Data: {"code":402}`
	if got != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", got, want)
	}
}

func TestFormatLineDefaultsAndCreatedAtFallback(t *testing.T) {
	// null user, null log_date: date and time come from created_at,
	// trailing Z stripped, timezone defaults to UTC
	rec := models.LogRecord{
		ID:        "r1",
		CreatedAt: "2024-03-05T10:00:00Z",
		Action:    "boot",
		Message:   "started",
	}
	got := FormatLine(rec)
	want := "[2024-03-05 10:00:00 UTC] [User: anonymous] [System] [INFO] boot: started"
	if got != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", got, want)
	}
}

func TestFormatLineOmitsEmptySegments(t *testing.T) {
	rec := models.LogRecord{ID: "r1", CreatedAt: "2024-03-05T10:00:00Z"}
	got := FormatLine(rec)
	if strings.Contains(got, "| Data:") {
		t.Fatalf("empty metadata must omit Data segment: %q", got)
	}
	if strings.Contains(got, "| Stack:") {
		t.Fatalf("empty stack must omit Stack segment: %q", got)
	}

	rec.Metadata = map[string]interface{}{"k": "v"}
	rec.ErrorStack = "Error: boom\n  at main"
	got = FormatLine(rec)
	if !strings.Contains(got, `| Data: {"k":"v"}`) {
		t.Fatalf("expected Data segment: %q", got)
	}
	if !strings.Contains(got, "| Stack: Error: boom") {
		t.Fatalf("expected Stack segment: %q", got)
	}
}

func TestFormatLineNeverContainsRawNewline(t *testing.T) {
	rec := models.LogRecord{
		ID:         "r1",
		CreatedAt:  "2024-03-05T10:00:00Z",
		Message:    "line one\nline two",
		ErrorStack: "Error: boom\n  at handler\n  at main",
	}
	got := FormatLine(rec)
	if strings.Contains(got, "\n") {
		t.Fatalf("formatted line contains raw newline: %q", got)
	}
}

func TestGroupingIsAPartition(t *testing.T) {
	records := []models.LogRecord{
		{ID: "a", UserID: "u1", LogDate: "2024-01-01"},
		{ID: "b", UserID: "u1", LogDate: "2024-01-01"},
		{ID: "c", UserID: "u2", LogDate: "2024-01-01"},
		{ID: "d", UserID: "u1", LogDate: "2024-01-02"},
		{ID: "e", CreatedAt: "2024-01-02T08:00:00Z"},
	}
	groups := GroupByUserAndDate(records)

	seen := map[string]int{}
	for _, recs := range groups {
		for _, r := range recs {
			seen[r.ID]++
		}
	}
	if len(seen) != len(records) {
		t.Fatalf("expected %d ids across groups, got %d", len(records), len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("id %s appears in %d groups", id, n)
		}
	}

	if got := len(groups[GroupKey{UserID: "u1", Date: "2024-01-01"}]); got != 2 {
		t.Fatalf("expected 2 records for u1|2024-01-01, got %d", got)
	}
	if got := len(groups[GroupKey{UserID: "anonymous", Date: "2024-01-02"}]); got != 1 {
		t.Fatalf("expected created_at date fallback into anonymous group, got %d", got)
	}
}

func TestGroupingEmptyInput(t *testing.T) {
	if got := GroupByUserAndDate(nil); len(got) != 0 {
		t.Fatalf("expected no groups, got %d", len(got))
	}
}

func TestGroupPreservesOrder(t *testing.T) {
	records := []models.LogRecord{
		{ID: "first", UserID: "u1", LogDate: "2024-01-01"},
		{ID: "second", UserID: "u1", LogDate: "2024-01-01"},
		{ID: "third", UserID: "u1", LogDate: "2024-01-01"},
	}
	groups := GroupByUserAndDate(records)
	recs := groups[GroupKey{UserID: "u1", Date: "2024-01-01"}]
	for i, want := range []string{"first", "second", "third"} {
		if recs[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, recs[i].ID)
		}
	}
}

func TestArchiveKey(t *testing.T) {
	key := GroupKey{UserID: "alice", Date: "2024-01-01"}
	if got := key.ArchiveKey(); got != "alice/logs_2024-01-01.txt" {
		t.Fatalf("unexpected archive key: %q", got)
	}
}

func TestMergeArchive(t *testing.T) {
	// existing content with trailing newline: appended directly
	if got := mergeArchive("line1\n", []string{"line2"}); got != "line1\nline2" {
		t.Fatalf("unexpected merge: %q", got)
	}
	// existing content without trailing newline: separator is added
	if got := mergeArchive("line1", []string{"line2"}); got != "line1\nline2" {
		t.Fatalf("unexpected merge: %q", got)
	}
	// first write: no leading newline
	if got := mergeArchive("", []string{"line1", "line2"}); got != "line1\nline2" {
		t.Fatalf("unexpected merge: %q", got)
	}
	// the merged tail never carries a trailing newline
	if got := mergeArchive("line1\n", []string{"line2", "line3"}); strings.HasSuffix(got, "\n") {
		t.Fatalf("merge must not add trailing newline: %q", got)
	}
}
