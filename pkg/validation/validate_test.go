package validation

import (
	"strings"
	"testing"

	"logvault/pkg/models"
)

func validRecord() models.LogRecord {
	return models.LogRecord{
		ID:        "r1",
		UserID:    "alice",
		CreatedAt: "2025-03-01T10:00:00Z",
		LogDate:   "2025-03-01",
		Level:     "info",
		Message:   "hello",
	}
}

func TestValidRecord(t *testing.T) {
	if err := ValidateRecord(validRecord()); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestMissingRequiredFields(t *testing.T) {
	err := ValidateRecord(models.LogRecord{})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "id is required") || !strings.Contains(msg, "createdAt is required") {
		t.Fatalf("expected both required-field errors, got %q", msg)
	}
}

func TestBadTimestampAndLevel(t *testing.T) {
	rec := validRecord()
	rec.CreatedAt = "yesterday"
	rec.Level = "shout"
	err := ValidateRecord(rec)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "createdAt") || !strings.Contains(err.Error(), "invalid level") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserIDPathSeparator(t *testing.T) {
	rec := validRecord()
	rec.UserID = "../alice"
	if err := ValidateRecord(rec); err == nil {
		t.Fatal("expected error for path separator in userId")
	}
}

func TestAnonymousUserAllowed(t *testing.T) {
	rec := validRecord()
	rec.UserID = ""
	if err := ValidateRecord(rec); err != nil {
		t.Fatalf("empty userId must be allowed: %v", err)
	}
}
