// Package validation checks incoming log records before they reach the
// store. Fields are deliberately permissive: records come from many
// client SDK versions, so only structural problems are rejected.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logvault/pkg/models"
)

const (
	maxMessageLen = 64 * 1024
	maxFieldLen   = 256
)

var levels = []string{"debug", "info", "warn", "warning", "error", "fatal"}

// ValidateRecord returns an error describing every problem found in the
// record, joined with "; ". A nil return means the record is storable.
func ValidateRecord(rec models.LogRecord) error {
	var errs []string

	if rec.ID == "" {
		errs = append(errs, "id is required")
	}
	if rec.CreatedAt == "" {
		errs = append(errs, "createdAt is required")
	} else if _, err := time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
		errs = append(errs, fmt.Sprintf("createdAt is not a valid timestamp: %v", err))
	}
	if rec.LogDate != "" {
		if _, err := time.Parse("2006-01-02", rec.LogDate); err != nil {
			errs = append(errs, fmt.Sprintf("logDate must be YYYY-MM-DD: %v", err))
		}
	}
	if rec.Level != "" && !contains(levels, strings.ToLower(rec.Level)) {
		errs = append(errs, fmt.Sprintf("invalid level %q", rec.Level))
	}
	if len(rec.Message) > maxMessageLen {
		errs = append(errs, fmt.Sprintf("message exceeds %d bytes", maxMessageLen))
	}
	for name, v := range map[string]string{
		"userId": rec.UserID, "module": rec.Module, "action": rec.Action,
	} {
		if len(v) > maxFieldLen {
			errs = append(errs, fmt.Sprintf("%s exceeds %d bytes", name, maxFieldLen))
		}
	}
	if strings.ContainsAny(rec.UserID, "/\\") {
		// user id becomes a path segment in the archive key
		errs = append(errs, "userId must not contain path separators")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
