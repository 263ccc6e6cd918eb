package archiver

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"logvault/pkg/models"
)

// GroupKey addresses one archive file: all records from one user on one
// calendar day.
type GroupKey struct {
	UserID string
	Date   string
}

// ArchiveKey returns the blob key for this group.
func (k GroupKey) ArchiveKey() string {
	return fmt.Sprintf("%s/logs_%s.txt", k.UserID, k.Date)
}

func (k GroupKey) String() string {
	return k.UserID + "|" + k.Date
}

// recordDate derives the group date: log_date when set, else the date
// portion of created_at, else the current process date.
func recordDate(rec models.LogRecord, now time.Time) string {
	if rec.LogDate != "" {
		return rec.LogDate
	}
	if rec.CreatedAt != "" {
		if i := strings.Index(rec.CreatedAt, "T"); i > 0 {
			return rec.CreatedAt[:i]
		}
		return rec.CreatedAt
	}
	return now.UTC().Format("2006-01-02")
}

func recordUser(rec models.LogRecord) string {
	if rec.UserID == "" {
		return "anonymous"
	}
	return rec.UserID
}

// GroupByUserAndDate partitions records into per-(user, day) groups,
// preserving input order within each group. The input arrives ordered by
// created_at so each group stays chronological.
func GroupByUserAndDate(records []models.LogRecord) map[GroupKey][]models.LogRecord {
	now := time.Now()
	groups := make(map[GroupKey][]models.LogRecord)
	for _, rec := range records {
		key := GroupKey{UserID: recordUser(rec), Date: recordDate(rec, now)}
		groups[key] = append(groups[key], rec)
	}
	return groups
}

// FormatLine renders one record as one archive line:
//
//	[{date} {time} {tz}] [User: {uid}] [{module}] [{level}] {action}: {message} | Data: {json} | Stack: {stack}
//
// The Data segment appears only when metadata is non-empty, the Stack
// segment only when error_stack is non-empty. The output never contains a
// raw newline; embedded newlines are escaped.
func FormatLine(rec models.LogRecord) string {
	date := recordDate(rec, time.Now())

	logTime := rec.LogTime
	if logTime == "" && rec.CreatedAt != "" {
		if i := strings.Index(rec.CreatedAt, "T"); i >= 0 {
			logTime = strings.TrimSuffix(rec.CreatedAt[i+1:], "Z")
		}
	}

	tz := rec.Timezone
	if tz == "" {
		tz = "UTC"
	}
	module := rec.Module
	if module == "" {
		module = "System"
	}
	level := rec.Level
	if level == "" {
		level = "INFO"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s %s %s] [User: %s] [%s] [%s] %s: %s",
		date, logTime, tz, recordUser(rec), module, level, rec.Action, rec.Message)

	if len(rec.Metadata) > 0 {
		if data, err := json.Marshal(rec.Metadata); err == nil {
			b.WriteString(" | Data: ")
			b.Write(data)
		}
	}
	if rec.ErrorStack != "" {
		b.WriteString(" | Stack: ")
		b.WriteString(rec.ErrorStack)
	}
	return strings.ReplaceAll(b.String(), "\n", "\\n")
}

// mergeArchive appends the new lines to the existing archive text. A
// non-empty existing archive gets a trailing newline before the append so
// repeated runs never glue lines together; the new tail carries no
// trailing newline, the next run's merge re-adds the separator.
func mergeArchive(existing string, lines []string) string {
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		existing += "\n"
	}
	return existing + strings.Join(lines, "\n")
}
