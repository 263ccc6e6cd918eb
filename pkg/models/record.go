package models

// LogRecord is one row of the unarchived log table. Optional columns are
// empty strings (or a nil map) when absent; derivation fallbacks live in
// the archiver, not here.
type LogRecord struct {
	ID     string `json:"id"`
	UserID string `json:"userId,omitempty"`
	// CreatedAt is the ISO-8601 ingestion timestamp, e.g. "2024-03-05T10:00:00Z".
	CreatedAt string `json:"createdAt"`
	// Pre-split date/time/timezone; when present they win over CreatedAt.
	LogDate  string `json:"logDate,omitempty"`
	LogTime  string `json:"logTime,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Module   string `json:"module,omitempty"`
	Level    string `json:"level,omitempty"`
	Action   string `json:"action,omitempty"`
	Message  string `json:"message,omitempty"`
	// Metadata is an arbitrary key/value payload attached to the event.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	// ErrorStack is an optional multi-line stack trace.
	ErrorStack string `json:"errorStack,omitempty"`
}
