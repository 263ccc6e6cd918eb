package models

// Group statuses reported per archive group. "uploaded_but_failed_delete"
// is a degraded-but-durable state: the lines are in the archive, the rows
// are still in the table, and the next run will append them again.
const (
	StatusArchived     = "archived"
	StatusDeleteFailed = "uploaded_but_failed_delete"
	StatusError        = "error"
)

// GroupResult is the outcome for one (user, date) archive group.
type GroupResult struct {
	UserID string `json:"userId"`
	Date   string `json:"date"`
	// Count is how many records were fetched into this group.
	Count int `json:"count"`
	// DeletedCount is how many rows were confirmed deleted from the table.
	DeletedCount int    `json:"deletedCount"`
	File         string `json:"file"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// RunReport is the aggregate outcome of one archival run.
type RunReport struct {
	ID string `json:"id"`
	// StartedAt / FinishedAt are RFC3339 UTC timestamps.
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
	// Success is false only when the run failed before any group work
	// (the initial fetch). Per-group failures do not clear it.
	Success bool          `json:"success"`
	Fetched int           `json:"fetched"`
	Results []GroupResult `json:"results"`
	Error   string        `json:"error,omitempty"`
}
