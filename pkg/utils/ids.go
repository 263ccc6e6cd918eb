package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenID returns a new random record identifier.
func GenID() string {
	return uuid.NewString()
}

// GenRunID returns a sortable identifier for an archival run.
func GenRunID() string {
	return fmt.Sprintf("run-%020d-%s", time.Now().UTC().UnixNano(), uuid.NewString()[:8])
}
