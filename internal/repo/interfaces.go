package repo

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// ExpansionRecord is one persisted expansion: the resolved job matrix for a
// recipe at a point in time. Jobs carries the codec JSON of the job
// sequence; the recipe hash lets CI detect when a matrix changed.
type ExpansionRecord struct {
	ID           string
	RecipePath   string
	RecipeSHA256 string
	JobCount     int
	Jobs         []byte
	CreatedBy    string
	CreatedAt    time.Time
}
