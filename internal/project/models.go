package project

import (
	"time"

	"github.com/google/uuid"
)

// Project is the persistent container for a timeline. The editable state
// itself lives in versioned snapshots; the project row only carries identity
// and bookkeeping timestamps.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is one saved version of a project's timeline state. State holds
// the JSON document produced by the timeline package.
type Snapshot struct {
	ProjectID string    `json:"project_id"`
	Version   int       `json:"version"`
	State     []byte    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

func NewID() string {
	return uuid.New().String()
}
