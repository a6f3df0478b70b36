package domain

import (
	"time"

	"github.com/google/uuid"
)

// A run is one full pass over the configured cinema adapters. It always
// finishes: adapter failures are recorded in the summary instead of aborting
// the other adapters.
type RunSummary struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Adapters   []AdapterReport
	Submitted  int
	Dropped    int
	Errors     []string
}

// AdapterReport is the per-cinema tally of one run.
type AdapterReport struct {
	CinemaName string
	Movies     int
	Showtimes  int
	Error      string
}
