package model

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

type SourceStatus struct {
	OK        bool   `json:"ok"`
	Quotes    int    `json:"quotes"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RefreshResult describes a single refresh cycle. It is returned to the
// caller and published as an event, never persisted.
type RefreshResult struct {
	CycleID      uuid.UUID               `json:"cycle_id"`
	StartedAt    time.Time               `json:"started_at"`
	Duration     time.Duration           `json:"duration"`
	PerSource    map[string]SourceStatus `json:"per_source"`
	QuotesMerged int                     `json:"quotes_merged"`
	Overall      Outcome                 `json:"overall"`
}

type ServiceStatus struct {
	LastRefresh    time.Time `json:"last_refresh"`
	Age            string    `json:"age"`
	Pairs          int       `json:"pairs"`
	SchedulerState string    `json:"scheduler_state"`
	Sources        []string  `json:"sources"`
}
