package metrics

import "time"

// RunResult is the per-run outcome recorded for observability.
type RunResult struct {
	RunID          string
	Start          time.Time
	Duration       time.Duration
	Total          int
	Scheduled      int
	Unscheduled    int
	GroupPlaced    int
	FallbackPlaced int
	RoomFallbacks  int
	FairnessStdDev float64
}

// EntryEvent is one scheduled defense, recorded per run for dashboards.
type EntryEvent struct {
	RunID      string
	Slot       time.Time
	Room       string
	Department string
	Student    string
	Supervisor string
}

// RunSink records run outcomes.
type RunSink interface {
	RecordRun(res RunResult) error
}

// EntryRecorder records individual schedule entries. Sinks implement it
// optionally; fan-out skips sinks that do not.
type EntryRecorder interface {
	RecordEntries(entries []EntryEvent) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error        { return nil }
func (NopSink) RecordEntries([]EntryEvent) error { return nil }
