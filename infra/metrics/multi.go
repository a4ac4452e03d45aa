package metrics

import coremetrics "github.com/hbenali/pfeplan/core/metrics"

// MultiSink fans run records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.RunSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.RunSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(res coremetrics.RunResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordEntries forwards entries to sinks that record them.
func (m *MultiSink) RecordEntries(entries []coremetrics.EntryEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.EntryRecorder); ok {
			if err := rec.RecordEntries(entries); err != nil {
				return err
			}
		}
	}
	return nil
}
