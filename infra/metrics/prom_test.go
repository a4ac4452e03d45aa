package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/hbenali/pfeplan/core/metrics"
)

func TestPromSinkRecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	err = sink.RecordRun(coremetrics.RunResult{
		RunID:          "run-1",
		Duration:       1200 * time.Millisecond,
		Total:          10,
		Scheduled:      9,
		Unscheduled:    1,
		GroupPlaced:    7,
		FallbackPlaced: 2,
		RoomFallbacks:  3,
		FairnessStdDev: 0.5,
	})
	require.NoError(t, err)

	expected := `
# HELP pfe_presentations_scheduled_total Presentations placed, by placement phase
# TYPE pfe_presentations_scheduled_total counter
pfe_presentations_scheduled_total{phase="fallback"} 2
pfe_presentations_scheduled_total{phase="grouped"} 7
# HELP pfe_presentations_unscheduled_total Presentations neither phase could place
# TYPE pfe_presentations_unscheduled_total counter
pfe_presentations_unscheduled_total 1
# HELP pfe_room_fallbacks_total Room allocations outside the department's preferred block
# TYPE pfe_room_fallbacks_total counter
pfe_room_fallbacks_total 3
# HELP pfe_fairness_stddev Standard deviation of total jury participations after the last run
# TYPE pfe_fairness_stddev gauge
pfe_fairness_stddev 0.5
`
	err = testutil.CollectAndCompare(sink.scheduled, strings.NewReader(`
# HELP pfe_presentations_scheduled_total Presentations placed, by placement phase
# TYPE pfe_presentations_scheduled_total counter
pfe_presentations_scheduled_total{phase="fallback"} 2
pfe_presentations_scheduled_total{phase="grouped"} 7
`))
	require.NoError(t, err)
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"pfe_presentations_scheduled_total",
		"pfe_presentations_unscheduled_total",
		"pfe_room_fallbacks_total",
		"pfe_fairness_stddev")
	require.NoError(t, err)
}

func TestPromSinkAccumulates(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, sink.RecordRun(coremetrics.RunResult{Unscheduled: 2}))
	}
	assert.Equal(t, float64(6), testutil.ToFloat64(sink.unscheduled))
}

func TestPromSinkReregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, a.RecordRun(coremetrics.RunResult{RoomFallbacks: 1}))
	require.NoError(t, b.RecordRun(coremetrics.RunResult{RoomFallbacks: 1}))
	assert.Equal(t, float64(2), testutil.ToFloat64(a.roomFallbacks))
}

func TestPromSinkNilRegistry(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(nil)
	require.NoError(t, err)
	require.NotNil(t, sink)
}
