package metrics

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hbenali/pfeplan/core/logger"
	coremetrics "github.com/hbenali/pfeplan/core/metrics"
)

// InfluxSink writes run outcomes and schedule entries to an InfluxDB
// instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config, log logger.Logger) *InfluxSink {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      log,
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing dashboard store never
// blocks a scheduling run.
func NewInfluxSinkWithFallback(cfg coremetrics.Config, log logger.Logger) coremetrics.RunSink {
	sink := NewInfluxSink(cfg, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			log.Errorf("influx health check error: %v", err)
		} else {
			log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one summary point per scheduling run.
func (s *InfluxSink) RecordRun(res coremetrics.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_run").
		AddTag("run_id", res.RunID).
		AddField("total", res.Total).
		AddField("scheduled", res.Scheduled).
		AddField("unscheduled", res.Unscheduled).
		AddField("group_placed", res.GroupPlaced).
		AddField("fallback_placed", res.FallbackPlaced).
		AddField("room_fallbacks", res.RoomFallbacks).
		AddField("fairness_stddev", res.FairnessStdDev).
		AddField("duration_ms", res.Duration.Milliseconds()).
		SetTime(res.Start)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEntries writes one point per scheduled defense.
func (s *InfluxSink) RecordEntries(entries []coremetrics.EntryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, e := range entries {
		p := EntryPoint(e)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// EntryPoint converts a schedule entry into an InfluxDB point.
func EntryPoint(e coremetrics.EntryEvent) *write.Point {
	return write.NewPointWithMeasurement("schedule_entry").
		AddTag("run_id", e.RunID).
		AddTag("room", e.Room).
		AddTag("department", e.Department).
		AddField("student", e.Student).
		AddField("supervisor", e.Supervisor).
		SetTime(e.Slot)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
