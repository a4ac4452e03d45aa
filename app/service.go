package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"

	"github.com/hbenali/pfeplan/config"
	coremetrics "github.com/hbenali/pfeplan/core/metrics"
	"github.com/hbenali/pfeplan/core/model"
	"github.com/hbenali/pfeplan/core/schedule"
	"github.com/hbenali/pfeplan/infra/logger"
	"github.com/hbenali/pfeplan/infra/metrics"
)

// Service runs one scheduling job from configuration: input document in,
// schedule document out, run metrics to the configured sinks.
type Service struct {
	cfg         *config.Config
	log         logger.Logger
	sink        coremetrics.RunSink
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetGlobalLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	logg := logger.New("service")

	var sinks []coremetrics.RunSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics, logger.New("influx-sink")))
	}
	var sink coremetrics.RunSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{
		cfg:         cfg,
		log:         logg,
		sink:        sink,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// OutputDocument is the schedule written to the output path.
type OutputDocument struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     schedule.Summary  `json:"summary"`
	Schedule    schedule.Schedule `json:"schedule"`
}

// Run executes one scheduling job. When the Prometheus server is enabled it
// keeps serving /metrics until the context is cancelled; otherwise it
// returns as soon as the schedule is written.
func (s *Service) Run(ctx context.Context) error {
	doc, err := LoadInput(s.cfg.IO.Input)
	if err != nil {
		return err
	}
	catalog, err := s.cfg.Rooms.Catalog()
	if err != nil {
		return err
	}

	eng := schedule.New(doc.Classifier(), catalog, logger.New("engine"))
	for _, name := range doc.Professors {
		eng.AddProfessor(name)
	}
	for _, p := range doc.Presentations {
		if err := eng.AddPresentation(p.Topic, p.Student, p.Supervisor); err != nil {
			return fmt.Errorf("add presentation: %w", err)
		}
	}
	for _, c := range doc.Unavailability {
		eng.SetUnavailability(c.Professor, c.Slots...)
	}

	startedAt := time.Now()
	sum, err := eng.Schedule(schedule.Params{
		Start:       s.cfg.Window.Start(),
		NumDays:     s.cfg.Window.NumDays,
		SlotsPerDay: s.cfg.Window.SlotsPerDay,
	})
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	snap := eng.Export()

	out := OutputDocument{
		RunID:       sum.RunID,
		GeneratedAt: startedAt,
		Summary:     sum,
		Schedule:    *snap,
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.IO.Output, b, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	s.record(startedAt, sum, snap)
	s.log.Infof("run %s: %d/%d scheduled (%d grouped, %d fallback), %d unscheduled",
		sum.RunID, sum.Scheduled, sum.Total, sum.GroupPlaced, sum.FallbackPlaced, sum.Unscheduled)

	if s.promEnabled {
		return metrics.StartPromServer(ctx, s.promPort)
	}
	return nil
}

func (s *Service) record(startedAt time.Time, sum schedule.Summary, snap *schedule.Schedule) {
	res := coremetrics.RunResult{
		RunID:          sum.RunID,
		Start:          startedAt,
		Duration:       sum.Duration,
		Total:          sum.Total,
		Scheduled:      sum.Scheduled,
		Unscheduled:    sum.Unscheduled,
		GroupPlaced:    sum.GroupPlaced,
		FallbackPlaced: sum.FallbackPlaced,
		RoomFallbacks:  sum.RoomFallbacks,
		FairnessStdDev: snap.Fairness.StdDev,
	}
	if err := s.sink.RecordRun(res); err != nil {
		s.log.Errorf("record run: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.EntryRecorder); ok {
		events := lo.Map(snap.Entries, func(e schedule.ScheduleEntry, _ int) coremetrics.EntryEvent {
			return coremetrics.EntryEvent{
				RunID:      sum.RunID,
				Slot:       e.DateTime,
				Room:       e.Room,
				Department: e.Department,
				Student:    e.Student,
				Supervisor: supervisorOf(e),
			}
		})
		if err := rec.RecordEntries(events); err != nil {
			s.log.Errorf("record entries: %v", err)
		}
	}
}

func supervisorOf(e schedule.ScheduleEntry) string {
	for _, j := range e.Jury {
		if j.Role == model.RoleSupervisor {
			return j.Name
		}
	}
	return ""
}
