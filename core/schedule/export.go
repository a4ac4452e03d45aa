package schedule

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/hbenali/pfeplan/core/model"
)

// ScheduleEntry is one scheduled defense, flattened for export.
type ScheduleEntry struct {
	DateTime   time.Time          `json:"date_time"`
	Department string             `json:"department"`
	Topic      string             `json:"topic"`
	Student    string             `json:"student"`
	Room       string             `json:"room"`
	Jury       []model.JuryMember `json:"jury"`
}

// UnscheduledPresentation identifies a presentation both phases failed to
// place.
type UnscheduledPresentation struct {
	Topic      string `json:"topic"`
	Student    string `json:"student"`
	Supervisor string `json:"supervisor"`
}

// RoomBooking is one occupancy of a room.
type RoomBooking struct {
	Time    time.Time `json:"time"`
	Student string    `json:"student"`
}

// ProfessorAssignment is one jury appearance of a professor.
type ProfessorAssignment struct {
	Time    time.Time  `json:"time"`
	Room    string     `json:"room"`
	Role    model.Role `json:"role"`
	Student string     `json:"student"`
}

// ProfessorSummary aggregates one professor's participation over the run.
type ProfessorSummary struct {
	Name        string                `json:"name"`
	Supervised  int                   `json:"supervised"`
	President   int                   `json:"president"`
	Rapporteur  int                   `json:"rapporteur"`
	Total       int                   `json:"total"`
	Days        []time.Time           `json:"days,omitempty"`
	Assignments []ProfessorAssignment `json:"assignments,omitempty"`
}

// FairnessStats summarizes the spread of total participations across the
// roster.
type FairnessStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Schedule is a read-only snapshot of a finished run. Exporting twice from
// the same engine state yields identical output.
type Schedule struct {
	Entries     []ScheduleEntry           `json:"entries"`
	Unscheduled []UnscheduledPresentation `json:"unscheduled,omitempty"`
	RoomUsage   map[string][]RoomBooking  `json:"room_usage,omitempty"`
	Professors  []ProfessorSummary        `json:"professors"`
	Fairness    FairnessStats             `json:"fairness"`
}

// Export flattens the engine state into an ordered schedule plus diagnostics.
// It does not mutate the engine.
func (e *Engine) Export() *Schedule {
	out := &Schedule{RoomUsage: make(map[string][]RoomBooking)}

	scheduled := lo.Filter(e.presentations, func(p *model.Presentation, _ int) bool {
		return p.Scheduled()
	})
	out.Entries = lo.Map(scheduled, func(p *model.Presentation, _ int) ScheduleEntry {
		return ScheduleEntry{
			DateTime:   p.Slot,
			Department: p.Department,
			Topic:      p.Topic,
			Student:    p.Student,
			Room:       p.Room,
			Jury:       append([]model.JuryMember(nil), p.Jury...),
		}
	})
	sort.SliceStable(out.Entries, func(i, j int) bool {
		if !out.Entries[i].DateTime.Equal(out.Entries[j].DateTime) {
			return out.Entries[i].DateTime.Before(out.Entries[j].DateTime)
		}
		return out.Entries[i].Room < out.Entries[j].Room
	})

	for _, p := range e.presentations {
		if p.Scheduled() {
			out.RoomUsage[p.Room] = append(out.RoomUsage[p.Room], RoomBooking{
				Time:    p.Slot,
				Student: p.Student,
			})
			continue
		}
		out.Unscheduled = append(out.Unscheduled, UnscheduledPresentation{
			Topic:      p.Topic,
			Student:    p.Student,
			Supervisor: p.Supervisor,
		})
	}
	for room := range out.RoomUsage {
		bookings := out.RoomUsage[room]
		sort.Slice(bookings, func(i, j int) bool { return bookings[i].Time.Before(bookings[j].Time) })
	}

	// Entries are already time-ordered, so each professor's appearance list
	// comes out chronological.
	byProfessor := make(map[string][]ProfessorAssignment)
	for _, entry := range out.Entries {
		for _, j := range entry.Jury {
			byProfessor[j.Name] = append(byProfessor[j.Name], ProfessorAssignment{
				Time:    entry.DateTime,
				Room:    entry.Room,
				Role:    j.Role,
				Student: entry.Student,
			})
		}
	}

	totals := make([]float64, 0, e.roster.Len())
	for _, id := range e.roster.IDs() {
		rec := e.roster.Record(id)
		total := rec.Supervised + rec.PresidentCount + rec.RapporteurCount
		out.Professors = append(out.Professors, ProfessorSummary{
			Name:        rec.Name,
			Supervised:  rec.Supervised,
			President:   rec.PresidentCount,
			Rapporteur:  rec.RapporteurCount,
			Total:       total,
			Days:        rec.ActiveDays(),
			Assignments: byProfessor[rec.Name],
		})
		totals = append(totals, float64(total))
	}
	sort.Slice(out.Professors, func(i, j int) bool {
		return out.Professors[i].Name < out.Professors[j].Name
	})
	if len(totals) > 0 {
		out.Fairness.Mean = stat.Mean(totals, nil)
	}
	if len(totals) > 1 {
		out.Fairness.StdDev = stat.StdDev(totals, nil)
	}
	return out
}
