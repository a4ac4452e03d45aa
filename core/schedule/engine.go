package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hbenali/pfeplan/core/logger"
	"github.com/hbenali/pfeplan/core/model"
)

// ClassifyFunc maps a presentation topic to a department label. The engine
// never owns a classifier; the caller injects one.
type ClassifyFunc func(topic string) string

// Params define the scheduling window: hourly slots from 09:00 over NumDays
// consecutive calendar days starting at Start.
type Params struct {
	Start       time.Time
	NumDays     int
	SlotsPerDay int
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID          string        `json:"run_id"`
	Duration       time.Duration `json:"duration"`
	Total          int           `json:"total"`
	Scheduled      int           `json:"scheduled"`
	Unscheduled    int           `json:"unscheduled"`
	GroupPlaced    int           `json:"group_placed"`
	FallbackPlaced int           `json:"fallback_placed"`
	RoomFallbacks  int           `json:"room_fallbacks"`
}

// maxPerDay bounds how many defenses of one supervisor are grouped on a
// single day during phase 1.
const maxPerDay = 3

// Engine orchestrates the two-phase placement over all presentations. It is
// single-threaded: one run owns all mutable state exclusively and executes to
// completion with no suspension points. Callers wanting concurrent runs must
// use one engine instance per run.
type Engine struct {
	log      logger.Logger
	classify ClassifyFunc

	roster       *Roster
	availability *Availability
	workload     *Workload
	jury         *JurySelector
	rooms        *RoomAllocator
	grid         *slotGrid

	presentations []*model.Presentation
	supervisors   []ProfessorID

	roomFallbacks int
	done          bool
}

// New builds an engine over the given room catalog. classify must not be nil.
func New(classify ClassifyFunc, catalog *RoomCatalog, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NopLogger{}
	}
	roster := NewRoster()
	return &Engine{
		log:          log,
		classify:     classify,
		roster:       roster,
		availability: NewAvailability(roster),
		workload:     NewWorkload(roster),
		jury:         NewJurySelector(roster),
		rooms:        NewRoomAllocator(catalog),
	}
}

// AddProfessor registers a professor as a jury candidate without supervising
// anything. Supervisors are registered implicitly by AddPresentation.
func (e *Engine) AddProfessor(name string) {
	e.roster.Intern(name)
}

// AddPresentation classifies the topic and queues the presentation for the
// next run. It fails on missing required fields; nothing else aborts a run.
func (e *Engine) AddPresentation(topic, student, supervisor string) error {
	if e.done {
		return fmt.Errorf("engine already ran")
	}
	p := model.Presentation{
		Topic:      topic,
		Student:    student,
		Supervisor: supervisor,
		Department: "",
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.Department = e.classify(topic)
	id := e.roster.Intern(supervisor)
	e.workload.RegisterSupervision(id)
	e.presentations = append(e.presentations, &p)
	e.supervisors = append(e.supervisors, id)
	return nil
}

// SetUnavailability marks the professor as unavailable for the given slots.
// The professor is interned if not yet known.
func (e *Engine) SetUnavailability(professor string, slots ...time.Time) {
	if e.done {
		e.log.Warnf("ignoring unavailability for %s: engine already ran", professor)
		return
	}
	id := e.roster.Intern(professor)
	for _, s := range slots {
		e.availability.MarkUnavailable(id, s)
	}
}

// Schedule runs both placement phases over all queued presentations. It fails
// fast with ErrInvalidParameters on a malformed window, before any state is
// touched. Per-slot failures inside the run are always recovered by trying
// the next candidate; a partial schedule is the normal worst case, reported
// through the Summary and the export diagnostics.
func (e *Engine) Schedule(p Params) (Summary, error) {
	if e.done {
		return Summary{}, fmt.Errorf("engine already ran")
	}
	start := time.Now()
	slots, err := GenerateSlots(p.Start, p.NumDays, p.SlotsPerDay)
	if err != nil {
		return Summary{}, err
	}
	e.grid = newSlotGrid(slots)
	e.workload.ComputeTargets()

	sum := Summary{RunID: uuid.NewString(), Total: len(e.presentations)}
	e.log.Infof("scheduling %d presentations over %d slots (run %s)",
		sum.Total, len(slots), sum.RunID)

	var leftovers []int
	for _, g := range e.supervisorGroups() {
		if e.placeGroup(g.supervisor, g.indices) {
			sum.GroupPlaced += len(g.indices)
			continue
		}
		leftovers = append(leftovers, g.indices...)
	}

	sort.Ints(leftovers)
	for _, idx := range leftovers {
		if e.placeFallback(idx) {
			sum.FallbackPlaced++
		} else {
			p := e.presentations[idx]
			e.log.Warnf("could not place presentation %q (student %s, supervisor %s)",
				p.Topic, p.Student, p.Supervisor)
		}
	}

	for _, p := range e.presentations {
		if p.Scheduled() {
			sum.Scheduled++
		}
	}
	sum.Unscheduled = sum.Total - sum.Scheduled
	sum.RoomFallbacks = e.roomFallbacks
	sum.Duration = time.Since(start)
	e.done = true

	e.log.Debugw("run finished", map[string]any{
		"run_id":      sum.RunID,
		"scheduled":   sum.Scheduled,
		"unscheduled": sum.Unscheduled,
		"grouped":     sum.GroupPlaced,
		"fallback":    sum.FallbackPlaced,
	})
	return sum, nil
}

type group struct {
	supervisor ProfessorID
	indices    []int
}

// supervisorGroups partitions presentations by supervisor, largest group
// first. Ties keep the supervisors' first-seen order so identical inputs
// yield identical processing order.
func (e *Engine) supervisorGroups() []group {
	byID := make(map[ProfessorID]*group)
	var order []ProfessorID
	for idx, sup := range e.supervisors {
		g, ok := byID[sup]
		if !ok {
			g = &group{supervisor: sup}
			byID[sup] = g
			order = append(order, sup)
		}
		g.indices = append(g.indices, idx)
	}
	groups := make([]group, 0, len(order))
	for _, sup := range order {
		groups = append(groups, *byID[sup])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].indices) > len(groups[j].indices)
	})
	return groups
}

// placeGroup attempts phase-1 grouped placement: all of the supervisor's
// presentations on consecutive days, at most maxPerDay per day, in
// consecutive hourly slots. The whole group commits atomically or not at
// all; on failure the untouched group falls through to phase 2.
func (e *Engine) placeGroup(supervisor ProfessorID, indices []int) bool {
	daysNeeded := (len(indices) + maxPerDay - 1) / maxPerDay
	for start := 0; start+daysNeeded <= len(e.grid.days); start++ {
		window, ok := e.grid.window(start, daysNeeded)
		if !ok {
			continue
		}
		t := e.begin()
		if e.placeGroupInWindow(t, supervisor, indices, window) {
			t.commit()
			e.log.Debugf("group of %d placed for %s starting %s",
				len(indices), e.roster.Name(supervisor), window[0].Format("2006-01-02"))
			return true
		}
	}
	return false
}

func (e *Engine) placeGroupInWindow(t *txn, supervisor ProfessorID, indices []int, window []time.Time) bool {
	for d, day := range window {
		lo := d * maxPerDay
		if lo >= len(indices) {
			break
		}
		hi := lo + maxPerDay
		if hi > len(indices) {
			hi = len(indices)
		}
		batch := indices[lo:hi]
		run := e.consecutiveRun(t, supervisor, day, len(batch))
		if run == nil {
			return false
		}
		for i, idx := range batch {
			if !e.place(t, idx, run[i]) {
				return false
			}
		}
	}
	return true
}

// consecutiveRun finds the first maximal run of slots on the day where the
// supervisor is free, long enough for the batch, and returns its first need
// slots. Runs end at an unavailable slot, an hour gap, or the end of day.
func (e *Engine) consecutiveRun(t *txn, supervisor ProfessorID, day time.Time, need int) []time.Time {
	slots := e.grid.daySlots(day)
	var run []time.Time
	flush := func() []time.Time {
		if len(run) >= need {
			return run[:need]
		}
		run = nil
		return nil
	}
	for i, s := range slots {
		if !t.available(supervisor, s) {
			if got := flush(); got != nil {
				return got
			}
			continue
		}
		run = append(run, s)
		gap := i+1 < len(slots) && slots[i+1].Sub(s) > time.Hour
		if gap {
			if got := flush(); got != nil {
				return got
			}
		}
	}
	return flush()
}

// place stages one presentation at one slot: supervisor free, jury found,
// room found. Failures are local and leave the transaction consistent for
// the caller to discard or try another slot.
func (e *Engine) place(t *txn, idx int, slot time.Time) bool {
	supervisor := e.supervisors[idx]
	if !t.available(supervisor, slot) {
		return false
	}
	president, rapporteur, err := e.jury.Select(t, supervisor, slot)
	if err != nil {
		return false
	}
	room, fellBack, err := e.rooms.allocate(t, slot, e.presentations[idx].Department)
	if err != nil {
		return false
	}
	t.stage(idx, slot, room, fellBack, president, rapporteur)
	return true
}

// tryCommit runs place in a fresh transaction and commits on success.
func (e *Engine) tryCommit(idx int, slot time.Time) bool {
	t := e.begin()
	if !e.place(t, idx, slot) {
		return false
	}
	t.commit()
	return true
}

// placeFallback is phase 2: three strategies in order, stopping at the first
// slot that commits. (a) days adjacent to the supervisor's active days,
// (b) the active days themselves preferring hours next to existing bookings,
// (c) any free slot in chronological order.
func (e *Engine) placeFallback(idx int) bool {
	supervisor := e.supervisors[idx]
	rec := e.roster.Record(supervisor)
	activeDays := rec.ActiveDays()

	for _, day := range e.adjacentDays(activeDays) {
		for _, slot := range e.grid.daySlots(day) {
			if !e.availability.Available(supervisor, slot) {
				continue
			}
			if e.tryCommit(idx, slot) {
				return true
			}
		}
	}

	for _, day := range activeDays {
		if !e.grid.hasDay(day) {
			continue
		}
		for _, slot := range e.daySlotsNearBookings(rec, day) {
			if !e.availability.Available(supervisor, slot) {
				continue
			}
			if e.tryCommit(idx, slot) {
				return true
			}
		}
	}

	for _, day := range e.grid.days {
		for _, slot := range e.grid.daySlots(day) {
			if !e.availability.Available(supervisor, slot) {
				continue
			}
			if e.tryCommit(idx, slot) {
				return true
			}
		}
	}
	return false
}

// adjacentDays returns grid days one calendar day away from any active day,
// excluding the active days themselves, ordered by distance to the nearest
// active day then chronologically.
func (e *Engine) adjacentDays(activeDays []time.Time) []time.Time {
	if len(activeDays) == 0 {
		return nil
	}
	active := make(map[time.Time]struct{}, len(activeDays))
	for _, d := range activeDays {
		active[d] = struct{}{}
	}
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, d := range activeDays {
		for _, cand := range []time.Time{d.AddDate(0, 0, -1), d.AddDate(0, 0, 1)} {
			if _, ok := active[cand]; ok {
				continue
			}
			if !e.grid.hasDay(cand) {
				continue
			}
			if _, ok := seen[cand]; ok {
				continue
			}
			seen[cand] = struct{}{}
			out = append(out, cand)
		}
	}
	dist := func(d time.Time) int {
		best := int(^uint(0) >> 1)
		for _, a := range activeDays {
			delta := int(d.Sub(a).Hours() / 24)
			if delta < 0 {
				delta = -delta
			}
			if delta < best {
				best = delta
			}
		}
		return best
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := dist(out[i]), dist(out[j])
		if di != dj {
			return di < dj
		}
		return out[i].Before(out[j])
	})
	return out
}

// daySlotsNearBookings orders a day's slots for strategy (b): hours
// immediately before or after the supervisor's existing bookings first, then
// the day's remaining slots in ascending hour order. Slots the supervisor
// already occupies are skipped.
func (e *Engine) daySlotsNearBookings(rec *ProfessorRecord, day time.Time) []time.Time {
	daySlots := e.grid.daySlots(day)
	inGrid := make(map[time.Time]struct{}, len(daySlots))
	for _, s := range daySlots {
		inGrid[s] = struct{}{}
	}

	var booked []time.Time
	for _, s := range rec.BookedSlots() {
		if dayOf(s).Equal(day) {
			booked = append(booked, s)
		}
	}

	seen := make(map[time.Time]struct{})
	var out []time.Time
	push := func(s time.Time) {
		if _, ok := inGrid[s]; !ok {
			return
		}
		if rec.BookedAt(s) {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range booked {
		push(s.Add(-time.Hour))
		push(s.Add(time.Hour))
	}
	for _, s := range daySlots {
		push(s)
	}
	return out
}
