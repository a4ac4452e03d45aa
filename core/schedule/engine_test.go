package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var testStart = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func mustAdd(t *testing.T, e *Engine, topic, student, supervisor string) {
	t.Helper()
	if err := e.AddPresentation(topic, student, supervisor); err != nil {
		t.Fatalf("add %s: %v", topic, err)
	}
}

// checkInvariants verifies the hard constraints over a finished run: no room
// double-booked, no professor on two juries at one slot, juries of three
// pairwise-distinct members.
func checkInvariants(t *testing.T, snap *Schedule) {
	t.Helper()
	roomAt := make(map[string]string)
	profAt := make(map[string]string)
	for _, entry := range snap.Entries {
		key := entry.DateTime.Format(time.RFC3339) + "/" + entry.Room
		if prev, ok := roomAt[key]; ok {
			t.Errorf("room conflict at %s between %q and %q", key, prev, entry.Topic)
		}
		roomAt[key] = entry.Topic

		if len(entry.Jury) != 3 {
			t.Fatalf("presentation %q has %d jury members", entry.Topic, len(entry.Jury))
		}
		names := make(map[string]bool)
		for _, j := range entry.Jury {
			if names[j.Name] {
				t.Errorf("presentation %q has duplicate jury member %s", entry.Topic, j.Name)
			}
			names[j.Name] = true
			pk := entry.DateTime.Format(time.RFC3339) + "/" + j.Name
			if prev, ok := profAt[pk]; ok {
				t.Errorf("%s double-booked at %s (%q and %q)", j.Name, entry.DateTime, prev, entry.Topic)
			}
			profAt[pk] = entry.Topic
		}
	}
}

func TestScheduleGroupedPlacement(t *testing.T) {
	// Scenario: 6 presentations, 3 supervisors with 2 each, 4 other
	// professors, 2 days of 4 slots, no constraints. Everything fits and
	// each supervisor's pair lands on the same or an adjacent day.
	e := newTestEngine()
	mustAdd(t, e, "T1", "St1", "SupA")
	mustAdd(t, e, "T2", "St2", "SupA")
	mustAdd(t, e, "T3", "St3", "SupB")
	mustAdd(t, e, "T4", "St4", "SupB")
	mustAdd(t, e, "T5", "St5", "SupC")
	mustAdd(t, e, "T6", "St6", "SupC")
	for _, name := range []string{"ProfD", "ProfE", "ProfF", "ProfG"} {
		e.AddProfessor(name)
	}

	sum, err := e.Schedule(Params{Start: testStart, NumDays: 2, SlotsPerDay: 4})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if sum.Scheduled != 6 || sum.Unscheduled != 0 {
		t.Fatalf("expected 6 scheduled, got %d (%d unscheduled)", sum.Scheduled, sum.Unscheduled)
	}

	snap := e.Export()
	checkInvariants(t, snap)

	days := make(map[string][]time.Time)
	for i, p := range e.presentations {
		if !p.Scheduled() {
			t.Fatalf("presentation %d unscheduled", i)
		}
		days[p.Supervisor] = append(days[p.Supervisor], dayOf(p.Slot))
	}
	for sup, d := range days {
		if len(d) != 2 {
			t.Fatalf("supervisor %s should have 2 placements", sup)
		}
		gap := d[1].Sub(d[0])
		if gap < 0 {
			gap = -gap
		}
		if gap > 24*time.Hour {
			t.Errorf("supervisor %s's presentations are %v apart", sup, gap)
		}
	}
}

func TestScheduleSkipsFullyUnavailableJuror(t *testing.T) {
	// A professor blocked for the whole horizon, present only as a jury
	// candidate, must never appear in a jury; the run still completes.
	e := newTestEngine()
	mustAdd(t, e, "T1", "St1", "SupA")
	mustAdd(t, e, "T2", "St2", "SupB")
	e.AddProfessor("Ghost")
	e.AddProfessor("ProfC")
	e.AddProfessor("ProfD")

	slots, _ := GenerateSlots(testStart, 1, 4)
	e.SetUnavailability("Ghost", slots...)

	sum, err := e.Schedule(Params{Start: testStart, NumDays: 1, SlotsPerDay: 4})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if sum.Scheduled != 2 {
		t.Fatalf("expected 2 scheduled, got %d", sum.Scheduled)
	}
	for _, entry := range e.Export().Entries {
		for _, j := range entry.Jury {
			if j.Name == "Ghost" {
				t.Fatalf("blocked professor sits on jury of %q", entry.Topic)
			}
		}
	}
}

func TestScheduleTooFewProfessors(t *testing.T) {
	// Fewer than 3 professors in the whole dataset: jury selection can
	// never succeed, every presentation stays unscheduled, no error.
	e := newTestEngine()
	mustAdd(t, e, "T1", "St1", "SupA")
	mustAdd(t, e, "T2", "St2", "SupB")

	sum, err := e.Schedule(Params{Start: testStart, NumDays: 2, SlotsPerDay: 4})
	if err != nil {
		t.Fatalf("run must not fail: %v", err)
	}
	if sum.Scheduled != 0 || sum.Unscheduled != 2 {
		t.Fatalf("expected everything unscheduled, got %+v", sum)
	}
	snap := e.Export()
	if len(snap.Unscheduled) != 2 {
		t.Fatalf("diagnostics should list both presentations, got %d", len(snap.Unscheduled))
	}
	if snap.Unscheduled[0].Supervisor == "" {
		t.Errorf("diagnostics must carry the supervisor")
	}
}

func TestScheduleRoomFallbackAcrossBlocks(t *testing.T) {
	// Department mapped to a block with zero rooms: the allocator must fall
	// back to any free room instead of failing the presentation.
	catalog, err := NewRoomCatalog(map[string]int{"K": 2}, map[string]string{"Mecanique": "M"}, "K")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	e := New(func(string) string { return "Mecanique" }, catalog, nil)
	mustAdd(t, e, "T1", "St1", "SupA")
	e.AddProfessor("ProfB")
	e.AddProfessor("ProfC")

	sum, err := e.Schedule(Params{Start: testStart, NumDays: 1, SlotsPerDay: 2})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if sum.Scheduled != 1 {
		t.Fatalf("expected 1 scheduled, got %d", sum.Scheduled)
	}
	if sum.RoomFallbacks != 1 {
		t.Errorf("expected 1 room fallback, got %d", sum.RoomFallbacks)
	}
	if room := e.presentations[0].Room; room != "K01" {
		t.Errorf("expected fallback room K01, got %s", room)
	}
}

func TestScheduleInvalidWindow(t *testing.T) {
	e := newTestEngine()
	mustAdd(t, e, "T1", "St1", "SupA")
	e.AddProfessor("ProfB")
	e.AddProfessor("ProfC")

	if _, err := e.Schedule(Params{Start: testStart, NumDays: 0, SlotsPerDay: 4}); !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
	// Fail-fast: no partial state, the engine can still run.
	if e.presentations[0].Scheduled() {
		t.Fatalf("no presentation may be touched by a rejected run")
	}
	sum, err := e.Schedule(Params{Start: testStart, NumDays: 1, SlotsPerDay: 4})
	if err != nil {
		t.Fatalf("subsequent valid run: %v", err)
	}
	if sum.Scheduled != 1 {
		t.Errorf("expected 1 scheduled after valid run, got %d", sum.Scheduled)
	}
}

func TestScheduleGroupOverlayDiscardedAtomically(t *testing.T) {
	// SupA's pair needs slots 09 and 10, but the jury pool vanishes at 10:
	// phase 1 must discard the whole staged group, not commit half of it.
	// The first presentation is then placed by phase 2 alone.
	e := newTestEngine()
	mustAdd(t, e, "T1", "St1", "SupA")
	mustAdd(t, e, "T2", "St2", "SupA")
	e.AddProfessor("ProfB")
	e.AddProfessor("ProfC")

	ten := testStart.Add(10 * time.Hour)
	e.SetUnavailability("ProfB", ten)
	e.SetUnavailability("ProfC", ten)

	sum, err := e.Schedule(Params{Start: testStart, NumDays: 1, SlotsPerDay: 2})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if sum.GroupPlaced != 0 {
		t.Errorf("phase 1 must not commit a partial group, GroupPlaced=%d", sum.GroupPlaced)
	}
	if sum.FallbackPlaced != 1 || sum.Unscheduled != 1 {
		t.Fatalf("expected 1 fallback placement and 1 unscheduled, got %+v", sum)
	}
	// The discarded overlay must leave no trace in the duty counts.
	for _, p := range e.Export().Professors {
		if p.President+p.Rapporteur > 1 {
			t.Errorf("professor %s carries duties from a discarded overlay: %+v", p.Name, p)
		}
	}
}

func TestScheduleFallbackPrefersAdjacentDays(t *testing.T) {
	// Four presentations for one supervisor with a 3-per-day cap: the
	// group must spill onto the next consecutive day, not scatter across
	// the horizon.
	e := newTestEngine()
	mustAdd(t, e, "T1", "St1", "SupA")
	mustAdd(t, e, "T2", "St2", "SupA")
	mustAdd(t, e, "T3", "St3", "SupA")
	mustAdd(t, e, "T4", "St4", "SupA")
	e.AddProfessor("ProfB")
	e.AddProfessor("ProfC")

	sum, err := e.Schedule(Params{Start: testStart, NumDays: 4, SlotsPerDay: 3})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if sum.Scheduled != 4 {
		t.Fatalf("expected 4 scheduled, got %d", sum.Scheduled)
	}
	// 4 presentations, 3 per day max: days 1 and 2 of the horizon.
	var lastDay time.Time
	for _, p := range e.presentations {
		d := dayOf(p.Slot)
		if d.After(lastDay) {
			lastDay = d
		}
	}
	if lastDay.After(testStart.AddDate(0, 0, 1)) {
		t.Errorf("grouped placement should use two consecutive days, last day %v", lastDay)
	}
	checkInvariants(t, e.Export())
}

func TestScheduleDeterministic(t *testing.T) {
	build := func() *Engine {
		e := newTestEngine()
		mustAdd(t, e, "T1", "St1", "SupA")
		mustAdd(t, e, "T2", "St2", "SupA")
		mustAdd(t, e, "T3", "St3", "SupB")
		e.AddProfessor("ProfC")
		e.AddProfessor("ProfD")
		e.SetUnavailability("ProfC", testStart.Add(9*time.Hour))
		return e
	}

	a := build()
	b := build()
	if _, err := a.Schedule(Params{Start: testStart, NumDays: 2, SlotsPerDay: 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Schedule(Params{Start: testStart, NumDays: 2, SlotsPerDay: 4}); err != nil {
		t.Fatal(err)
	}

	ja, _ := json.Marshal(a.Export())
	jb, _ := json.Marshal(b.Export())
	if string(ja) != string(jb) {
		t.Fatalf("identical inputs must produce identical schedules:\n%s\n%s", ja, jb)
	}
}

func TestScheduleMonotonicity(t *testing.T) {
	e := newTestEngine()
	mustAdd(t, e, "T1", "St1", "SupA")
	mustAdd(t, e, "T2", "St2", "SupB")
	e.AddProfessor("ProfC")

	if _, err := e.Schedule(Params{Start: testStart, NumDays: 2, SlotsPerDay: 4}); err != nil {
		t.Fatal(err)
	}
	first := make(map[string]time.Time)
	for _, p := range e.presentations {
		if p.Scheduled() {
			first[p.Topic] = p.Slot
		}
	}
	// A second run is rejected and must not move anything.
	if _, err := e.Schedule(Params{Start: testStart, NumDays: 2, SlotsPerDay: 4}); err == nil {
		t.Fatalf("second run on the same engine must fail")
	}
	for _, p := range e.presentations {
		if want, ok := first[p.Topic]; ok && !p.Slot.Equal(want) {
			t.Errorf("presentation %q moved from %v to %v", p.Topic, want, p.Slot)
		}
	}
}

func TestAddPresentationValidation(t *testing.T) {
	e := newTestEngine()
	if err := e.AddPresentation("T1", "St1", ""); err == nil {
		t.Errorf("missing supervisor must be rejected")
	}
	if err := e.AddPresentation("", "St1", "SupA"); err == nil {
		t.Errorf("missing topic must be rejected")
	}
	if err := e.AddPresentation("T1", "", "SupA"); err == nil {
		t.Errorf("missing student must be rejected")
	}
}

func TestSchedulePartialHorizon(t *testing.T) {
	// More presentations than slots: the run completes with diagnostics
	// instead of failing.
	e := newTestEngine()
	for _, st := range []string{"St1", "St2", "St3", "St4"} {
		mustAdd(t, e, "T-"+st, st, "SupA")
	}
	e.AddProfessor("ProfB")
	e.AddProfessor("ProfC")

	sum, err := e.Schedule(Params{Start: testStart, NumDays: 1, SlotsPerDay: 2})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if sum.Scheduled != 2 || sum.Unscheduled != 2 {
		t.Fatalf("expected 2 scheduled / 2 unscheduled, got %+v", sum)
	}
	checkInvariants(t, e.Export())
}
