package schedule

import "time"

// Availability answers whether a professor can sit on a jury at a given slot.
// It combines explicit unavailability constraints, supplied before the run
// starts, with the implicit bookings accumulated in the roster.
type Availability struct {
	roster  *Roster
	blocked map[ProfessorID]map[time.Time]struct{}
}

func NewAvailability(roster *Roster) *Availability {
	return &Availability{
		roster:  roster,
		blocked: make(map[ProfessorID]map[time.Time]struct{}),
	}
}

// MarkUnavailable records an explicit constraint. Idempotent.
func (a *Availability) MarkUnavailable(id ProfessorID, slot time.Time) {
	set, ok := a.blocked[id]
	if !ok {
		set = make(map[time.Time]struct{})
		a.blocked[id] = set
	}
	set[slot] = struct{}{}
}

// Available reports whether the professor is free at slot: neither explicitly
// blocked nor already booked on another jury. No side effects.
func (a *Availability) Available(id ProfessorID, slot time.Time) bool {
	if _, ok := a.blocked[id][slot]; ok {
		return false
	}
	return !a.roster.Record(id).BookedAt(slot)
}
