package schedule

import "time"

// ProfessorID is an interned handle for a professor. IDs are assigned in
// first-seen order, which also serves as the final tie-break in jury ranking.
type ProfessorID int

// ProfessorRecord accumulates one professor's workload and calendar state
// across a run. Records are created on first reference and never deleted.
type ProfessorRecord struct {
	Name             string
	Supervised       int
	PresidentCount   int
	PresidentTarget  int
	RapporteurCount  int
	RapporteurTarget int

	booked map[time.Time]struct{}
	days   map[time.Time]struct{}
}

// BookedAt reports whether the professor already sits on a jury at slot.
func (r *ProfessorRecord) BookedAt(slot time.Time) bool {
	_, ok := r.booked[slot]
	return ok
}

// ActiveOn reports whether the professor has any booking on the given day.
func (r *ProfessorRecord) ActiveOn(day time.Time) bool {
	_, ok := r.days[day]
	return ok
}

// BookedSlots returns the professor's booked slots in ascending order.
func (r *ProfessorRecord) BookedSlots() []time.Time {
	out := make([]time.Time, 0, len(r.booked))
	for s := range r.booked {
		out = append(out, s)
	}
	sortTimes(out)
	return out
}

// ActiveDays returns the professor's active calendar days in ascending order.
func (r *ProfessorRecord) ActiveDays() []time.Time {
	out := make([]time.Time, 0, len(r.days))
	for d := range r.days {
		out = append(out, d)
	}
	sortTimes(out)
	return out
}

// Roster interns professor names into dense IDs backed by an arena of
// records, so the engine never compares or hashes free-form strings in its
// hot paths.
type Roster struct {
	ids     map[string]ProfessorID
	records []*ProfessorRecord
}

func NewRoster() *Roster {
	return &Roster{ids: make(map[string]ProfessorID)}
}

// Intern returns the ID for name, creating a fresh record if absent.
func (r *Roster) Intern(name string) ProfessorID {
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := ProfessorID(len(r.records))
	r.ids[name] = id
	r.records = append(r.records, &ProfessorRecord{
		Name:   name,
		booked: make(map[time.Time]struct{}),
		days:   make(map[time.Time]struct{}),
	})
	return id
}

// Lookup resolves a name without creating a record.
func (r *Roster) Lookup(name string) (ProfessorID, bool) {
	id, ok := r.ids[name]
	return id, ok
}

func (r *Roster) Record(id ProfessorID) *ProfessorRecord {
	return r.records[id]
}

func (r *Roster) Name(id ProfessorID) string {
	return r.records[id].Name
}

func (r *Roster) Len() int {
	return len(r.records)
}

// IDs returns every known professor in interning order.
func (r *Roster) IDs() []ProfessorID {
	out := make([]ProfessorID, len(r.records))
	for i := range r.records {
		out[i] = ProfessorID(i)
	}
	return out
}

// Book marks the professor as occupied at slot and active on its day.
func (r *Roster) Book(id ProfessorID, slot time.Time) {
	rec := r.records[id]
	rec.booked[slot] = struct{}{}
	rec.days[dayOf(slot)] = struct{}{}
}
