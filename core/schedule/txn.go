package schedule

import (
	"time"

	"github.com/hbenali/pfeplan/core/model"
)

// txn is a scratch overlay over the engine state. Phase 1 stages a whole
// supervisor group in one transaction and commits it atomically only when
// every presentation of the group fits; otherwise the overlay is discarded
// and the base state is left untouched. Phase 2 uses one transaction per
// presentation. All reads inside an attempt go through the transaction so
// that staged bookings, staged duty counts and staged day activity are
// visible to later placements of the same attempt.
type txn struct {
	eng      *Engine
	bookings map[ProfessorID]map[time.Time]struct{}
	days     map[ProfessorID]map[time.Time]struct{}
	rooms    map[time.Time]map[RoomID]struct{}
	roles    map[ProfessorID]*roleDelta
	staged   []stagedAssignment
}

type roleDelta struct {
	president  int
	rapporteur int
}

type stagedAssignment struct {
	idx          int
	slot         time.Time
	room         RoomID
	roomFallback bool
	president    ProfessorID
	rapporteur   ProfessorID
}

func (e *Engine) begin() *txn {
	return &txn{
		eng:      e,
		bookings: make(map[ProfessorID]map[time.Time]struct{}),
		days:     make(map[ProfessorID]map[time.Time]struct{}),
		rooms:    make(map[time.Time]map[RoomID]struct{}),
		roles:    make(map[ProfessorID]*roleDelta),
	}
}

// available reports whether the professor is free at slot in both the base
// state and the overlay.
func (t *txn) available(id ProfessorID, slot time.Time) bool {
	if _, ok := t.bookings[id][slot]; ok {
		return false
	}
	return t.eng.availability.Available(id, slot)
}

// activeOn reports whether the professor has any booking, committed or
// staged, on the given day.
func (t *txn) activeOn(id ProfessorID, day time.Time) bool {
	if _, ok := t.days[id][day]; ok {
		return true
	}
	return t.eng.roster.Record(id).ActiveOn(day)
}

func (t *txn) roleCount(id ProfessorID, role juryRole) int {
	rec := t.eng.roster.Record(id)
	d := t.roles[id]
	switch role {
	case rolePresident:
		if d != nil {
			return rec.PresidentCount + d.president
		}
		return rec.PresidentCount
	default:
		if d != nil {
			return rec.RapporteurCount + d.rapporteur
		}
		return rec.RapporteurCount
	}
}

func (t *txn) totalDuties(id ProfessorID) int {
	return t.roleCount(id, rolePresident) + t.roleCount(id, roleRapporteur)
}

func (t *txn) roomStaged(slot time.Time, room RoomID) bool {
	_, ok := t.rooms[slot][room]
	return ok
}

func (t *txn) book(id ProfessorID, slot time.Time) {
	if t.bookings[id] == nil {
		t.bookings[id] = make(map[time.Time]struct{})
	}
	t.bookings[id][slot] = struct{}{}
	day := dayOf(slot)
	if t.days[id] == nil {
		t.days[id] = make(map[time.Time]struct{})
	}
	t.days[id][day] = struct{}{}
}

func (t *txn) delta(id ProfessorID) *roleDelta {
	d, ok := t.roles[id]
	if !ok {
		d = &roleDelta{}
		t.roles[id] = d
	}
	return d
}

// stage records a full assignment in the overlay: jury bookings, role
// counts and room occupancy become visible to subsequent reads through t.
func (t *txn) stage(idx int, slot time.Time, room RoomID, roomFallback bool, president, rapporteur ProfessorID) {
	supervisor := t.eng.supervisors[idx]
	t.book(president, slot)
	t.book(rapporteur, slot)
	t.book(supervisor, slot)
	t.delta(president).president++
	t.delta(rapporteur).rapporteur++
	if t.rooms[slot] == nil {
		t.rooms[slot] = make(map[RoomID]struct{})
	}
	t.rooms[slot][room] = struct{}{}
	t.staged = append(t.staged, stagedAssignment{
		idx:          idx,
		slot:         slot,
		room:         room,
		roomFallback: roomFallback,
		president:    president,
		rapporteur:   rapporteur,
	})
}

// commit applies every staged assignment to the base state. Once applied an
// assignment is never reverted within the run.
func (t *txn) commit() {
	e := t.eng
	for _, s := range t.staged {
		p := e.presentations[s.idx]
		supervisor := e.supervisors[s.idx]
		p.Slot = s.slot
		p.Room = s.room.String()
		p.Jury = []model.JuryMember{
			{Role: model.RolePresident, Name: e.roster.Name(s.president)},
			{Role: model.RoleRapporteur, Name: e.roster.Name(s.rapporteur)},
			{Role: model.RoleSupervisor, Name: e.roster.Name(supervisor)},
		}

		e.roster.Book(s.president, s.slot)
		e.roster.Book(s.rapporteur, s.slot)
		e.roster.Book(supervisor, s.slot)
		e.workload.RecordAssignment(s.president, rolePresident)
		e.workload.RecordAssignment(s.rapporteur, roleRapporteur)
		e.rooms.book(s.slot, s.room)
		if s.roomFallback {
			e.roomFallbacks++
		}
	}
}
