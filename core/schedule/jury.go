package schedule

import "time"

// JurySelector picks the president and rapporteur for one presentation at one
// candidate slot. Eligibility and duty counts are read through the current
// transaction so tentative placements of the same attempt are respected.
type JurySelector struct {
	roster *Roster
}

func NewJurySelector(roster *Roster) *JurySelector {
	return &JurySelector{roster: roster}
}

// Select returns the two elected jury members or ErrInsufficientJuryPool when
// fewer than two eligible professors remain. The president is ranked first;
// the rapporteur is ranked over the remaining pool with the same comparator.
func (s *JurySelector) Select(t *txn, supervisor ProfessorID, slot time.Time) (president, rapporteur ProfessorID, err error) {
	pool := make([]ProfessorID, 0, s.roster.Len())
	for _, id := range s.roster.IDs() {
		if id == supervisor {
			continue
		}
		if !t.available(id, slot) {
			continue
		}
		pool = append(pool, id)
	}
	if len(pool) < 2 {
		return 0, 0, ErrInsufficientJuryPool
	}

	day := dayOf(slot)
	president = s.pick(t, pool, day, rolePresident)
	remaining := pool[:0]
	for _, id := range pool {
		if id != president {
			remaining = append(remaining, id)
		}
	}
	rapporteur = s.pick(t, remaining, day, roleRapporteur)
	return president, rapporteur, nil
}

// pick returns the top-ranked professor of the pool for the role. The rank
// key is: largest deficit to the role target first, then professors already
// active on the slot's day (to concentrate their schedule), then fewer total
// jury duties. First-wins iteration over the pool keeps residual ties in
// stable interning order, so runs are reproducible.
func (s *JurySelector) pick(t *txn, pool []ProfessorID, day time.Time, role juryRole) ProfessorID {
	best := pool[0]
	for _, id := range pool[1:] {
		if s.ranksAbove(t, id, best, day, role) {
			best = id
		}
	}
	return best
}

func (s *JurySelector) ranksAbove(t *txn, a, b ProfessorID, day time.Time, role juryRole) bool {
	da, db := s.deficit(t, a, role), s.deficit(t, b, role)
	if da != db {
		return da > db
	}
	aa, ab := t.activeOn(a, day), t.activeOn(b, day)
	if aa != ab {
		return aa
	}
	return t.totalDuties(a) < t.totalDuties(b)
}

func (s *JurySelector) deficit(t *txn, id ProfessorID, role juryRole) int {
	rec := s.roster.Record(id)
	if role == rolePresident {
		return rec.PresidentTarget - t.roleCount(id, rolePresident)
	}
	return rec.RapporteurTarget - t.roleCount(id, roleRapporteur)
}
