package schedule

// juryRole distinguishes the two elected jury roles for workload accounting.
// The supervisor role carries no count: supervision is fixed by the input.
type juryRole int

const (
	rolePresident juryRole = iota
	roleRapporteur
)

// Workload tracks per-professor duty counts and fairness targets over the
// roster records.
type Workload struct {
	roster *Roster
}

func NewWorkload(roster *Roster) *Workload {
	return &Workload{roster: roster}
}

// RegisterSupervision increments the supervised count for the professor.
func (w *Workload) RegisterSupervision(id ProfessorID) {
	w.roster.Record(id).Supervised++
}

// ComputeTargets sets every professor's president and rapporteur targets to
// their supervised count: a professor supervising N defenses is expected to
// also serve N times in each elected role across the whole dataset. This is
// rough three-way fairness over the run, not per-presentation fairness.
func (w *Workload) ComputeTargets() {
	for _, id := range w.roster.IDs() {
		rec := w.roster.Record(id)
		rec.PresidentTarget = rec.Supervised
		rec.RapporteurTarget = rec.Supervised
	}
}

// RecordAssignment increments the count matching the role.
func (w *Workload) RecordAssignment(id ProfessorID, role juryRole) {
	rec := w.roster.Record(id)
	switch role {
	case rolePresident:
		rec.PresidentCount++
	case roleRapporteur:
		rec.RapporteurCount++
	}
}
