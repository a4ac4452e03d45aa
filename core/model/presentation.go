package model

import (
	"fmt"
	"time"
)

// Role identifies the function of a jury member during a defense.
type Role string

const (
	RolePresident  Role = "President"
	RoleRapporteur Role = "Rapporteur"
	RoleSupervisor Role = "Supervisor"
)

// JuryMember associates a professor with the role they hold for one defense.
type JuryMember struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
}

// Presentation represents a single PFE defense to be placed on the calendar.
// Slot, Room and Jury stay empty until the engine commits an assignment and
// are never modified afterwards within the same run.
type Presentation struct {
	Topic      string       `json:"topic"`
	Student    string       `json:"student"`
	Supervisor string       `json:"supervisor"`
	Department string       `json:"department"`
	Slot       time.Time    `json:"slot"`
	Room       string       `json:"room,omitempty"`
	Jury       []JuryMember `json:"jury,omitempty"`
}

// Scheduled reports whether the presentation has been committed to a slot.
func (p *Presentation) Scheduled() bool {
	return !p.Slot.IsZero()
}

// Validate checks that the fields required before scheduling are present.
func (p Presentation) Validate() error {
	if p.Topic == "" {
		return fmt.Errorf("presentation topic is required")
	}
	if p.Student == "" {
		return fmt.Errorf("presentation student is required")
	}
	if p.Supervisor == "" {
		return fmt.Errorf("presentation %q has no supervisor", p.Topic)
	}
	return nil
}
