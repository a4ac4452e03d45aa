package schedule

import "errors"

var (
	// ErrInvalidParameters indicates a malformed scheduling window. It is
	// returned before any slot generation takes place.
	ErrInvalidParameters = errors.New("invalid scheduling parameters")

	// ErrInsufficientJuryPool indicates fewer than two eligible professors
	// remain for a candidate slot. Local to one candidate, always recovered.
	ErrInsufficientJuryPool = errors.New("insufficient jury pool")

	// ErrNoRoomAvailable indicates every room is occupied at a candidate
	// slot. The caller must move to a different slot, not retry this one.
	ErrNoRoomAvailable = errors.New("no room available")
)
