// Package schedule assigns PFE defenses to time slots, rooms and three-person
// juries. Placement is a greedy two-phase heuristic: supervisors' batches are
// first placed contiguously on consecutive days, then the leftovers fall back
// to per-presentation placement near the supervisor's existing bookings.
// A run is best-effort: presentations that cannot be placed are reported in
// the diagnostics, never raised as errors.
package schedule
