package schedule

import (
	"sort"
	"time"
)

// firstHour is the hour of the first defense slot of every day.
const firstHour = 9

// GenerateSlots produces one slot per hour from 09:00 for each of numDays
// consecutive calendar days starting at start. The result is ordered by date
// then hour. It is a pure function of its inputs.
func GenerateSlots(start time.Time, numDays, slotsPerDay int) ([]time.Time, error) {
	if numDays < 1 || slotsPerDay < 1 {
		return nil, ErrInvalidParameters
	}
	slots := make([]time.Time, 0, numDays*slotsPerDay)
	day := dayOf(start)
	for d := 0; d < numDays; d++ {
		for h := 0; h < slotsPerDay; h++ {
			slots = append(slots, day.Add(time.Duration(firstHour+h)*time.Hour))
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots, nil
}

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}

// dayOf truncates a slot to its calendar day.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// slotGrid indexes the generated slots by calendar day.
type slotGrid struct {
	slots []time.Time
	days  []time.Time
	byDay map[time.Time][]time.Time
}

func newSlotGrid(slots []time.Time) *slotGrid {
	g := &slotGrid{slots: slots, byDay: make(map[time.Time][]time.Time)}
	for _, s := range slots {
		d := dayOf(s)
		if _, ok := g.byDay[d]; !ok {
			g.days = append(g.days, d)
		}
		g.byDay[d] = append(g.byDay[d], s)
	}
	return g
}

func (g *slotGrid) hasDay(day time.Time) bool {
	_, ok := g.byDay[day]
	return ok
}

func (g *slotGrid) daySlots(day time.Time) []time.Time {
	return g.byDay[day]
}

// window returns n literally consecutive calendar days starting at day index
// start. A gap in the generated days disqualifies the window.
func (g *slotGrid) window(start, n int) ([]time.Time, bool) {
	if start+n > len(g.days) {
		return nil, false
	}
	for i := 1; i < n; i++ {
		if !g.days[start+i].Equal(g.days[start+i-1].AddDate(0, 0, 1)) {
			return nil, false
		}
	}
	return g.days[start : start+n], true
}
