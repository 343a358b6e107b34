package planning

import "time"

// DateOnly normalizes a timestamp to midnight UTC. All planning math
// works on calendar days; intra-day times never influence results.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b (positive
// when b is after a). Both are assumed date-normalized.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// OffsetResult is the outcome of lead time offsetting for one planned
// order. When the computed start would fall before the run date the
// order is clipped to the run date and flagged late by the number of
// days the lead time cannot be honored.
type OffsetResult struct {
	OrderDate time.Time
	DueDate   time.Time
	Clipped   bool
	DaysLate  int
}

// OffsetLeadTime backward-schedules an order: start leadTimeDays before
// dueDate, clipped to runDate when the lead time reaches into the past.
func OffsetLeadTime(dueDate time.Time, leadTimeDays int, runDate time.Time) OffsetResult {
	due := DateOnly(dueDate)
	start := due.AddDate(0, 0, -leadTimeDays)
	res := OffsetResult{OrderDate: start, DueDate: due}
	today := DateOnly(runDate)
	if start.Before(today) {
		res.OrderDate = today
		res.Clipped = true
		res.DaysLate = daysBetween(start, today)
	}
	return res
}
