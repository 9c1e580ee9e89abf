package service

import (
	"math"
	"time"
)

type PeriodType string

const (
	PeriodToday     PeriodType = "TODAY"
	PeriodLast7Days PeriodType = "LAST_7_DAYS"
	PeriodThisMonth PeriodType = "THIS_MONTH"
	PeriodCustom    PeriodType = "CUSTOM"
)

// ParsePeriodType accepts the four known period names
func ParsePeriodType(s string) (PeriodType, bool) {
	switch p := PeriodType(s); p {
	case PeriodToday, PeriodLast7Days, PeriodThisMonth, PeriodCustom:
		return p, true
	}
	return "", false
}

// PeriodSelection is the dashboard period as chosen by the user
type PeriodSelection struct {
	Period      PeriodType `json:"period"`
	CustomStart *time.Time `json:"custom_start,omitempty"`
	CustomEnd   *time.Time `json:"custom_end,omitempty"`
}

// DateRange is the half-open interval [Start, End)
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Days counts the calendar days spanned by the range
func (r DateRange) Days() int {
	return int(math.Round(r.End.Sub(r.Start).Hours() / 24))
}

// Previous returns the window of equal length ending where r starts.
// Ranges shorter than a day look back one day.
func (r DateRange) Previous() DateRange {
	days := r.Days()
	if days < 1 {
		days = 1
	}
	return DateRange{Start: r.Start.AddDate(0, 0, -days), End: r.Start}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ResolveRange turns a period selection into concrete bounds in loc.
// A missing custom start means today, a missing custom end means the start.
func ResolveRange(sel PeriodSelection, now time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	today := startOfDay(now, loc)

	switch sel.Period {
	case PeriodToday, "":
		return DateRange{Start: today, End: today.AddDate(0, 0, 1)}, nil

	case PeriodLast7Days:
		end := today.AddDate(0, 0, 1)
		return DateRange{Start: end.AddDate(0, 0, -7), End: end}, nil

	case PeriodThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return DateRange{Start: first, End: first.AddDate(0, 1, 0)}, nil

	case PeriodCustom:
		start := today
		if sel.CustomStart != nil && !sel.CustomStart.IsZero() {
			start = startOfDay(*sel.CustomStart, loc)
		}
		end := start
		if sel.CustomEnd != nil && !sel.CustomEnd.IsZero() {
			end = startOfDay(*sel.CustomEnd, loc)
		}
		if end.Before(start) {
			start, end = end, start
		}
		return DateRange{Start: start, End: end.AddDate(0, 0, 1)}, nil
	}

	return DateRange{}, ErrInvalidPeriod
}
