package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"volunteer-events-api/modules/event/entity"
)

// CategorizedEvents partitions events into upcoming and past. Upcoming is
// soonest-first; past is most-recently-ended-first.
type CategorizedEvents struct {
	Upcoming []entity.Event
	Past     []entity.Event
}

// localDateTime combines a YYYY-MM-DD date and an HH:MM time-of-day into a
// single instant in loc. Returns false when the date is absent or unparseable.
func localDateTime(date, hhmm string, loc *time.Location) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if hhmm != "" {
		if h, m, ok := splitHHMM(hhmm); ok {
			hour, minute = h, m
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), true
}

func splitHHMM(hhmm string) (int, int, bool) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return h, m, true
}

// IsPast reports whether the event has ended as of now. The instant exactly
// equal to date+toTime counts as past. Events with a missing or unparseable
// date are never past, so they are not silently dropped from the upcoming list.
func IsPast(e *entity.Event, now time.Time) bool {
	end, ok := localDateTime(e.Date, e.ToTime, now.Location())
	if !ok {
		return false
	}
	return !end.After(now)
}

// SortChronologically stable-sorts events ascending by date+fromTime.
// A missing fromTime sorts as midnight.
func SortChronologically(events []entity.Event, loc *time.Location) []entity.Event {
	sorted := make([]entity.Event, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, okA := localDateTime(sorted[i].Date, sorted[i].FromTime, loc)
		b, okB := localDateTime(sorted[j].Date, sorted[j].FromTime, loc)
		if !okA || !okB {
			return !okA && okB
		}
		return a.Before(b)
	})

	return sorted
}

// Categorize partitions events by IsPast and orders each partition:
// upcoming soonest-first for volunteers looking for the next opportunity,
// past most-recently-ended-first for admins reviewing history.
// Pure function of (events, now).
func Categorize(events []entity.Event, now time.Time) CategorizedEvents {
	upcoming := make([]entity.Event, 0, len(events))
	past := make([]entity.Event, 0)

	for _, e := range events {
		if IsPast(&e, now) {
			past = append(past, e)
		} else {
			upcoming = append(upcoming, e)
		}
	}

	past = SortChronologically(past, now.Location())
	for i, j := 0, len(past)-1; i < j; i, j = i+1, j-1 {
		past[i], past[j] = past[j], past[i]
	}

	return CategorizedEvents{
		Upcoming: SortChronologically(upcoming, now.Location()),
		Past:     past,
	}
}
