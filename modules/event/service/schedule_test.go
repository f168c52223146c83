package service

import (
	"testing"
	"time"

	"volunteer-events-api/modules/event/entity"
)

func mkEvent(title, date, from, to string) entity.Event {
	return entity.Event{Title: title, Date: date, FromTime: from, ToTime: to}
}

func TestIsPastBoundaryInstant(t *testing.T) {
	loc := time.UTC
	e := mkEvent("tabling", "2026-09-01", "10:00", "12:00")

	endInstant := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)
	if !IsPast(&e, endInstant) {
		t.Errorf("event ending exactly now should be past")
	}
	if IsPast(&e, endInstant.Add(-time.Second)) {
		t.Errorf("event ending one second from now should not be past")
	}
	if !IsPast(&e, endInstant.Add(time.Second)) {
		t.Errorf("event ended one second ago should be past")
	}
}

func TestIsPastUnparseableDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for _, date := range []string{"", "not-a-date", "2026-13"} {
		e := mkEvent("broken", date, "10:00", "12:00")
		if IsPast(&e, now) {
			t.Errorf("event with date %q should not be past", date)
		}
	}
}

func TestCategorizePartition(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	events := []entity.Event{
		mkEvent("yesterday", "2026-08-31", "10:00", "12:00"),
		mkEvent("tomorrow", "2026-09-02", "10:00", "12:00"),
		mkEvent("this morning", "2026-09-01", "08:00", "09:00"),
		mkEvent("this evening", "2026-09-01", "18:00", "20:00"),
	}

	got := Categorize(events, now)

	if len(got.Upcoming)+len(got.Past) != len(events) {
		t.Fatalf("partition lost events: %d upcoming + %d past != %d",
			len(got.Upcoming), len(got.Past), len(events))
	}
	if len(got.Upcoming) != 2 {
		t.Errorf("expected 2 upcoming, got %d", len(got.Upcoming))
	}
	if len(got.Past) != 2 {
		t.Errorf("expected 2 past, got %d", len(got.Past))
	}
}

func TestCategorizeUpcomingSoonestFirst(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	events := []entity.Event{
		mkEvent("later", "2026-09-10", "10:00", "12:00"),
		mkEvent("soonest", "2026-09-02", "10:00", "12:00"),
		mkEvent("same day later", "2026-09-02", "15:00", "17:00"),
	}

	got := Categorize(events, now)

	want := []string{"soonest", "same day later", "later"}
	for i, title := range want {
		if got.Upcoming[i].Title != title {
			t.Errorf("upcoming[%d] = %q, want %q", i, got.Upcoming[i].Title, title)
		}
	}
}

func TestCategorizePastMostRecentFirst(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	events := []entity.Event{
		mkEvent("oldest", "2026-08-01", "10:00", "12:00"),
		mkEvent("most recent", "2026-08-31", "10:00", "12:00"),
		mkEvent("middle", "2026-08-15", "10:00", "12:00"),
	}

	got := Categorize(events, now)

	want := []string{"most recent", "middle", "oldest"}
	for i, title := range want {
		if got.Past[i].Title != title {
			t.Errorf("past[%d] = %q, want %q", i, got.Past[i].Title, title)
		}
	}
}

func TestCategorizeEmpty(t *testing.T) {
	got := Categorize(nil, time.Now())
	if len(got.Upcoming) != 0 || len(got.Past) != 0 {
		t.Errorf("categorizing nothing should yield two empty lists")
	}
}

func TestSortChronologicallyMissingFromTime(t *testing.T) {
	loc := time.UTC
	events := []entity.Event{
		mkEvent("morning", "2026-09-02", "09:00", "10:00"),
		mkEvent("no time", "2026-09-02", "", ""),
	}

	got := SortChronologically(events, loc)

	// Missing fromTime sorts as midnight, before any timed event that day.
	if got[0].Title != "no time" {
		t.Errorf("event without a start time should sort first on its day, got %q", got[0].Title)
	}
}

func TestSortChronologicallyStable(t *testing.T) {
	loc := time.UTC
	events := []entity.Event{
		mkEvent("first inserted", "2026-09-02", "10:00", "12:00"),
		mkEvent("second inserted", "2026-09-02", "10:00", "12:00"),
	}

	got := SortChronologically(events, loc)

	if got[0].Title != "first inserted" || got[1].Title != "second inserted" {
		t.Errorf("equal keys should keep insertion order, got %q then %q", got[0].Title, got[1].Title)
	}
}

func TestSortChronologicallyDoesNotMutateInput(t *testing.T) {
	loc := time.UTC
	events := []entity.Event{
		mkEvent("b", "2026-09-10", "10:00", "12:00"),
		mkEvent("a", "2026-09-02", "10:00", "12:00"),
	}

	_ = SortChronologically(events, loc)

	if events[0].Title != "b" {
		t.Errorf("input slice was reordered")
	}
}
