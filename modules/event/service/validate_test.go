package service

import (
	"testing"
	"time"

	"volunteer-events-api/modules/event/entity"
)

func validForm() EventForm {
	return EventForm{
		Title:       "Beach Cleanup",
		Description: "Monthly cleanup at Ocean Beach",
		Location:    "Ocean Beach",
		CreatorName: "Jordan",
		Date:        "2026-09-15",
		FromTime:    "09:00",
		ToTime:      "12:00",
	}
}

var validateNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestValidateEventFormValid(t *testing.T) {
	result := ValidateEventForm(validForm(), validateNow, FormModeCreate)
	if !result.Valid() {
		t.Fatalf("expected valid form, got errors: %v", result.Errors)
	}
	if result.Category != entity.CategoryTabling {
		t.Errorf("empty category should default to tabling, got %q", result.Category)
	}
	if result.MaxAttendees != nil {
		t.Errorf("empty max attendees should normalize to nil, got %d", *result.MaxAttendees)
	}
}

func TestValidateEventFormRequiredFields(t *testing.T) {
	result := ValidateEventForm(EventForm{}, validateNow, FormModeCreate)

	for _, field := range []string{"title", "creator_name", "date", "from_time", "to_time", "location", "description"} {
		if _, ok := result.Errors[field]; !ok {
			t.Errorf("missing error for required field %q", field)
		}
	}
}

func TestValidateEventFormWhitespaceOnly(t *testing.T) {
	form := validForm()
	form.Title = "   "
	result := ValidateEventForm(form, validateNow, FormModeCreate)
	if _, ok := result.Errors["title"]; !ok {
		t.Errorf("whitespace-only title should fail the required check")
	}
}

func TestValidateEventFormWhitespaceOnlySchedule(t *testing.T) {
	form := validForm()
	form.Date = "   "
	form.FromTime = " "
	form.ToTime = "\t"
	result := ValidateEventForm(form, validateNow, FormModeCreate)

	if result.Errors["date"] != "Event date is required" {
		t.Errorf("whitespace-only date: got %q", result.Errors["date"])
	}
	if result.Errors["from_time"] != "Start time is required" {
		t.Errorf("whitespace-only start time: got %q", result.Errors["from_time"])
	}
	if result.Errors["to_time"] != "End time is required" {
		t.Errorf("whitespace-only end time: got %q", result.Errors["to_time"])
	}
}

func TestValidateEventFormTimeOrdering(t *testing.T) {
	form := validForm()
	form.FromTime = "12:00"
	form.ToTime = "09:00"
	result := ValidateEventForm(form, validateNow, FormModeCreate)
	if result.Errors["to_time"] != "End time must be after start time" {
		t.Errorf("reversed times should fail, got %v", result.Errors)
	}

	form.ToTime = "12:00"
	result = ValidateEventForm(form, validateNow, FormModeCreate)
	if _, ok := result.Errors["to_time"]; !ok {
		t.Errorf("equal start and end times should fail")
	}
}

func TestValidateEventFormPastDateCreate(t *testing.T) {
	form := validForm()
	form.Date = "2026-08-30"
	result := ValidateEventForm(form, validateNow, FormModeCreate)
	if result.Errors["date"] != "Event date cannot be in the past" {
		t.Errorf("past date should block creation, got %v", result.Errors)
	}
}

func TestValidateEventFormTodayIsNotPast(t *testing.T) {
	form := validForm()
	form.Date = "2026-09-01"
	result := ValidateEventForm(form, validateNow, FormModeCreate)
	if !result.Valid() {
		t.Errorf("today's date should be allowed on create, got %v", result.Errors)
	}
}

func TestValidateEventFormPastDateEditNeedsConfirm(t *testing.T) {
	form := validForm()
	form.Date = "2026-08-30"
	result := ValidateEventForm(form, validateNow, FormModeEdit)
	if !result.Valid() {
		t.Fatalf("past date on edit should not be a field error, got %v", result.Errors)
	}
	if !result.NeedsPastDateConfirm {
		t.Errorf("past date on edit should require confirmation")
	}
}

func TestValidateEventFormCategory(t *testing.T) {
	form := validForm()
	form.Category = "outreach"
	result := ValidateEventForm(form, validateNow, FormModeCreate)
	if result.Category != entity.CategoryOutreach {
		t.Errorf("category = %q, want outreach", result.Category)
	}

	form.Category = "bake-sale"
	result = ValidateEventForm(form, validateNow, FormModeCreate)
	if _, ok := result.Errors["category"]; !ok {
		t.Errorf("unknown category should fail")
	}
}

func TestValidateEventFormMaxAttendees(t *testing.T) {
	cases := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "  ", want: nil},
		{in: "25", want: intPtr(25)},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "lots", wantErr: true},
	}

	for _, tc := range cases {
		form := validForm()
		form.MaxAttendees = tc.in
		result := ValidateEventForm(form, validateNow, FormModeCreate)

		_, gotErr := result.Errors["max_attendees"]
		if gotErr != tc.wantErr {
			t.Errorf("max attendees %q: error = %v, want %v", tc.in, gotErr, tc.wantErr)
			continue
		}
		if tc.wantErr {
			continue
		}
		if (result.MaxAttendees == nil) != (tc.want == nil) {
			t.Errorf("max attendees %q: normalized = %v, want %v", tc.in, result.MaxAttendees, tc.want)
		} else if tc.want != nil && *result.MaxAttendees != *tc.want {
			t.Errorf("max attendees %q: normalized = %d, want %d", tc.in, *result.MaxAttendees, *tc.want)
		}
	}
}

func intPtr(n int) *int { return &n }
