package service

import (
	"strconv"
	"strings"
	"time"

	"volunteer-events-api/modules/event/entity"
)

// FormMode selects between the creation and edit validation passes. The two
// passes are identical except for the past-date rule: creation hard-blocks,
// edit requires an explicit override confirmation.
type FormMode int

const (
	FormModeCreate FormMode = iota
	FormModeEdit
)

// EventForm carries the raw form fields for creation and edit.
// MaxAttendees stays a string so the empty-string-means-unlimited
// normalization is explicit.
type EventForm struct {
	Title        string
	Description  string
	Location     string
	CreatorName  string
	Date         string
	FromTime     string
	ToTime       string
	Category     string
	MaxAttendees string
}

// FormResult is the outcome of a validation pass. Errors maps field name to
// message; an empty map means valid. MaxAttendees is the normalized capacity
// (nil = unlimited). NeedsPastDateConfirm is set only in edit mode when the
// date is in the past and everything else checks out.
type FormResult struct {
	Errors               map[string]string
	MaxAttendees         *int
	Category             entity.Category
	NeedsPastDateConfirm bool
}

func (r FormResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateEventForm runs the field-level checks shared by the creation and
// edit forms.
func ValidateEventForm(form EventForm, now time.Time, mode FormMode) FormResult {
	result := FormResult{Errors: map[string]string{}}

	if strings.TrimSpace(form.Title) == "" {
		result.Errors["title"] = "Event title is required"
	}
	if strings.TrimSpace(form.CreatorName) == "" {
		result.Errors["creator_name"] = "Your name is required"
	}
	if strings.TrimSpace(form.Date) == "" {
		result.Errors["date"] = "Event date is required"
	}
	if strings.TrimSpace(form.FromTime) == "" {
		result.Errors["from_time"] = "Start time is required"
	}
	if strings.TrimSpace(form.ToTime) == "" {
		result.Errors["to_time"] = "End time is required"
	}
	if strings.TrimSpace(form.Location) == "" {
		result.Errors["location"] = "Location is required"
	}
	if strings.TrimSpace(form.Description) == "" {
		result.Errors["description"] = "Description is required"
	}

	// Zero-padded 24-hour HH:MM makes lexicographic comparison valid.
	if strings.TrimSpace(form.FromTime) != "" && strings.TrimSpace(form.ToTime) != "" && form.FromTime >= form.ToTime {
		result.Errors["to_time"] = "End time must be after start time"
	}

	if strings.TrimSpace(form.Date) != "" {
		selected, ok := localDateTime(form.Date, "", now.Location())
		if !ok {
			result.Errors["date"] = "Event date is invalid"
		} else {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			if selected.Before(today) {
				if mode == FormModeCreate {
					result.Errors["date"] = "Event date cannot be in the past"
				} else {
					result.NeedsPastDateConfirm = true
				}
			}
		}
	}

	result.Category = entity.CategoryTabling
	if form.Category != "" {
		category := entity.Category(form.Category)
		if !category.Valid() {
			result.Errors["category"] = "Unknown event category"
		} else {
			result.Category = category
		}
	}

	// Empty string normalizes to unlimited, not zero.
	if trimmed := strings.TrimSpace(form.MaxAttendees); trimmed != "" {
		n, err := strconv.Atoi(trimmed)
		if err != nil || n <= 0 {
			result.Errors["max_attendees"] = "Max attendees must be a positive number"
		} else {
			result.MaxAttendees = &n
		}
	}

	return result
}
