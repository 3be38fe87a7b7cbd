// Package event holds the school calendar.
package event

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

// GridDays is the size of a month grid: 6 weeks starting on a Sunday.
const GridDays = 42

type (
	Event struct {
		ID          string `json:"event_id"`
		Title       string `json:"title"`
		Date        string `json:"date"`
		Time        string `json:"time,omitempty"`
		Description string `json:"description,omitempty"`
		Place       string `json:"place,omitempty"`
		Details     string `json:"details,omitempty"`
	}

	CalendarDay struct {
		Date    string  `json:"date"`
		InMonth bool    `json:"in_month"`
		Today   bool    `json:"today,omitempty"`
		Events  []Event `json:"events"`
	}
)

func FromRow(r sheet.Row) Event {
	return Event{
		ID:          r.Get("event_id"),
		Title:       r.GetOr("title", "Event"),
		Date:        r.Get("date"),
		Time:        r.Get("time"),
		Description: r.Get("description"),
		Place:       r.Get("place"),
		Details:     r.Get("details"),
	}
}

// FromRows maps rows to events, skipping rows without a date.
func FromRows(rows []sheet.Row) []Event {
	events := make([]Event, 0, len(rows))
	for _, r := range rows {
		if e := FromRow(r); e.Date != "" {
			events = append(events, e)
		}
	}
	return events
}

// On parses the event date in loc.
func (e Event) On(loc *time.Location) (time.Time, error) {
	return core.ParseDate(e.Date, loc)
}

// OnDay returns the events falling on the calendar day of day, in day's location.
func OnDay(events []Event, day time.Time) []Event {
	found := make([]Event, 0)
	for _, e := range events {
		on, err := e.On(day.Location())
		if err == nil && core.SameDay(on, day) {
			found = append(found, e)
		}
	}
	return found
}

// MonthGrid returns the 42 days displayed for month: from the Sunday on or before the 1st.
func MonthGrid(year int, month time.Month, loc *time.Location) [GridDays]time.Time {
	var grid [GridDays]time.Time
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	for i := range grid {
		grid[i] = start.AddDate(0, 0, i)
	}
	return grid
}

// Calendar lays events out on the month grid. today is flagged when it is displayed.
func Calendar(events []Event, year int, month time.Month, today time.Time) []CalendarDay {
	days := make([]CalendarDay, 0, GridDays)
	for _, d := range MonthGrid(year, month, today.Location()) {
		days = append(days, CalendarDay{
			Date:    core.FormatDate(d),
			InMonth: d.Month() == month,
			Today:   core.SameDay(d, today),
			Events:  OnDay(events, d),
		})
	}
	return days
}

// NewEvent contains information needed to add an event.
type NewEvent struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Place       string `json:"place"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Date = core.CleanString(ne.Date)
	ne.Time = core.CleanString(ne.Time)
	ne.Description = core.CleanString(ne.Description)
	ne.Place = core.CleanString(ne.Place)
	return validate.Struct(ne)
}

// Row lays the event out in events master column order, with the creation time in milliseconds as id.
func (ne NewEvent) Row(createdAt time.Time) []string {
	return []string{strconv.FormatInt(createdAt.UnixMilli(), 10), ne.Title, ne.Date, ne.Time, ne.Description, ne.Place}
}

// ParseMonth reads "YYYY-MM".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}
