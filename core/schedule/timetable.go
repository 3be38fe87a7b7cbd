// Package schedule reads the weekly timetable of a user.
package schedule

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/huda/core/sheet"
)

const (
	Periods     = 10
	BreakPeriod = 6
	Free        = "Free"
)

var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type (
	Slot struct {
		Period  int    `json:"period"`
		Subject string `json:"subject"`
		Break   bool   `json:"break,omitempty"`
	}

	Day struct {
		Day   string `json:"day"`
		Slots []Slot `json:"slots"`
	}

	// Timetable is a week, Monday first. Found is false when the user has no schedule at all.
	Timetable struct {
		Found bool  `json:"found"`
		Days  []Day `json:"days"`
	}
)

// FromRows builds the week from schedule rows. Days are matched case-insensitively and
// missing days or periods are Free.
func FromRows(rows []sheet.Row) Timetable {
	tt := Timetable{Found: len(rows) > 0, Days: make([]Day, 0, len(Days))}
	for _, name := range Days {
		var row sheet.Row
		for _, r := range rows {
			if strings.ToLower(r.Get("day")) == name {
				row = r
				break
			}
		}
		day := Day{Day: strings.ToUpper(name[:1]) + name[1:], Slots: make([]Slot, 0, Periods)}
		for p := 1; p <= Periods; p++ {
			day.Slots = append(day.Slots, Slot{
				Period:  p,
				Subject: row.GetOr("period_"+strconv.Itoa(p), Free),
				Break:   p == BreakPeriod,
			})
		}
		tt.Days = append(tt.Days, day)
	}
	return tt
}

type Service struct {
	store sheet.Store
}

func NewService(store sheet.Store) *Service {
	return &Service{store: store}
}

// Get returns the timetable of username. A missing schedule sheet is an all-Free week.
func (svc *Service) Get(ctx context.Context, username string) (Timetable, error) {
	name, err := sheet.ScheduleFor(username)
	if err != nil {
		return Timetable{}, err
	}
	rows, err := svc.store.FetchSheet(ctx, name)
	if err != nil && !sheet.IsNotFound(err) {
		return Timetable{}, errors.Wrap(err, "fetching schedule")
	}
	return FromRows(rows), nil
}
