package event

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core/sheet"
)

var nowFunc = time.Now // mockable

type Service struct {
	store    sheet.Store
	validate *validator.Validate
}

func NewService(store sheet.Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

func (svc *Service) List(ctx context.Context) ([]Event, error) {
	rows, err := svc.store.FetchSheet(ctx, sheet.Events)
	if err != nil && !sheet.IsNotFound(err) {
		return nil, errors.Wrap(err, "fetching events")
	}
	return FromRows(rows), nil
}

// Month returns the calendar of month, in the location of the server clock.
func (svc *Service) Month(ctx context.Context, year int, month time.Month) ([]CalendarDay, error) {
	events, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return Calendar(events, year, month, nowFunc()), nil
}

// Create appends an event, identified by its creation time in milliseconds.
func (svc *Service) Create(ctx context.Context, ne NewEvent) (Event, sheet.Ack, error) {
	if err := ne.Validate(svc.validate); err != nil {
		return Event{}, sheet.Ack{}, err
	}
	row := ne.Row(nowFunc())
	ack, err := svc.store.AppendRow(ctx, sheet.Events, row)
	if err != nil {
		return Event{}, ack, err
	}
	evt := Event{ID: row[0], Title: ne.Title, Date: ne.Date, Time: ne.Time, Description: ne.Description, Place: ne.Place}
	return evt, ack, nil
}
