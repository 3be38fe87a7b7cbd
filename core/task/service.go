package task

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

var ErrTaskExists = errors.New("a task with this ID already exists in this class")

type Service struct {
	store    sheet.Store
	validate *validator.Validate
}

func NewService(store sheet.Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

// List returns the tasks of class. A class without a tasks sheet has no tasks.
func (svc *Service) List(ctx context.Context, class string) ([]Task, error) {
	name, err := sheet.TasksFor(class)
	if err != nil {
		return nil, err
	}
	rows, err := svc.store.FetchSheet(ctx, name)
	if err != nil && !sheet.IsNotFound(err) {
		return nil, errors.Wrap(err, "fetching tasks")
	}
	return FromRows(rows), nil
}

// Create appends a task to the tasks sheet of its class.
func (svc *Service) Create(ctx context.Context, nt NewTask) (sheet.Ack, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return sheet.Ack{}, err
	}
	name, err := sheet.TasksFor(nt.Class)
	if err != nil {
		return sheet.Ack{}, err
	}
	rows, err := svc.store.FetchSheet(ctx, name, false)
	if err != nil && !sheet.IsNotFound(err) { // a missing sheet is created by the first write
		return sheet.Ack{}, errors.Wrap(err, "fetching tasks")
	}
	if _, ok := ByID(FromRows(rows), nt.ID); ok {
		return sheet.Ack{}, core.NewFieldError("task_id", ErrTaskExists)
	}
	return svc.store.AppendRow(ctx, name, nt.Row())
}
