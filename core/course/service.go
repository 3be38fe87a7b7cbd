package course

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

var ErrCourseExists = errors.New("a course with this ID already exists")

type Service struct {
	store    sheet.Store
	validate *validator.Validate
}

func NewService(store sheet.Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

// List returns the text courses of the courses master sheet.
func (svc *Service) List(ctx context.Context) ([]Course, error) {
	rows, err := svc.store.FetchSheet(ctx, sheet.Courses)
	if err != nil && !sheet.IsNotFound(err) {
		return nil, errors.Wrap(err, "fetching courses")
	}
	return FromRows(rows), nil
}

// Create appends a text course, refusing IDs already used by any course.
func (svc *Service) Create(ctx context.Context, nc NewCourse) (sheet.Ack, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return sheet.Ack{}, err
	}
	taken := map[string]bool{}
	for _, id := range CatalogIDs() {
		taken[id] = true
	}
	rows, err := svc.store.FetchSheet(ctx, sheet.Courses, false)
	if err != nil && !sheet.IsNotFound(err) {
		return sheet.Ack{}, errors.Wrap(err, "fetching courses")
	}
	for _, c := range FromRows(rows) {
		taken[c.ID] = true
	}
	if taken[nc.ID] {
		return sheet.Ack{}, core.NewFieldError("course_id", ErrCourseExists)
	}
	return svc.store.AppendRow(ctx, sheet.Courses, nc.Row())
}
