// Package registration handles sign-up requests. They are reviewed by an admin,
// who then creates the account.
package registration

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

var nowFunc = time.Now // mockable

// Request is a sign-up request. Gmail is optional, it receives the acknowledgement.
type Request struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Gmail      string `json:"gmail" validate:"omitempty,email"`
	State      string `json:"state" validate:"required"`
	District   string `json:"district" validate:"required"`
	Place      string `json:"place" validate:"required"`
	PostOffice string `json:"post_office" validate:"required"`
	PinCode    string `json:"pin_code" validate:"required,pincode"`
	Date       string `json:"registration_date,omitempty"`
}

func (r *Request) Validate(validate *validator.Validate) error {
	r.Name = core.CleanString(r.Name)
	r.Phone = core.CleanString(r.Phone)
	r.Gmail = core.CleanString(r.Gmail, true /* lower */)
	r.State = core.CleanString(r.State)
	r.District = core.CleanString(r.District)
	r.Place = core.CleanString(r.Place)
	r.PostOffice = core.CleanString(r.PostOffice)
	r.PinCode = core.CleanString(r.PinCode)
	return validate.Struct(r)
}

// Row lays the request out in registration column order.
func (r Request) Row(on time.Time) []string {
	return []string{r.Name, r.Phone, r.Gmail, r.State, r.District, r.Place, r.PostOffice, r.PinCode, core.FormatDate(on)}
}

func FromRow(row sheet.Row) Request {
	return Request{
		Name:       row.Get("name"),
		Phone:      row.Get("phone"),
		Gmail:      row.Get("gmail"),
		State:      row.Get("state"),
		District:   row.Get("district"),
		Place:      row.Get("place"),
		PostOffice: row.Get("post_office"),
		PinCode:    row.Get("pin_code"),
		Date:       row.Get("registration_date"),
	}
}

type Service struct {
	store    sheet.Store
	validate *validator.Validate
	mailSvc  core.EmailService
	logger   core.Logger
}

func NewService(store sheet.Store, validate *validator.Validate, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{store: store, validate: validate, mailSvc: mailSvc, logger: logger}
}

// List returns the registration requests, oldest first.
func (svc *Service) List(ctx context.Context) ([]Request, error) {
	rows, err := svc.store.FetchSheet(ctx, sheet.Registration, false)
	if err != nil && !sheet.IsNotFound(err) {
		return nil, errors.Wrap(err, "fetching registrations")
	}
	reqs := make([]Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, FromRow(row))
	}
	return reqs, nil
}

// Submit records req. The applicant is acknowledged by email once the row is confirmed written.
func (svc *Service) Submit(ctx context.Context, req Request) (sheet.Ack, error) {
	if err := req.Validate(svc.validate); err != nil {
		return sheet.Ack{}, err
	}
	now := nowFunc()
	ack, err := svc.store.AppendRow(ctx, sheet.Registration, req.Row(now))
	if err != nil {
		return ack, err
	}
	if ack.OK() && req.Gmail != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: req.Name, Address: req.Gmail}},
			Subject:      "Registration received",
			TemplateName: "registration_received",
			TemplateData: map[string]string{"Name": req.Name, "Date": core.FormatDate(now), "Phone": req.Phone},
		})
	} else if !ack.OK() && svc.logger != nil {
		svc.logger.Warn(fmt.Sprintf("registration of %q: %s", req.Name, ack))
	}
	return ack, nil
}
