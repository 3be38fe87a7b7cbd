package user

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("a user with this username already exists")
)

type Service struct {
	store    sheet.Store
	validate *validator.Validate
}

func NewService(store sheet.Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

func (svc *Service) fetch(ctx context.Context, useCache bool) ([]User, error) {
	rows, err := svc.store.FetchSheet(ctx, sheet.Credentials, useCache)
	if err != nil {
		return nil, errors.Wrap(err, "fetching credentials")
	}
	return FromRows(rows), nil
}

// Authenticate checks username and password against the credentials sheet, read fresh.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	users, err := svc.fetch(ctx, false)
	if err != nil {
		return User{}, err
	}
	for _, usr := range users {
		if usr.Username == username {
			if usr.CheckPassword(password) {
				return usr, nil
			}
			break
		}
	}
	return User{}, ErrInvalidCredentials
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.fetch(ctx, true)
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	users, err := svc.fetch(ctx, true)
	if err != nil {
		return User{}, err
	}
	username = strings.TrimSpace(username)
	for _, usr := range users {
		if usr.Username == username {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

// StudentsInClass lists the students of class, in sheet order.
func (svc *Service) StudentsInClass(ctx context.Context, class string) ([]User, error) {
	if !core.IsValidClass(class) {
		return nil, sheet.ErrInvalidClass
	}
	users, err := svc.fetch(ctx, true)
	if err != nil {
		return nil, err
	}
	students := make([]User, 0)
	for _, usr := range users {
		if usr.InClass(class) {
			students = append(students, usr)
		}
	}
	return students, nil
}

// Create validates nu and appends it to the credentials sheet.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, sheet.Ack, error) {
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, sheet.Ack{}, err
	}

	users, err := svc.fetch(ctx, false)
	if err != nil {
		return User{}, sheet.Ack{}, err
	}
	for _, usr := range users {
		if strings.EqualFold(usr.Username, nu.Username) {
			return User{}, sheet.Ack{}, core.NewFieldError("username", ErrUsernameExists)
		}
	}

	row, err := nu.Row()
	if err != nil {
		return User{}, sheet.Ack{}, errors.Wrap(err, "hashing password")
	}
	ack, err := svc.store.AppendRow(ctx, sheet.Credentials, row)
	if err != nil {
		return User{}, ack, err
	}
	usr := FromRow(sheet.Row{
		"username": row[0], "password": row[1], "full_name": row[2],
		"role": row[3], "class": row[4], "subjects": row[5],
	})
	return usr, ack, nil
}
