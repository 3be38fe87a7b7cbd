package user

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

var Roles = []Role{
	{Name: "Student", Value: RoleStudent},
	{Name: "Admin", Value: RoleAdmin},
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is a row of the credentials sheet.
// Students have a Class, admins have the Subjects they teach.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Class    string `json:"class,omitempty"`
	Subjects string `json:"subjects,omitempty"`
	password string
}

func FromRow(r sheet.Row) User {
	usr := User{
		Username: r.Get("username"),
		Name:     r.Get("full_name"),
		Role:     strings.ToLower(r.Get("role")),
		Class:    r.Get("class"),
		Subjects: r.Get("subjects"),
		password: r.Get("password"),
	}
	if usr.Name == "" {
		usr.Name = usr.Username
	}
	if usr.Role == "" {
		usr.Role = RoleStudent
	}
	return usr
}

// FromRows maps credential rows to users, skipping rows without a username.
func FromRows(rows []sheet.Row) []User {
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		if usr := FromRow(r); usr.Username != "" {
			users = append(users, usr)
		}
	}
	return users
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsStudent() bool {
	return !u.IsAdmin()
}

// Assignments parses what an admin teaches.
func (u User) Assignments() TeachingAssignments {
	return ParseTeachingAssignments(u.Subjects)
}

// InClass reports whether u is a student of class ("03" and "3" are the same class).
func (u User) InClass(class string) bool {
	if !u.IsStudent() {
		return false
	}
	return sameClass(u.Class, class)
}

// CheckPassword compares pwd with the stored password, which is either plain text or a bcrypt hash.
func (u User) CheckPassword(pwd string) bool {
	if isBcryptHash(u.password) {
		return bcrypt.CompareHashAndPassword([]byte(u.password), []byte(pwd)) == nil
	}
	return u.password != "" && subtle.ConstantTimeCompare([]byte(u.password), []byte(pwd)) == 1
}

func isBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	switch s[:4] {
	case "$2a$", "$2b$", "$2y$":
		return true
	}
	return false
}

func sameClass(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == b {
		return a != ""
	}
	return core.IsValidClass(a) && core.IsValidClass(b) && strings.TrimLeft(a, "0") == strings.TrimLeft(b, "0")
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum_"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin student"`
	Class    string `json:"class" validate:"required_if=Role student,omitempty,classid"`
	Subjects string `json:"subjects" validate:"required_if=Role admin"`
	Hash     bool   `json:"hash"` // store a bcrypt hash instead of the plain password
}

func (nu *NewUser) Clean() {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Name = core.CleanString(nu.Name)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.Class = core.CleanString(nu.Class)
	nu.Subjects = core.CleanString(nu.Subjects)
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
}

// Row lays out the user in credentials column order, hashing the password if asked to.
func (nu NewUser) Row() ([]string, error) {
	pwd := nu.Password
	if nu.Hash {
		hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		pwd = string(hash)
	}
	class, subjects := nu.Class, ""
	if nu.Role == RoleAdmin {
		class, subjects = "", nu.Subjects
	}
	return []string{nu.Username, pwd, nu.Name, nu.Role, class, subjects}, nil
}
