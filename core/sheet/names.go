// Package sheet describes the remote row store: sheet naming conventions, rows, write
// acknowledgements and the Store contract implemented by storage/sheets.
package sheet

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
)

// Shared sheets
const (
	Credentials  = "user_credentials"
	Courses      = "courses_master"
	Events       = "events_master"
	Registration = "registration"
)

const (
	tasksSuffix    = "_tasks_master"
	progressSuffix = "_progress"
	scheduleSuffix = "_schedule"
)

var (
	ErrInvalidClass    = errors.New("class must be a number between 1 and 10")
	ErrInvalidUsername = errors.New("username is required")

	credentialsHeader  = []string{"username", "password", "full_name", "role", "class", "subjects"}
	tasksHeader        = []string{"task_id", "title", "description", "subject", "due_date"}
	coursesHeader      = []string{"course_id", "title", "description", "step1", "step2", "step3", "step4", "step5"}
	eventsHeader       = []string{"event_id", "title", "date", "time", "description", "place"}
	registrationHeader = []string{"name", "phone", "gmail", "state", "district", "place", "post_office", "pin_code", "registration_date"}
	progressHeader     = []string{"item_id", "item_type", "status", "completion_date", "grade"}
	scheduleHeader     = []string{"day", "period_1", "period_2", "period_3", "period_4", "period_5", "period_6", "period_7", "period_8", "period_9", "period_10"}
)

// TasksFor returns the name of the tasks master sheet of class.
func TasksFor(class string) (string, error) {
	class = strings.TrimSpace(class)
	if !core.IsValidClass(class) {
		return "", ErrInvalidClass
	}
	n, _ := strconv.Atoi(class)
	return strconv.Itoa(n) + tasksSuffix, nil
}

// ProgressFor returns the name of the append-only progress log of username.
func ProgressFor(username string) (string, error) {
	return userSheet(username, progressSuffix)
}

// ScheduleFor returns the name of the timetable sheet of username.
func ScheduleFor(username string) (string, error) {
	return userSheet(username, scheduleSuffix)
}

func userSheet(username, suffix string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}
	return username + suffix, nil
}

// Classes lists every class number owning a tasks sheet.
func Classes() []string {
	classes := make([]string, 0, core.MaxClass-core.MinClass+1)
	for c := core.MinClass; c <= core.MaxClass; c++ {
		classes = append(classes, strconv.Itoa(c))
	}
	return classes
}

// DefaultHeader returns the column order callers write rows in for the sheet, or nil if name
// follows no known convention.
func DefaultHeader(name string) []string {
	var header []string
	switch {
	case name == Credentials:
		header = credentialsHeader
	case name == Courses:
		header = coursesHeader
	case name == Events:
		header = eventsHeader
	case name == Registration:
		header = registrationHeader
	case strings.HasSuffix(name, tasksSuffix):
		if core.IsValidClass(strings.TrimSuffix(name, tasksSuffix)) {
			header = tasksHeader
		}
	case strings.HasSuffix(name, progressSuffix) && len(name) > len(progressSuffix):
		header = progressHeader
	case strings.HasSuffix(name, scheduleSuffix) && len(name) > len(scheduleSuffix):
		header = scheduleHeader
	}
	if header == nil {
		return nil
	}
	return append([]string(nil), header...)
}
