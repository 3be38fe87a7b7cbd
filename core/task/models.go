package task

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

// DefaultSubject groups tasks without a subject.
const DefaultSubject = "General"

// ItemType is the progress item type of tasks.
const ItemType = "task"

type Task struct {
	ID          string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	DueDate     string `json:"due_date"`
}

// SubjectOrDefault returns the task subject, DefaultSubject when blank.
func (t Task) SubjectOrDefault() string {
	if s := strings.TrimSpace(t.Subject); s != "" {
		return s
	}
	return DefaultSubject
}

// Due parses the due date in loc.
func (t Task) Due(loc *time.Location) (time.Time, error) {
	return core.ParseDate(t.DueDate, loc)
}

func FromRow(r sheet.Row) Task {
	return Task{
		ID:          r.Get("task_id"),
		Title:       r.Get("title"),
		Description: r.Get("description"),
		Subject:     r.Get("subject"),
		DueDate:     r.Get("due_date"),
	}
}

// FromRows maps sheet rows to tasks, skipping rows without a task_id.
func FromRows(rows []sheet.Row) []Task {
	tasks := make([]Task, 0, len(rows))
	for _, r := range rows {
		if t := FromRow(r); t.ID != "" {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// ByID returns the task with id, if any.
func ByID(tasks []Task, id string) (Task, bool) {
	id = strings.TrimSpace(id)
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// FilterBySubject keeps tasks whose subject contains subject, case-insensitively.
func FilterBySubject(tasks []Task, subject string) []Task {
	subject = core.CleanString(subject, true /* lower */)
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if subject == "" || strings.Contains(strings.ToLower(t.Subject), subject) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// NewTask contains information needed to add a task to a class.
type NewTask struct {
	Class       string `json:"class" validate:"required,classid"`
	ID          string `json:"task_id" validate:"required,printascii,max=64"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject" validate:"required"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Class = core.CleanString(nt.Class)
	nt.ID = core.CleanString(nt.ID)
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	nt.Subject = core.CleanString(nt.Subject)
	nt.DueDate = core.CleanString(nt.DueDate)
	return validate.Struct(nt)
}

// Row lays the task out in tasks master column order.
func (nt NewTask) Row() []string {
	return []string{nt.ID, nt.Title, nt.Description, nt.Subject, nt.DueDate}
}
