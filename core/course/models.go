package course

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

// ItemType is the progress item type shared by every kind of course.
const ItemType = "course"

// MaxSteps is the number of step columns of the courses master sheet.
const MaxSteps = 5

type (
	// Course is a text course from the courses master sheet.
	Course struct {
		ID          string   `json:"course_id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Steps       []string `json:"steps"`
	}

	Video struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}

	VideoCourse struct {
		ID          string  `json:"course_id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Videos      []Video `json:"videos"`
	}

	Question struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Correct  int      `json:"-"`
	}

	QuizCourse struct {
		ID          string     `json:"course_id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Questions   []Question `json:"questions"`
	}

	// Score is the result of a submitted quiz.
	Score struct {
		Correct int `json:"correct"`
		Total   int `json:"total"`
		Percent int `json:"percent"`
	}
)

func FromRow(r sheet.Row) Course {
	c := Course{
		ID:          r.Get("course_id"),
		Title:       r.Get("title"),
		Description: r.Get("description"),
	}
	for i := 1; i <= MaxSteps; i++ {
		if step := r.Get("step" + strconv.Itoa(i)); step != "" {
			c.Steps = append(c.Steps, step)
		}
	}
	return c
}

// FromRows maps sheet rows to courses, skipping rows without a course_id.
func FromRows(rows []sheet.Row) []Course {
	courses := make([]Course, 0, len(rows))
	for _, r := range rows {
		if c := FromRow(r); c.ID != "" {
			courses = append(courses, c)
		}
	}
	return courses
}

// Grade scores answers (option indexes, -1 when unanswered). Missing answers count as wrong.
func (q QuizCourse) Grade(answers []int) Score {
	s := Score{Total: len(q.Questions)}
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.Correct {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
	}
	return s
}

// NewCourse contains information needed to add a text course.
type NewCourse struct {
	ID          string   `json:"course_id" validate:"required,printascii,max=64"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Steps       []string `json:"steps" validate:"max=5"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.ID = core.CleanString(nc.ID)
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	steps := make([]string, 0, len(nc.Steps))
	for _, s := range nc.Steps {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	nc.Steps = steps
	return validate.Struct(nc)
}

// Row lays the course out in courses master column order.
func (nc NewCourse) Row() []string {
	row := []string{nc.ID, nc.Title, nc.Description}
	for i := 0; i < MaxSteps; i++ {
		var step string
		if i < len(nc.Steps) {
			step = nc.Steps[i]
		}
		row = append(row, step)
	}
	return row
}
