package progress

import (
	"time"

	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/task"
)

type (
	// TaskView is a task with its derived status.
	TaskView struct {
		task.Task
		Status      TaskStatus `json:"status"`
		CompletedOn string     `json:"completed_on,omitempty"`
		Grade       string     `json:"grade,omitempty"`
	}

	SubjectCard struct {
		Subject string `json:"subject"`
		SubjectTotals
		Tasks []TaskView `json:"tasks"`
	}

	// Board is the task dashboard of a student.
	Board struct {
		Subjects []SubjectCard `json:"subjects"`
		Counts   Counts        `json:"counts"`
		Overdue  int           `json:"overdue"`
	}

	// CourseKind tells how a course is taken.
	CourseKind string

	CourseView struct {
		Kind        CourseKind `json:"kind"`
		ID          string     `json:"course_id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Completed   bool       `json:"completed"`
		Grade       string     `json:"grade,omitempty"`
	}

	CourseBoard struct {
		Courses []CourseView `json:"courses"`
		Counts  CourseCounts `json:"counts"`
	}
)

const (
	KindText  CourseKind = "text"
	KindVideo CourseKind = "video"
	KindQuiz  CourseKind = "quiz"
)

// Board groups tasks by subject with their status and per-subject totals.
func (r Reconciler) Board(tasks []task.Task, progress []Record, ref time.Time) Board {
	totals := r.subjectTotals(tasks, progress)
	b := Board{
		Subjects: make([]SubjectCard, 0, len(totals)),
		Counts:   TaskCounts(tasks, progress),
	}
	for i, g := range GroupBySubject(tasks) {
		card := SubjectCard{Subject: g.Subject, SubjectTotals: totals[i].SubjectTotals}
		for _, t := range g.Tasks {
			view := TaskView{Task: t, Status: r.Classify(t, progress, ref)}
			if rec, ok := Completion(progress, t.ID, task.ItemType); ok {
				view.CompletedOn = rec.CompletionDate
				view.Grade = rec.Grade
			}
			if view.Status == Overdue {
				b.Overdue++
			}
			card.Tasks = append(card.Tasks, view)
		}
		b.Subjects = append(b.Subjects, card)
	}
	return b
}

// Courses lists remote and bundled courses with their completion state.
func Courses(courses []course.Course, progress []Record) CourseBoard {
	cb := CourseBoard{
		Courses: make([]CourseView, 0, len(courses)+len(course.VideoCourses)+len(course.QuizCourses)),
		Counts:  CountCourses(courses, course.VideoCourses, course.QuizCourses, progress),
	}
	add := func(kind CourseKind, id, title, desc string) {
		view := CourseView{Kind: kind, ID: id, Title: title, Description: desc}
		if rec, ok := Completion(progress, id, course.ItemType); ok {
			view.Completed = true
			view.Grade = rec.Grade
		}
		cb.Courses = append(cb.Courses, view)
	}
	for _, c := range courses {
		add(KindText, c.ID, c.Title, c.Description)
	}
	for _, c := range course.VideoCourses {
		add(KindVideo, c.ID, c.Title, c.Description)
	}
	for _, c := range course.QuizCourses {
		add(KindQuiz, c.ID, c.Title, c.Description)
	}
	return cb
}
