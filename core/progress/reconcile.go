package progress

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/task"
)

// TaskStatus is the derived state of a task for one student.
type TaskStatus int

const (
	Pending TaskStatus = iota
	DueSoon
	DueToday
	Overdue
	Completed
)

var taskStatusNames = [...]string{"pending", "due_soon", "due_today", "overdue", "completed"}

func (s TaskStatus) String() string {
	if s < Pending || s > Completed {
		return "unknown"
	}
	return taskStatusNames[s]
}

func (s TaskStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *TaskStatus) UnmarshalText(text []byte) error {
	for i, name := range taskStatusNames {
		if name == string(text) {
			*s = TaskStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown task status %q", text)
}

type (
	// Reconciler holds the product knobs of reconciliation.
	// PointsCap <= 0 leaves earned points uncapped.
	Reconciler struct {
		DueSoonDays int
		PointsCap   int
	}

	SubjectGroup struct {
		Subject string
		Tasks   []task.Task
	}

	SubjectTotals struct {
		TotalTasks     int `json:"total_tasks"`
		CompletedTasks int `json:"completed_tasks"`
		EarnedPoints   int `json:"earned_points"`
	}

	Counts struct {
		Completed int `json:"completed"`
		Pending   int `json:"pending"`
		Total     int `json:"total"`
	}

	CourseCounts struct {
		Completed  int `json:"completed"`
		InProgress int `json:"in_progress"`
		Total      int `json:"total"`
	}

	itemKey struct {
		id, typ string
	}
)

// DefaultReconciler uses a 3 day due-soon window and uncapped points.
var DefaultReconciler = Reconciler{DueSoonDays: 3}

func NewReconciler(conf core.ProgressConfig) Reconciler {
	return Reconciler{DueSoonDays: conf.DueSoonDays, PointsCap: conf.PointsCap}
}

// completions indexes the first complete record of every (item_id, item_type).
func completions(progress []Record) map[itemKey]Record {
	idx := make(map[itemKey]Record, len(progress))
	for _, r := range progress {
		if !r.IsComplete() {
			continue
		}
		k := itemKey{strings.TrimSpace(r.ItemID), strings.TrimSpace(r.ItemType)}
		if _, ok := idx[k]; !ok {
			idx[k] = r
		}
	}
	return idx
}

// IsComplete reports whether any record marks itemID of itemType complete.
func IsComplete(progress []Record, itemID, itemType string) bool {
	_, ok := Completion(progress, itemID, itemType)
	return ok
}

// Completion returns the first record marking itemID of itemType complete.
func Completion(progress []Record, itemID, itemType string) (Record, bool) {
	itemID, itemType = strings.TrimSpace(itemID), strings.TrimSpace(itemType)
	for _, r := range progress {
		if r.IsComplete() && strings.TrimSpace(r.ItemID) == itemID && strings.TrimSpace(r.ItemType) == itemType {
			return r, true
		}
	}
	return Record{}, false
}

// Classify derives the status of t at ref. Precedence: Completed, Overdue, DueToday, DueSoon, Pending.
// Due dates are read in ref's location; an unparseable due date leaves the task Pending.
func (r Reconciler) Classify(t task.Task, progress []Record, ref time.Time) TaskStatus {
	if IsComplete(progress, t.ID, task.ItemType) {
		return Completed
	}
	due, err := t.Due(ref.Location())
	if err != nil {
		return Pending
	}
	return r.classifyDue(due, ref)
}

func (r Reconciler) classifyDue(due, ref time.Time) TaskStatus {
	today := core.StartOfDay(ref)
	if core.EndOfDay(due).Before(today) {
		return Overdue
	}
	days := core.DaysBetween(today, due)
	switch {
	case days == 0:
		return DueToday
	case days > 0 && days < r.DueSoonDays:
		// the window ends where the last day of it starts
		return DueSoon
	default:
		return Pending
	}
}

// GroupBySubject groups tasks by subject in first-seen order, keeping task order within groups.
func GroupBySubject(tasks []task.Task) []SubjectGroup {
	var groups []SubjectGroup
	pos := make(map[string]int)
	for _, t := range tasks {
		subject := t.SubjectOrDefault()
		i, ok := pos[subject]
		if !ok {
			i = len(groups)
			pos[subject] = i
			groups = append(groups, SubjectGroup{Subject: subject})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// SubjectPoints aggregates per subject. A task completed several times counts once,
// with the grade of its first completion.
func (r Reconciler) SubjectPoints(tasks []task.Task, progress []Record) map[string]SubjectTotals {
	totals := make(map[string]SubjectTotals)
	for _, g := range r.subjectTotals(tasks, progress) {
		totals[g.subject] = g.SubjectTotals
	}
	return totals
}

type subjectTotals struct {
	subject string
	SubjectTotals
}

func (r Reconciler) subjectTotals(tasks []task.Task, progress []Record) []subjectTotals {
	done := completions(progress)
	groups := GroupBySubject(tasks)
	res := make([]subjectTotals, 0, len(groups))
	for _, g := range groups {
		st := subjectTotals{subject: g.Subject}
		counted := make(map[string]bool, len(g.Tasks))
		for _, t := range g.Tasks {
			st.TotalTasks++
			if counted[t.ID] {
				continue
			}
			if rec, ok := done[itemKey{t.ID, task.ItemType}]; ok {
				counted[t.ID] = true
				st.CompletedTasks++
				st.EarnedPoints += r.points(rec)
			}
		}
		res = append(res, st)
	}
	return res
}

func (r Reconciler) points(rec Record) int {
	p := rec.Points()
	if r.PointsCap > 0 && p > r.PointsCap {
		return r.PointsCap
	}
	return p
}

// WeeklyActivity counts complete records per day, Monday to Sunday, of the week containing ref.
// Records whose completion date cannot be parsed are skipped.
func WeeklyActivity(progress []Record, ref time.Time) [7]int {
	var week [7]int
	start := core.StartOfWeek(ref)
	end := start.AddDate(0, 0, 7)
	for _, rec := range progress {
		if !rec.IsComplete() {
			continue
		}
		on, err := core.ParseDate(rec.CompletionDate, ref.Location())
		if err != nil || on.Before(start) || !on.Before(end) {
			continue
		}
		for day := 0; day < 7; day++ {
			if on.Before(start.AddDate(0, 0, day+1)) {
				week[day]++
				break
			}
		}
	}
	return week
}

// TaskCounts counts the tasks of the master list that are complete.
func TaskCounts(tasks []task.Task, progress []Record) Counts {
	done := completions(progress)
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if _, ok := done[itemKey{t.ID, task.ItemType}]; ok {
			c.Completed++
		}
	}
	c.Pending = c.Total - c.Completed
	return c
}

// CountCourses counts every course (remote and bundled) and how many of them are complete.
func CountCourses(courses []course.Course, videos []course.VideoCourse, quizzes []course.QuizCourse, progress []Record) CourseCounts {
	done := completions(progress)
	ids := make([]string, 0, len(courses)+len(videos)+len(quizzes))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	for _, c := range videos {
		ids = append(ids, c.ID)
	}
	for _, c := range quizzes {
		ids = append(ids, c.ID)
	}

	cc := CourseCounts{Total: len(ids)}
	for _, id := range ids {
		if _, ok := done[itemKey{id, course.ItemType}]; ok {
			cc.Completed++
		}
	}
	cc.InProgress = cc.Total - cc.Completed
	return cc
}

// OverdueTasks returns the incomplete tasks whose due date has passed at ref.
func (r Reconciler) OverdueTasks(tasks []task.Task, progress []Record, ref time.Time) []task.Task {
	var overdue []task.Task
	for _, t := range tasks {
		if r.Classify(t, progress, ref) == Overdue {
			overdue = append(overdue, t)
		}
	}
	return overdue
}

// Percent returns part/total as a rounded percentage, 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
