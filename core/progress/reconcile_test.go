package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/task"
)

var ref = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC) // a Wednesday

func done(id, typ, on, grade string) Record {
	return Record{ItemID: id, ItemType: typ, Status: StatusComplete, CompletionDate: on, Grade: grade}
}

func TestReconciler_Classify(t *testing.T) {
	tests := []struct {
		name     string
		due      string
		progress []Record
		want     TaskStatus
	}{
		{name: "yesterday", due: "2024-05-14", want: Overdue},
		{name: "last month", due: "2024-04-01", want: Overdue},
		{name: "today", due: "2024-05-15", want: DueToday},
		{name: "today with time", due: "2024-05-15T08:00:00Z", want: DueToday},
		{name: "tomorrow", due: "2024-05-16", want: DueSoon},
		{name: "in 2 days", due: "2024-05-17", want: DueSoon},
		{name: "in 3 days", due: "2024-05-18", want: Pending},
		{name: "in 4 days", due: "2024-05-19", want: Pending},
		{name: "unparseable", due: "someday", want: Pending},
		{name: "empty", due: "", want: Pending},
		{name: "completed overdue", due: "2024-05-01", progress: []Record{done("T", task.ItemType, "2024-05-02", "10")}, want: Completed},
		{name: "completed due today", due: "2024-05-15", progress: []Record{done("T", task.ItemType, "2024-05-15", "10")}, want: Completed},
		{name: "completion of another type", due: "2024-05-14", progress: []Record{done("T", course.ItemType, "2024-05-02", "10")}, want: Overdue},
		{
			name:     "incomplete record",
			due:      "2024-05-14",
			progress: []Record{{ItemID: "T", ItemType: task.ItemType, Status: "started"}},
			want:     Overdue,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tk := task.Task{ID: "T", DueDate: tc.due}
			assert.Equal(t, tc.want, DefaultReconciler.Classify(tk, tc.progress, ref))
		})
	}
}

func TestReconciler_Classify_location(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 14th is already the 15th in Kolkata
	local := time.Date(2024, 5, 14, 20, 0, 0, 0, time.UTC).In(kolkata)
	assert.Equal(t, DueToday, DefaultReconciler.Classify(task.Task{ID: "T", DueDate: "2024-05-15"}, nil, local))
	assert.Equal(t, Overdue, DefaultReconciler.Classify(task.Task{ID: "T", DueDate: "2024-05-14"}, nil, local))
}

func TestReconciler_Classify_dueSoonWindow(t *testing.T) {
	rec := Reconciler{DueSoonDays: 0}
	assert.Equal(t, Pending, rec.Classify(task.Task{ID: "T", DueDate: "2024-05-16"}, nil, ref))

	rec = Reconciler{DueSoonDays: 7}
	assert.Equal(t, DueSoon, rec.Classify(task.Task{ID: "T", DueDate: "2024-05-21"}, nil, ref))
	assert.Equal(t, Pending, rec.Classify(task.Task{ID: "T", DueDate: "2024-05-22"}, nil, ref))
}

func TestGroupBySubject(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Subject: "Math"},
		{ID: "2", Subject: "English"},
		{ID: "3", Subject: ""},
		{ID: "4", Subject: "Math"},
		{ID: "5", Subject: "  "},
	}
	groups := GroupBySubject(tasks)
	require.Len(t, groups, 3)

	assert.Equal(t, "Math", groups[0].Subject)
	assert.Equal(t, []string{"1", "4"}, ids(groups[0].Tasks))
	assert.Equal(t, "English", groups[1].Subject)
	assert.Equal(t, task.DefaultSubject, groups[2].Subject)
	assert.Equal(t, []string{"3", "5"}, ids(groups[2].Tasks))

	assert.Empty(t, GroupBySubject(nil))
}

func ids(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestReconciler_SubjectPoints(t *testing.T) {
	tasks := []task.Task{
		{ID: "A", Subject: "Math"},
		{ID: "B", Subject: "Math"},
		{ID: "C", Subject: "Math"},
		{ID: "D", Subject: "English"},
	}
	progress := []Record{
		done("A", task.ItemType, "2024-05-13", "40"),
		done("B", task.ItemType, "2024-05-14", "25pts"),
		done("A", task.ItemType, "2024-05-15", "90"), // resubmission counts once
		done("C", course.ItemType, "2024-05-14", "100"),
		{ItemID: "D", ItemType: task.ItemType, Status: "pending", Grade: "80"},
	}

	totals := DefaultReconciler.SubjectPoints(tasks, progress)
	assert.Equal(t, SubjectTotals{TotalTasks: 3, CompletedTasks: 2, EarnedPoints: 65}, totals["Math"])
	assert.Equal(t, SubjectTotals{TotalTasks: 1}, totals["English"])

	t.Run("idempotent on duplicates", func(t *testing.T) {
		dup := append(append([]Record{}, progress...), progress...)
		assert.Equal(t, totals, DefaultReconciler.SubjectPoints(tasks, dup))
	})

	t.Run("capped", func(t *testing.T) {
		capped := Reconciler{DueSoonDays: 3, PointsCap: 30}
		assert.Equal(t, 55, capped.SubjectPoints(tasks, progress)["Math"].EarnedPoints)
	})

	t.Run("grades", func(t *testing.T) {
		tests := map[string]int{"": 0, "abc": 0, "7.5": 7, " 12 ": 12, "-3": -3, "100%": 100}
		for grade, want := range tests {
			assert.Equal(t, want, Record{Grade: grade}.Points(), "grade %q", grade)
		}
	})
}

func TestWeeklyActivity(t *testing.T) {
	progress := []Record{
		done("a", task.ItemType, "2024-05-12T23:59:59Z", "1"), // previous Sunday
		done("b", task.ItemType, "2024-05-13T00:00:00Z", "1"), // Monday
		done("c", task.ItemType, "2024-05-13", "1"),
		done("d", course.ItemType, "2024-05-15", "1"),
		done("e", task.ItemType, "2024-05-19T23:59:59Z", "1"), // Sunday
		done("f", task.ItemType, "2024-05-20", "1"),           // next Monday
		done("g", task.ItemType, "not a date", "1"),
		{ItemID: "h", ItemType: task.ItemType, Status: "started", CompletionDate: "2024-05-14"},
	}

	assert.Equal(t, [7]int{2, 0, 1, 0, 0, 0, 1}, WeeklyActivity(progress, ref))
	assert.Equal(t, [7]int{}, WeeklyActivity(nil, ref))

	sunday := time.Date(2024, 5, 19, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, WeeklyActivity(progress, ref), WeeklyActivity(progress, sunday))
}

func TestCounts(t *testing.T) {
	tasks := []task.Task{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	progress := []Record{
		done("A", task.ItemType, "2024-05-13", "10"),
		done("A", task.ItemType, "2024-05-14", "10"),
		done("Z", task.ItemType, "2024-05-14", "10"), // no longer in the master list
		done("video_course_1", course.ItemType, "2024-05-14", "100"),
		done("C1", course.ItemType, "2024-05-14", "100"),
	}

	assert.Equal(t, Counts{Completed: 1, Pending: 2, Total: 3}, TaskCounts(tasks, progress))
	assert.Equal(t, Counts{}, TaskCounts(nil, progress))

	courses := []course.Course{{ID: "C1"}, {ID: "C2"}}
	cc := CountCourses(courses, course.VideoCourses, course.QuizCourses, progress)
	assert.Equal(t, 2+len(course.VideoCourses)+len(course.QuizCourses), cc.Total)
	assert.Equal(t, 2, cc.Completed)
	assert.Equal(t, cc.Total-2, cc.InProgress)

	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 0, Percent(5, 0))
}

func TestReconciler_Board(t *testing.T) {
	tasks := []task.Task{
		{ID: "T1", Subject: "Math", DueDate: "2024-05-14"},
		{ID: "T2", Subject: "English", DueDate: "2024-05-16"},
		{ID: "T3", Subject: "Math", DueDate: "2024-05-10"},
	}
	progress := []Record{done("T3", task.ItemType, "2024-05-09", "50")}

	b := DefaultReconciler.Board(tasks, progress, ref)
	require.Len(t, b.Subjects, 2)
	math := b.Subjects[0]
	assert.Equal(t, "Math", math.Subject)
	assert.Equal(t, SubjectTotals{TotalTasks: 2, CompletedTasks: 1, EarnedPoints: 50}, math.SubjectTotals)
	require.Len(t, math.Tasks, 2)
	assert.Equal(t, Overdue, math.Tasks[0].Status)
	assert.Equal(t, Completed, math.Tasks[1].Status)
	assert.Equal(t, "2024-05-09", math.Tasks[1].CompletedOn)
	assert.Equal(t, "50", math.Tasks[1].Grade)
	assert.Equal(t, DueSoon, b.Subjects[1].Tasks[0].Status)
	assert.Equal(t, Counts{Completed: 1, Pending: 2, Total: 3}, b.Counts)
	assert.Equal(t, 1, b.Overdue)

	assert.Equal(t, []task.Task{tasks[0]}, DefaultReconciler.OverdueTasks(tasks, progress, ref))
}

func TestCourses(t *testing.T) {
	courses := []course.Course{{ID: "C1", Title: "Tajweed"}}
	progress := []Record{done("quiz_course_1", course.ItemType, "2024-05-14", "80")}

	cb := Courses(courses, progress)
	require.Len(t, cb.Courses, 1+len(course.VideoCourses)+len(course.QuizCourses))
	assert.Equal(t, KindText, cb.Courses[0].Kind)
	assert.False(t, cb.Courses[0].Completed)

	last := cb.Courses[len(cb.Courses)-len(course.QuizCourses)]
	assert.Equal(t, KindQuiz, last.Kind)
	assert.Equal(t, "quiz_course_1", last.ID)
	assert.True(t, last.Completed)
	assert.Equal(t, "80", last.Grade)
	assert.Equal(t, 1, cb.Counts.Completed)
}
