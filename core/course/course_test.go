package course_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/sheet"
	testutil "github.com/trezcool/huda/tests"
)

func TestFromRows(t *testing.T) {
	courses := course.FromRows([]sheet.Row{
		{"course_id": "C1", "title": "Tajweed", "step1": "Makharij", "step2": "", "step3": "Sifaat"},
		{"course_id": " ", "title": "no id"},
	})
	require.Len(t, courses, 1)
	assert.Equal(t, []string{"Makharij", "Sifaat"}, courses[0].Steps)
}

func TestQuizCourse_Grade(t *testing.T) {
	quiz, ok := course.QuizCourseByID("quiz_course_2")
	require.True(t, ok)

	tests := []struct {
		name    string
		answers []int
		want    course.Score
	}{
		{name: "all correct", answers: []int{1, 1, 1, 2, 0}, want: course.Score{Correct: 5, Total: 5, Percent: 100}},
		{name: "two wrong", answers: []int{1, 0, 1, 0, 0}, want: course.Score{Correct: 3, Total: 5, Percent: 60}},
		{name: "unanswered", answers: []int{1, -1}, want: course.Score{Correct: 1, Total: 5, Percent: 20}},
		{name: "none", want: course.Score{Total: 5}},
		{name: "extra answers ignored", answers: []int{1, 1, 1, 2, 0, 3, 3}, want: course.Score{Correct: 5, Total: 5, Percent: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, quiz.Grade(tc.answers))
		})
	}

	three := course.QuizCourse{Questions: make([]course.Question, 3)}
	assert.Equal(t, 67, three.Grade([]int{0, 0, 1}).Percent)
}

func TestService_Create(t *testing.T) {
	srv := testutil.NewSheetServer(t)
	validate, _ := testutil.NewValidator(t)
	svc := course.NewService(srv.Store, validate)
	ctx := context.Background()

	courses, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)

	ack, err := svc.Create(ctx, course.NewCourse{ID: " C1 ", Title: "Tajweed", Steps: []string{"Makharij", " ", "Sifaat"}})
	require.NoError(t, err)
	assert.True(t, ack.OK())
	assert.Equal(t, [][]string{{"C1", "Tajweed", "", "Makharij", "Sifaat", "", "", ""}}, srv.Rows(t, sheet.Courses))

	courses, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	for _, id := range []string{"C1", "video_course_1", "quiz_course_2"} {
		_, err = svc.Create(ctx, course.NewCourse{ID: id, Title: "Dup"})
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr), id)
		assert.Equal(t, course.ErrCourseExists, vErr.Err)
	}

	_, err = svc.Create(ctx, course.NewCourse{ID: "C2", Title: "Too long", Steps: []string{"1", "2", "3", "4", "5", "6"}})
	assert.Error(t, err)
}
