package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTasksFor(t *testing.T) {
	tests := []struct {
		class   string
		want    string
		wantErr error
	}{
		{class: "1", want: "1_tasks_master"},
		{class: " 3 ", want: "3_tasks_master"},
		{class: "10", want: "10_tasks_master"},
		{class: "03", want: "3_tasks_master"},
		{class: "0", wantErr: ErrInvalidClass},
		{class: "11", wantErr: ErrInvalidClass},
		{class: "", wantErr: ErrInvalidClass},
		{class: "three", wantErr: ErrInvalidClass},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			got, err := TasksFor(tt.class)
			if err != tt.wantErr {
				t.Errorf("TasksFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserSheets(t *testing.T) {
	name, err := ProgressFor("alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice_progress", name)

	name, err = ScheduleFor(" alice ")
	assert.NoError(t, err)
	assert.Equal(t, "alice_schedule", name)

	_, err = ProgressFor("  ")
	assert.Equal(t, ErrInvalidUsername, err)
}

func TestClasses(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, Classes())
}

func TestDefaultHeader(t *testing.T) {
	tests := []struct {
		name      string
		wantFirst string
		wantLen   int
	}{
		{name: Credentials, wantFirst: "username", wantLen: 6},
		{name: "4_tasks_master", wantFirst: "task_id", wantLen: 5},
		{name: Courses, wantFirst: "course_id", wantLen: 8},
		{name: Events, wantFirst: "event_id", wantLen: 6},
		{name: Registration, wantFirst: "name", wantLen: 9},
		{name: "alice_progress", wantFirst: "item_id", wantLen: 5},
		{name: "alice_schedule", wantFirst: "day", wantLen: 11},
		{name: "42_tasks_master"},
		{name: "_progress"},
		{name: "random"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := DefaultHeader(tt.name)
			if tt.wantLen == 0 {
				assert.Nil(t, header)
				return
			}
			assert.Len(t, header, tt.wantLen)
			assert.Equal(t, tt.wantFirst, header[0])
		})
	}

	// callers get their own copy
	h := DefaultHeader(Events)
	h[0] = "id"
	assert.Equal(t, "event_id", DefaultHeader(Events)[0])
}

func TestRow_Get(t *testing.T) {
	r := Row{"title": "  Algebra ", "subject": ""}
	assert.Equal(t, "Algebra", r.Get("title"))
	assert.Equal(t, "", r.Get("missing"))
	assert.Equal(t, "General", r.GetOr("subject", "General"))
	assert.Equal(t, "Algebra", r.GetOr("title", "General"))
}
