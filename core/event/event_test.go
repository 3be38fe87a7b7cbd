package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/huda/core/sheet"
	testutil "github.com/trezcool/huda/tests"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		first string
		last  string
	}{
		{name: "starts on wednesday", year: 2024, month: time.May, first: "2024-04-28", last: "2024-06-08"},
		{name: "starts on sunday", year: 2024, month: time.September, first: "2024-09-01", last: "2024-10-12"},
		{name: "leap february", year: 2024, month: time.February, first: "2024-01-28", last: "2024-03-09"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grid := MonthGrid(tc.year, tc.month, time.UTC)
			assert.Equal(t, time.Sunday, grid[0].Weekday())
			assert.Equal(t, tc.first, grid[0].Format("2006-01-02"))
			assert.Equal(t, tc.last, grid[GridDays-1].Format("2006-01-02"))
		})
	}
}

func TestCalendar(t *testing.T) {
	events := []Event{
		{ID: "1", Title: "Eid", Date: "2024-05-15"},
		{ID: "2", Title: "Meeting", Date: "2024-05-15T09:00:00"},
		{ID: "3", Title: "Exam", Date: "2024-06-03"},
		{ID: "4", Title: "Broken", Date: "soon"},
	}
	today := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	days := Calendar(events, 2024, time.May, today)
	require.Len(t, days, GridDays)
	assert.False(t, days[0].InMonth)
	assert.True(t, days[3].InMonth)

	eid := days[17]
	assert.Equal(t, "2024-05-15", eid.Date)
	assert.True(t, eid.Today)
	require.Len(t, eid.Events, 2)
	assert.Equal(t, "Eid", eid.Events[0].Title)

	exam := days[36]
	assert.Equal(t, "2024-06-03", exam.Date)
	assert.False(t, exam.InMonth)
	assert.Len(t, exam.Events, 1)

	assert.Empty(t, OnDay(events, time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)))
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth(" 2024-02 ")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.February, m)

	_, _, err = ParseMonth("2024-13")
	assert.Error(t, err)
}

func TestService(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = time.Now })

	srv := testutil.NewSheetServer(t)
	validate, _ := testutil.NewValidator(t)
	svc := NewService(srv.Store, validate)
	ctx := context.Background()

	events, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	evt, ack, err := svc.Create(ctx, NewEvent{Title: " Eid prayer ", Date: "2024-06-16", Time: "07:00", Place: "Masjid"})
	require.NoError(t, err)
	assert.True(t, ack.OK())
	assert.Equal(t, "1715774400000", evt.ID)
	assert.Equal(t, [][]string{{"1715774400000", "Eid prayer", "2024-06-16", "07:00", "", "Masjid"}}, srv.Rows(t, sheet.Events))

	days, err := svc.Month(ctx, 2024, time.June)
	require.NoError(t, err)
	var found bool
	for _, d := range days {
		if d.Date == "2024-06-16" {
			found = len(d.Events) == 1 && d.Events[0].Place == "Masjid"
		}
	}
	assert.True(t, found)

	_, _, err = svc.Create(ctx, NewEvent{Title: "No date"})
	assert.Error(t, err)
	_, _, err = svc.Create(ctx, NewEvent{Title: "Bad date", Date: "16/06/2024"})
	assert.Error(t, err)
}
