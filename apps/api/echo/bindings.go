package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/event"
)

var monthParam = "month"

// Month is a calendar month given as `?month=YYYY-MM`, the current month by default.
type Month struct {
	Year  int
	Month time.Month
}

func (m *Month) Bind(ctx echo.Context) error {
	now := nowFunc()
	m.Year, m.Month = now.Year(), now.Month()

	val := ctx.QueryParam(monthParam)
	if val == "" {
		return nil
	}
	y, mon, err := event.ParseMonth(val)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: monthParam, Error: "month must be formatted as YYYY-MM"})
	}
	m.Year, m.Month = y, mon
	return nil
}
