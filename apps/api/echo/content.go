package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/event"
	"github.com/trezcool/huda/core/registration"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/task"
)

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	// WriteResponse acknowledges a row appended to a sheet.
	WriteResponse struct {
		Ack  sheet.Ack   `json:"ack"`
		Data interface{} `json:"data,omitempty"`
	}

	CalendarResponse struct {
		Year  int                 `json:"year"`
		Month int                 `json:"month"`
		Days  []event.CalendarDay `json:"days"`
	}
)

type contentApi struct {
	taskSvc         *task.Service
	courseSvc       *course.Service
	eventSvc        *event.Service
	registrationSvc *registration.Service
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := contentApi{
		taskSvc:         deps.TaskSvc,
		courseSvc:       deps.CourseSvc,
		eventSvc:        deps.EventSvc,
		registrationSvc: deps.RegistrationSvc,
	}

	// un-authed endpoints
	g.POST("/registrations", api.register)

	// authed endpoints
	g.GET("/events", api.calendar, jwt)

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.GET("/registrations", api.registrations)
	ag.POST("/events", api.createEvent)
	ag.GET("/classes/:class/tasks", api.classTasks)
	ag.POST("/tasks", api.createTask)
	ag.POST("/courses", api.createCourse)
}

// Handlers

func (api *contentApi) register(ctx echo.Context) error {
	var data registration.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to registration.Request")
	}
	ack, err := api.registrationSvc.Submit(reqContext(ctx), data)
	if err != nil {
		return errors.Wrap(err, "submitting registration")
	}
	return respondWritten(ctx, http.StatusCreated, ack, sheet.Registration, WriteResponse{Ack: ack})
}

func (api *contentApi) registrations(ctx echo.Context) error {
	reqs, err := api.registrationSvc.List(reqContext(ctx))
	if err != nil {
		return errors.Wrap(err, "listing registrations")
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *contentApi) calendar(ctx echo.Context) error {
	var m Month
	if err := m.Bind(ctx); err != nil {
		return err
	}
	days, err := api.eventSvc.Month(reqContext(ctx), m.Year, m.Month)
	if err != nil {
		return errors.Wrap(err, "building calendar")
	}
	return ctx.JSON(http.StatusOK, CalendarResponse{Year: m.Year, Month: int(m.Month), Days: days})
}

func (api *contentApi) createEvent(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	evt, ack, err := api.eventSvc.Create(reqContext(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return respondWritten(ctx, http.StatusCreated, ack, sheet.Events, WriteResponse{Ack: ack, Data: evt})
}

func (api *contentApi) classTasks(ctx echo.Context) error {
	tasks, err := api.taskSvc.List(reqContext(ctx), ctx.Param("class"))
	if err != nil {
		return errors.Wrap(err, "listing tasks")
	}
	if subject := ctx.QueryParam("subject"); subject != "" {
		tasks = task.FilterBySubject(tasks, subject)
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *contentApi) createTask(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	ack, err := api.taskSvc.Create(reqContext(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	name, _ := sheet.TasksFor(data.Class)
	return respondWritten(ctx, http.StatusCreated, ack, name, WriteResponse{Ack: ack})
}

func (api *contentApi) createCourse(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	ack, err := api.courseSvc.Create(reqContext(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return respondWritten(ctx, http.StatusCreated, ack, sheet.Courses, WriteResponse{Ack: ack})
}
