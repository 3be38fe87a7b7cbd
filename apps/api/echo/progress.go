package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/progress"
	"github.com/trezcool/huda/core/schedule"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/user"
)

type (
	SubmitTasksRequest struct {
		TaskIDs []string `json:"task_ids"`
	}

	QuizRequest struct {
		Answers []int `json:"answers"`
	}

	// ItemResponse is the outcome of one completion. Ack is only set when a row was sent.
	ItemResponse struct {
		ItemID  string           `json:"item_id"`
		Outcome progress.Outcome `json:"outcome"`
		Ack     *sheet.Ack       `json:"ack,omitempty"`
		Error   string           `json:"error,omitempty"`
	}

	SubmitTasksResponse struct {
		Results []ItemResponse `json:"results"`
	}

	QuizResponse struct {
		ItemResponse
		Score course.Score `json:"score"`
	}
)

func newItemResponse(res progress.ItemResult) ItemResponse {
	resp := ItemResponse{ItemID: res.ItemID, Outcome: res.Outcome, Error: res.Error()}
	if res.Outcome == progress.Submitted || res.Outcome == progress.AckUnknown || res.Ack.Kind == sheet.AckFailure {
		ack := res.Ack
		resp.Ack = &ack
	}
	return resp
}

// batchStatus is 200 unless every item ended the same way without being submitted.
func batchStatus(results []progress.ItemResult) int {
	if len(results) == 0 {
		return http.StatusOK
	}
	first := results[0].Outcome
	for _, res := range results[1:] {
		if res.Outcome != first {
			return http.StatusOK
		}
	}
	switch first {
	case progress.AlreadyCompleted:
		return http.StatusConflict
	case progress.Rejected:
		return http.StatusBadRequest
	case progress.AckUnknown:
		return http.StatusAccepted
	case progress.Failed:
		for _, res := range results {
			if !sheet.IsRejectedWrite(res.Err) {
				return http.StatusBadGateway
			}
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

type progressApi struct {
	svc         *progress.Service
	userSvc     *user.Service
	scheduleSvc *schedule.Service
	store       sheet.Store
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := progressApi{
		svc:         deps.ProgressSvc,
		userSvc:     deps.UserSvc,
		scheduleSvc: deps.ScheduleSvc,
		store:       deps.Store,
	}

	mg := g.Group("/me", jwt)
	mg.GET("/tasks", api.taskBoard, classMiddleware())
	mg.POST("/tasks/submit", api.submitTasks, classMiddleware())
	mg.GET("/courses", api.courses)
	mg.POST("/courses/:id/complete", api.completeCourse)
	mg.POST("/quizzes/:id/submit", api.submitQuiz)
	mg.GET("/status", api.status)
	mg.GET("/timetable", api.timetable)

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.GET("/students/:username/tasks", api.studentTaskBoard)
	ag.POST("/students/:username/tasks", api.assignTasks)
	ag.GET("/students/:username/status", api.studentStatus)
	ag.POST("/cache/clear", api.clearCache)
}

// Handlers

func (api *progressApi) taskBoard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	board, err := api.svc.TaskBoard(reqContext(ctx), claims.Username, claims.Class)
	if err != nil {
		return errors.Wrap(err, "building task board")
	}
	return ctx.JSON(http.StatusOK, board)
}

func (api *progressApi) submitTasks(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.submit(ctx, claims.Username, claims.Class, progress.SubmitOptions{})
}

func (api *progressApi) submit(ctx echo.Context, username, class string, opt progress.SubmitOptions) error {
	var data SubmitTasksRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitTasksRequest")
	}

	results, err := api.svc.SubmitTasks(reqContext(ctx), username, class, data.TaskIDs, opt)
	if err != nil {
		return errors.Wrap(err, "submitting tasks")
	}

	resp := SubmitTasksResponse{Results: make([]ItemResponse, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, newItemResponse(res))
	}
	return ctx.JSON(batchStatus(results), resp)
}

func (api *progressApi) courses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	board, err := api.svc.Courses(reqContext(ctx), claims.Username)
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	return ctx.JSON(http.StatusOK, board)
}

func (api *progressApi) completeCourse(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	res, err := api.svc.CompleteCourse(reqContext(ctx), claims.Username, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing course")
	}
	if res.Err != nil {
		return res.Err
	}
	return ctx.JSON(http.StatusOK, newItemResponse(res))
}

func (api *progressApi) submitQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data QuizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizRequest")
	}

	res, err := api.svc.SubmitQuiz(reqContext(ctx), claims.Username, ctx.Param("id"), data.Answers)
	if err != nil {
		return errors.Wrap(err, "submitting quiz")
	}
	if res.Err != nil {
		return res.Err
	}
	return ctx.JSON(http.StatusOK, QuizResponse{ItemResponse: newItemResponse(res.ItemResult), Score: res.Score})
}

func (api *progressApi) status(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	st, err := api.svc.Status(reqContext(ctx), claims.Username, claims.Class)
	if err != nil {
		return errors.Wrap(err, "computing status")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *progressApi) timetable(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	tt, err := api.scheduleSvc.Get(reqContext(ctx), claims.Username)
	if err != nil {
		return errors.Wrap(err, "getting timetable")
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *progressApi) student(ctx echo.Context) (user.User, error) {
	usr, err := api.userSvc.GetByUsername(reqContext(ctx), ctx.Param("username"))
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding student")
	}
	return usr, nil
}

func (api *progressApi) studentTaskBoard(ctx echo.Context) error {
	usr, err := api.student(ctx)
	if err != nil {
		return err
	}
	board, err := api.svc.TaskBoard(reqContext(ctx), usr.Username, usr.Class)
	if err != nil {
		return errors.Wrap(err, "building task board")
	}
	return ctx.JSON(http.StatusOK, board)
}

// assignTasks records tasks as completed on behalf of a student, overdue ones included.
func (api *progressApi) assignTasks(ctx echo.Context) error {
	usr, err := api.student(ctx)
	if err != nil {
		return err
	}
	return api.submit(ctx, usr.Username, usr.Class, progress.SubmitOptions{AllowOverdue: true})
}

func (api *progressApi) studentStatus(ctx echo.Context) error {
	usr, err := api.student(ctx)
	if err != nil {
		return err
	}
	st, err := api.svc.Status(reqContext(ctx), usr.Username, usr.Class)
	if err != nil {
		return errors.Wrap(err, "computing status")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *progressApi) clearCache(ctx echo.Context) error {
	api.store.InvalidateAll()
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Cache cleared."})
}
