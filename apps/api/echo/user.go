package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/task"
	"github.com/trezcool/huda/core/user"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	UserResponse struct {
		User user.User `json:"user"`
		Ack  sheet.Ack `json:"ack"`
	}

	ClassSubjectsResponse struct {
		Class    string   `json:"class"`
		Subjects []string `json:"subjects"`
	}
)

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Username = core.CleanString(r.Username)
	return validate.Struct(r)
}

type userApi struct {
	auth     *Auth
	svc      *user.Service
	taskSvc  *task.Service
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *Auth, deps *Deps) {
	api := userApi{
		auth:     auth,
		svc:      deps.UserSvc,
		taskSvc:  deps.TaskSvc,
		validate: deps.Validate,
	}

	// un-authed endpoints
	g.POST("/login", api.login)

	// authed endpoints
	g.POST("/token-refresh", api.refreshToken, jwt)

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.GET("/users", api.query)
	ag.POST("/users", api.create)
	ag.GET("/classes/:class/students", api.classStudents)
	ag.GET("/classes/:class/subjects", api.classSubjects)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(reqContext(ctx), data.Username, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.auth.Token(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(reqContext(ctx))
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if role := core.CleanString(ctx.QueryParam("role"), true); role != "" {
		filtered := make([]user.User, 0, len(users))
		for _, usr := range users {
			if usr.Role == role {
				filtered = append(filtered, usr)
			}
		}
		users = filtered
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, ack, err := api.svc.Create(reqContext(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return respondWritten(ctx, http.StatusCreated, ack, sheet.Credentials, UserResponse{User: usr, Ack: ack})
}

func (api *userApi) classStudents(ctx echo.Context) error {
	students, err := api.svc.StudentsInClass(reqContext(ctx), ctx.Param("class"))
	if err != nil {
		return errors.Wrap(err, "listing class students")
	}
	return ctx.JSON(http.StatusOK, students)
}

// classSubjects lists the subjects the context admin teaches in a class, among the subjects of its tasks.
func (api *userApi) classSubjects(ctx echo.Context) error {
	class := ctx.Param("class")
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	admin, err := api.svc.GetByUsername(reqContext(ctx), claims.Username)
	if err != nil {
		return errors.Wrap(err, "finding context user")
	}
	tasks, err := api.taskSvc.List(reqContext(ctx), class)
	if err != nil {
		return errors.Wrap(err, "listing tasks")
	}

	return ctx.JSON(http.StatusOK, ClassSubjectsResponse{
		Class:    class,
		Subjects: user.SubjectsForClass(tasks, admin.Assignments(), class),
	})
}
