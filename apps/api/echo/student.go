package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core/student"
)

type studentApi struct {
	svc      *student.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *student.Service, validate *validator.Validate) {
	api := studentApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/students", authed)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return studentError(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return studentError(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return studentError(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func studentError(err error, msg string) error {
	if errors.Cause(err) == student.ErrNotFound {
		return errStudentNotFound
	}
	return errors.Wrap(err, msg)
}
