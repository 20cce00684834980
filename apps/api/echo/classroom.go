package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core/classroom"
)

type classApi struct {
	svc      *classroom.Service
	validate *validator.Validate
}

func registerClassAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *classroom.Service, validate *validator.Validate) {
	api := classApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/classes", authed)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) create(ctx echo.Context) error {
	var data classroom.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	class, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, class)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	class, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return classError(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, class)
}

func (api *classApi) update(ctx echo.Context) error {
	var data classroom.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}

	class, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return classError(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, class)
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return classError(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func classError(err error, msg string) error {
	if errors.Cause(err) == classroom.ErrNotFound {
		return errClassNotFound
	}
	return errors.Wrap(err, msg)
}
