package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core/evaluation"
)

type evaluationApi struct {
	svc      *evaluation.Service
	validate *validator.Validate
}

func registerEvaluationAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *evaluation.Service, validate *validator.Validate) {
	api := evaluationApi{
		svc:      svc,
		validate: validate,
	}

	eg := g.Group("/evaluations", authed)
	eg.GET("/configs", api.queryConfigs)
	eg.GET("/configs/:classId", api.retrieveConfig)
	eg.PUT("/configs/:classId", api.updateConfig)
	eg.GET("/upcoming", api.queryUpcoming)
	eg.POST("/upcoming", api.schedule)
}

// Handlers

func (api *evaluationApi) queryConfigs(ctx echo.Context) error {
	configs, err := api.svc.ListConfigs(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying evaluation configs")
	}
	return ctx.JSON(http.StatusOK, configs)
}

func (api *evaluationApi) retrieveConfig(ctx echo.Context) error {
	cfg, err := api.svc.GetConfig(ctx.Request().Context(), ctx.Param("classId"))
	if err != nil {
		if errors.Cause(err) == evaluation.ErrNotFound {
			return errConfigNotFound
		}
		return errors.Wrap(err, "finding evaluation config")
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *evaluationApi) updateConfig(ctx echo.Context) error {
	var data evaluation.UpdateConfig
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateConfig")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cfg, err := api.svc.UpdateConfig(ctx.Request().Context(), ctx.Param("classId"), data)
	if err != nil {
		if errors.Cause(err) == evaluation.ErrClassNotFound {
			return errClassNotFound
		}
		return errors.Wrap(err, "updating evaluation config")
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *evaluationApi) queryUpcoming(ctx echo.Context) error {
	upcoming, err := api.svc.ListUpcoming(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying upcoming evaluations")
	}
	return ctx.JSON(http.StatusOK, upcoming)
}

func (api *evaluationApi) schedule(ctx echo.Context) error {
	var data evaluation.NewUpcoming
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUpcoming")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	upc, err := api.svc.Schedule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "scheduling evaluation")
	}
	return ctx.JSON(http.StatusCreated, upc)
}
