package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core/dashboard"
)

type dashboardApi struct {
	snapshots Snapshotter
}

func registerDashboardAPI(g *echo.Group, authed echo.MiddlewareFunc, snapshots Snapshotter) {
	api := dashboardApi{snapshots: snapshots}

	dg := g.Group("/dashboard", authed)
	dg.GET("/snapshot", api.snapshot)
	dg.GET("/overview", api.overview)
}

func (api *dashboardApi) snapshot(ctx echo.Context) error {
	snap, err := api.snapshots.Snapshot(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "taking snapshot")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *dashboardApi) overview(ctx echo.Context) error {
	snap, err := api.snapshots.Snapshot(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "taking snapshot")
	}
	return ctx.JSON(http.StatusOK, dashboard.Build(snap))
}
