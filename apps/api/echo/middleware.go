package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
)

// simulateLatency delays every request by a random duration in [min, max].
// A zero max disables it.
func simulateLatency(min, max time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if max <= 0 {
			return next
		}
		return func(ctx echo.Context) error {
			if err := core.Wait(ctx.Request().Context(), core.RandomDuration(min, max)); err != nil {
				return errors.Wrap(err, "simulating latency")
			}
			return next(ctx)
		}
	}
}
