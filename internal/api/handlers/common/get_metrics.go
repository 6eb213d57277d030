package common

import (
	"github.com/kinetix/kx-console/internal/api"
	"github.com/labstack/echo/v4"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/metrics", getMetricsHandler(s))
}

func getMetricsHandler(s *api.Server) echo.HandlerFunc {
	if !s.Config.Metrics.Enabled {
		return func(c echo.Context) error {
			return echo.ErrNotFound
		}
	}

	return echo.WrapHandler(s.Metrics.Handler())
}
