package common

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness check
// This endpoint returns 200 when our Service is ready to serve traffic (i.e. respond to queries).
// Does read-only probes apart from the general server ready state.
// Note that /-/ready is typically public (and not shielded by a mgmt-secret), we thus prevent information leakage here and only return `"Ready."`.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if errs := s.ProbeReadiness(c.Request().Context()); len(errs) > 0 {
			log := util.LogFromEchoContext(c)
			for _, err := range errs {
				log.Warn().Err(err).Msg("Readiness probe failed")
			}

			// We use 521 to indicate an error state
			// same as Cloudflare: https://support.cloudflare.com/hc/en-us/articles/115003011431#521error
			return c.String(521, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
