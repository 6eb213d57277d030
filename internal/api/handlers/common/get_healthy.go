package common

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/labstack/echo/v4"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Returns an human readable string about the current service status.
// In addition to readiness probes, it reads the oracle price through the bound contract.
// Requires the management secret via the mgmt-secret query parameter.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("mgmt-secret") != s.Config.Management.Secret {
			return echo.ErrUnauthorized
		}

		var str strings.Builder
		fmt.Fprintln(&str, "Ready.")

		if errs := s.ProbeLiveness(c.Request().Context()); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(&str, "Probe failed: %v\n", err)
			}
			return c.String(521, str.String())
		}

		fmt.Fprintf(&str, "Contract %s answers, sender %s (%s).\n", s.Config.Contract.Address, s.Kinetix.Sender().Hex(), s.Kinetix.Mode())
		fmt.Fprintln(&str, "Alive.")

		return c.String(http.StatusOK, str.String())
	}
}
