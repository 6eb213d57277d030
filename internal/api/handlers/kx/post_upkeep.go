package kx

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func PostUpkeepRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.POST("/upkeep", postUpkeepHandler(s))
}

// Sends performUpkeep with the performData a previous check returned.
func postUpkeepHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body types.PostPerformUpkeepPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		gas, err := gasPolicy(body.Gas)
		if err != nil {
			return err
		}

		outcome, err := s.Kinetix.PerformUpkeep(c.Request().Context(), body.PerformData, gas)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, transactionResponse(outcome))
	}
}
