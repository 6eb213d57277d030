package kx

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func PostSellRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.POST("/sell", postSellHandler(s))
}

func postSellHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body types.PostManualSellPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		gas, err := gasPolicy(body.Gas)
		if err != nil {
			return err
		}

		outcome, err := s.Kinetix.ManualSell(c.Request().Context(), gas)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, transactionResponse(outcome))
	}
}
