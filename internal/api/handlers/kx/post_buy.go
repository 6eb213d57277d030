package kx

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func PostBuyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.POST("/buy", postBuyHandler(s))
}

// Opens a position paying ethAmount. In display mode the unsigned transaction is returned
// for an external signer.
func postBuyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body types.PostBuyPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		gas, err := gasPolicy(body.Gas)
		if err != nil {
			return err
		}

		outcome, err := s.Kinetix.Buy(c.Request().Context(), *body.EthAmount, gas)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, transactionResponse(outcome))
	}
}
