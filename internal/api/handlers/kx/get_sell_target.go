package kx

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetSellTargetRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.GET("/sell-target", getSellTargetHandler(s))
}

// Sell target of ?address=, defaults to the configured sender.
func getSellTargetHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := types.NewGetAddressQueryParams()
		if err := util.BindAndValidateQueryParams(c, &params); err != nil {
			return err
		}

		price, err := s.Kinetix.GetSellTargetPrice(c.Request().Context(), queryAddress(params))
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, priceResponse(price))
	}
}
