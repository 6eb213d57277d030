package kx

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetPriceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.GET("/price", getPriceHandler(s))
}

func getPriceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		price, err := s.Kinetix.GetEthPrice(c.Request().Context())
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, priceResponse(price))
	}
}
