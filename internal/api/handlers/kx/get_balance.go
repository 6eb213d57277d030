package kx

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetBalanceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.GET("/balance", getBalanceHandler(s))
}

// KX token balance of ?address=, defaults to the configured sender.
func getBalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := types.NewGetAddressQueryParams()
		if err := util.BindAndValidateQueryParams(c, &params); err != nil {
			return err
		}

		balance, err := s.Kinetix.GetTokenBalance(c.Request().Context(), queryAddress(params))
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.TokenBalanceResponse{
			Address: swag.String(balance.Account.Hex()),
			Raw:     bigString(balance.Raw),
			Amount:  swag.String(balance.Amount),
		})
	}
}
