package kx

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetPositionsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.GET("/positions", getPositionsHandler(s))
}

// Lists the positions of ?address= in contract order. Without an address the contract
// answers for the configured sender.
func getPositionsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := types.NewGetAddressQueryParams()
		if err := util.BindAndValidateQueryParams(c, &params); err != nil {
			return err
		}

		user := queryAddress(params)
		account, err := accountFor(s, user)
		if err != nil {
			return err
		}

		positions, err := s.Kinetix.GetPositions(c.Request().Context(), user)
		if err != nil {
			return err
		}

		response := &types.PositionsResponse{
			Address:   swag.String(account),
			Positions: make([]*types.Position, 0, len(positions)),
		}
		for _, p := range positions {
			response.Positions = append(response.Positions, &types.Position{
				ID:            swag.Int64(int64(p.ID)),
				EntryPrice:    bigString(p.EntryPrice),
				EntryPriceUsd: swag.String(p.EntryPriceUSD),
				AmountWei:     bigString(p.AmountWei),
				AmountEther:   swag.String(p.AmountEther),
				Sold:          swag.Bool(p.Sold),
			})
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
