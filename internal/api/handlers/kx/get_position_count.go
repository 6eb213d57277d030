package kx

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetPositionCountRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.GET("/positions/count", getPositionCountHandler(s))
}

func getPositionCountHandler(s *api.Server) echo.HandlerFunc {
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

		count, err := s.Kinetix.GetPositionCount(c.Request().Context(), user)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.PositionCountResponse{
			Address: swag.String(account),
			Count:   bigString(count),
		})
	}
}
