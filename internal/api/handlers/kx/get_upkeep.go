package kx

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetUpkeepRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.GET("/upkeep", getUpkeepHandler(s))
}

// Runs checkUpkeep as a read, ?checkData= defaults to empty bytes.
func getUpkeepHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := types.NewGetCheckUpkeepQueryParams()
		if err := util.BindAndValidateQueryParams(c, &params); err != nil {
			return err
		}

		check, err := s.Kinetix.CheckUpkeep(c.Request().Context(), swag.StringValue(params.CheckData))
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.UpkeepCheckResponse{
			UpkeepNeeded: swag.Bool(check.UpkeepNeeded),
			PerformData:  swag.String(hexutil.Encode(check.PerformData)),
		})
	}
}
