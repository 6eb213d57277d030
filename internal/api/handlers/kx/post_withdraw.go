package kx

import (
	"net/http"
	"strconv"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func PostWithdrawRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.POST("/withdraw", postWithdrawHandler(s))
}

func postWithdrawHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body types.PostWithdrawPositionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		gas, err := gasPolicy(body.Gas)
		if err != nil {
			return err
		}

		outcome, err := s.Kinetix.Withdraw(c.Request().Context(), strconv.FormatInt(*body.PositionID, 10), gas)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, transactionResponse(outcome))
	}
}
