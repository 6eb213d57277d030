package handlers

import (
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/api/handlers/common"
	"github.com/kinetix/kx-console/internal/api/handlers/kx"
	"github.com/labstack/echo/v4"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		kx.GetBalanceRoute(s),
		kx.GetContractRoute(s),
		kx.GetPositionCountRoute(s),
		kx.GetPositionsRoute(s),
		kx.GetPriceRoute(s),
		kx.GetSellTargetRoute(s),
		kx.GetUpkeepRoute(s),
		kx.PostBuyRoute(s),
		kx.PostSellRoute(s),
		kx.PostUpkeepRoute(s),
		kx.PostWithdrawRoute(s),
	}
}
