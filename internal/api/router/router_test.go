package router_test

import (
	"math/big"
	"net/http"
	"testing"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/test"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnknownRouteRendersPublicError(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/kx/does-not-exist", nil, nil)
		require.Equal(t, http.StatusNotFound, res.Result().StatusCode)

		var response types.PublicHTTPError
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, int64(http.StatusNotFound), *response.Code)
		assert.Equal(t, types.PublicHTTPErrorTypeGeneric, *response.Type)
	})
}

func TestMiddlewares(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.FakeConnectionOf(t, s).On("GetGasPrice", mock.Anything).Return(big.NewInt(1), nil)

		// trailing slashes are removed before routing
		res := test.PerformRequest(t, s, "GET", "/-/ready/", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		assert.NotEmpty(t, res.Header().Get(echo.HeaderXRequestID))
		assert.Equal(t, "no-store", res.Header().Get(echo.HeaderCacheControl))
		assert.Equal(t, "nosniff", res.Header().Get(echo.HeaderXContentTypeOptions))
	})
}

func TestRoutesAttached(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		paths := map[string]bool{}
		for _, r := range s.Router.Routes {
			paths[r.Method+" "+r.Path] = true
		}

		for _, expected := range []string{
			"GET /-/ready",
			"GET /-/healthy",
			"GET /api/v1/kx/price",
			"GET /api/v1/kx/positions",
			"POST /api/v1/kx/buy",
			"POST /api/v1/kx/withdraw",
		} {
			assert.True(t, paths[expected], expected)
		}
	})
}
