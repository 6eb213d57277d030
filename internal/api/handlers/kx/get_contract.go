package kx

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo/v4"
)

func GetContractRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1KX.GET("/contract", getContractHandler(s))
}

// Describes the bound contract and the sender used for writes.
func getContractHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		methods := s.Kinetix.Methods()

		response := &types.ContractResponse{
			Address: swag.String(s.Kinetix.Address().Hex()),
			Sender:  swag.String(s.Kinetix.Sender().Hex()),
			Mode:    swag.String(s.Kinetix.Mode().String()),
			Methods: make([]*types.ContractMethod, 0, len(methods)),
		}
		for _, m := range methods {
			response.Methods = append(response.Methods, &types.ContractMethod{
				Name:       swag.String(m.Name),
				Inputs:     m.Inputs,
				Outputs:    m.Outputs,
				Mutability: swag.String(m.Mutability.String()),
				Payable:    m.Payable,
			})
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
