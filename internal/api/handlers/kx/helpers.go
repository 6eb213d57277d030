package kx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/kinetix"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/units"
	"github.com/kinetix/kx-console/internal/util"
)

// gasPolicy maps the optional request overrides. A nil payload keeps every default.
func gasPolicy(p *types.GasPolicyPayload) (txbuilder.GasPolicy, error) {
	var policy txbuilder.GasPolicy
	if p == nil {
		return policy, nil
	}

	if p.GasLimit != nil {
		policy.GasLimit = uint64(*p.GasLimit) //nolint:gosec // validated to be within 21000..30000000
	}

	if p.GasPriceGwei != nil {
		price, err := units.GweiToWei(*p.GasPriceGwei)
		if err != nil {
			return policy, err
		}
		policy.GasPrice = price
	}

	policy.EstimateLimit = util.FalseIfNil(p.EstimateLimit)

	return policy, nil
}

// accountFor renders the account a caller-scoped read was answered for.
func accountFor(s *api.Server, user string) (string, error) {
	if user == "" {
		return s.Kinetix.Sender().Hex(), nil
	}
	return units.NormalizeAddress(user)
}

func queryAddress(params types.GetAddressQueryParams) string {
	return swag.StringValue(params.Address)
}

func bigString(v *big.Int) *string {
	if v == nil {
		return swag.String("0")
	}
	return swag.String(v.String())
}

func priceResponse(p *kinetix.Price) *types.PriceResponse {
	return &types.PriceResponse{
		Raw:      bigString(p.Raw),
		Decimals: swag.Int64(int64(p.Decimals)),
		Usd:      swag.String(p.USD()),
	}
}

func transactionResponse(outcome *signer.Outcome) *types.TransactionResponse {
	tx := outcome.Unsigned

	response := &types.TransactionResponse{
		Mode:  swag.String(outcome.Mode.String()),
		Stage: swag.String(outcome.Stage.String()),
		Transaction: &types.UnsignedTransaction{
			Method:   swag.String(tx.Method),
			ChainID:  bigString(tx.ChainID),
			From:     swag.String(tx.From.Hex()),
			To:       swag.String(tx.To.Hex()),
			Value:    bigString(tx.Value),
			Data:     swag.String(hexutil.Encode(tx.Data)),
			Nonce:    swag.Int64(int64(tx.Nonce)),    //nolint:gosec
			GasLimit: swag.Int64(int64(tx.GasLimit)), //nolint:gosec
			GasPrice: bigString(tx.GasPrice),
		},
	}

	if outcome.Handle != nil {
		response.TxHash = outcome.Handle.Hash.Hex()
		response.RawTransaction = hexutil.Encode(outcome.Handle.RawBytes)
	}

	return response
}
