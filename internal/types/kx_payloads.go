package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const (
	decimalPattern = `^[0-9]+(\.[0-9]+)?$`
	hexDataPattern = `^0x([0-9a-fA-F]{2})*$`
	addressPattern = `^(0x|0X)?[0-9a-fA-F]{40}$`

	minGasLimit = 21000
	maxGasLimit = 30000000
)

// GasPolicyPayload optional gas overrides of a write request
type GasPolicyPayload struct {
	// Explicit gas limit, skips the default and estimation
	// Minimum: 21000
	// Maximum: 30000000
	GasLimit *int64 `json:"gasLimit,omitempty"`

	// Explicit gas price in gwei, skips the live price
	// Pattern: ^[0-9]+(\.[0-9]+)?$
	GasPriceGwei *string `json:"gasPriceGwei,omitempty"`

	// Estimate the gas limit through eth_estimateGas
	EstimateLimit *bool `json:"estimateLimit,omitempty"`
}

// Validate validates this gas policy payload
func (m *GasPolicyPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if m.GasLimit != nil {
		if err := validate.MinimumInt("gas.gasLimit", "body", *m.GasLimit, minGasLimit, false); err != nil {
			res = append(res, err)
		}
		if err := validate.MaximumInt("gas.gasLimit", "body", *m.GasLimit, maxGasLimit, false); err != nil {
			res = append(res, err)
		}
	}

	if m.GasPriceGwei != nil {
		if err := validate.Pattern("gas.gasPriceGwei", "body", *m.GasPriceGwei, decimalPattern); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func validateGas(gas *GasPolicyPayload, formats strfmt.Registry) error {
	if gas == nil {
		return nil
	}
	return gas.Validate(formats)
}

// PostBuyPayload post buy payload
type PostBuyPayload struct {
	// Amount of ETH to pay, as a decimal string
	// Example: 0.01
	// Required: true
	// Pattern: ^[0-9]+(\.[0-9]+)?$
	EthAmount *string `json:"ethAmount"`

	// gas
	Gas *GasPolicyPayload `json:"gas,omitempty"`
}

// Validate validates this post buy payload
func (m *PostBuyPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("ethAmount", "body", m.EthAmount); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("ethAmount", "body", *m.EthAmount, decimalPattern); err != nil {
		res = append(res, err)
	}

	if err := validateGas(m.Gas, formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PostManualSellPayload post manual sell payload
type PostManualSellPayload struct {
	// gas
	Gas *GasPolicyPayload `json:"gas,omitempty"`
}

// Validate validates this post manual sell payload
func (m *PostManualSellPayload) Validate(formats strfmt.Registry) error {
	if err := validateGas(m.Gas, formats); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}

// PostWithdrawPositionPayload post withdraw position payload
type PostWithdrawPositionPayload struct {
	// Index of the position as returned by the positions endpoint
	// Required: true
	// Minimum: 0
	PositionID *int64 `json:"positionId"`

	// gas
	Gas *GasPolicyPayload `json:"gas,omitempty"`
}

// Validate validates this post withdraw position payload
func (m *PostWithdrawPositionPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("positionId", "body", m.PositionID); err != nil {
		res = append(res, err)
	} else if err := validate.MinimumInt("positionId", "body", *m.PositionID, 0, false); err != nil {
		res = append(res, err)
	}

	if err := validateGas(m.Gas, formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PostPerformUpkeepPayload post perform upkeep payload
type PostPerformUpkeepPayload struct {
	// performData returned by checkUpkeep, 0x-prefixed hex
	// Example: 0x
	// Pattern: ^0x([0-9a-fA-F]{2})*$
	PerformData string `json:"performData,omitempty"`

	// gas
	Gas *GasPolicyPayload `json:"gas,omitempty"`
}

// Validate validates this post perform upkeep payload
func (m *PostPerformUpkeepPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if !swag.IsZero(m.PerformData) {
		if err := validate.Pattern("performData", "body", m.PerformData, hexDataPattern); err != nil {
			res = append(res, err)
		}
	}

	if err := validateGas(m.Gas, formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// GetAddressQueryParams query parameters of the caller-scoped read routes
type GetAddressQueryParams struct {
	// Account to query, defaults to the configured sender
	// Pattern: ^(0x|0X)?[0-9a-fA-F]{40}$
	Address *string `query:"address"`
}

// NewGetAddressQueryParams creates a new GetAddressQueryParams object with the default values initialized.
func NewGetAddressQueryParams() GetAddressQueryParams {
	return GetAddressQueryParams{}
}

// Validate validates this get address query params
func (m *GetAddressQueryParams) Validate(formats strfmt.Registry) error {
	if m.Address == nil || *m.Address == "" {
		return nil
	}

	if err := validate.Pattern("address", "query", *m.Address, addressPattern); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}

// GetCheckUpkeepQueryParams query parameters of the check upkeep route
type GetCheckUpkeepQueryParams struct {
	// checkData forwarded to checkUpkeep, 0x-prefixed hex
	// Pattern: ^0x([0-9a-fA-F]{2})*$
	CheckData *string `query:"checkData"`
}

// NewGetCheckUpkeepQueryParams creates a new GetCheckUpkeepQueryParams object with the default values initialized.
func NewGetCheckUpkeepQueryParams() GetCheckUpkeepQueryParams {
	return GetCheckUpkeepQueryParams{CheckData: swag.String("0x")}
}

// Validate validates this get check upkeep query params
func (m *GetCheckUpkeepQueryParams) Validate(formats strfmt.Registry) error {
	if m.CheckData == nil {
		return nil
	}

	if err := validate.Pattern("checkData", "query", *m.CheckData, hexDataPattern); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}
