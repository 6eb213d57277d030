package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

func requireAll(fields map[string]interface{}) error {
	var res []error
	for name, value := range fields {
		if err := validate.Required(name, "body", value); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PriceResponse oracle price
type PriceResponse struct {
	// Raw fixed-point oracle answer
	// Required: true
	Raw *string `json:"raw"`

	// Number of decimals of the raw answer
	// Required: true
	Decimals *int64 `json:"decimals"`

	// Price in USD with cents
	// Example: 2500.00
	// Required: true
	Usd *string `json:"usd"`
}

// Validate validates this price response
func (m *PriceResponse) Validate(formats strfmt.Registry) error {
	return requireAll(map[string]interface{}{"raw": m.Raw, "decimals": m.Decimals, "usd": m.Usd})
}

// Position position
type Position struct {
	// Index of the position, used by withdraw
	// Required: true
	ID *int64 `json:"id"`

	// Raw oracle entry price
	// Required: true
	EntryPrice *string `json:"entryPrice"`

	// Entry price in USD
	// Required: true
	EntryPriceUsd *string `json:"entryPriceUsd"`

	// Amount in wei
	// Required: true
	AmountWei *string `json:"amountWei"`

	// Amount in ETH
	// Required: true
	AmountEther *string `json:"amountEther"`

	// sold
	// Required: true
	Sold *bool `json:"sold"`
}

// Validate validates this position
func (m *Position) Validate(formats strfmt.Registry) error {
	return requireAll(map[string]interface{}{
		"id":            m.ID,
		"entryPrice":    m.EntryPrice,
		"entryPriceUsd": m.EntryPriceUsd,
		"amountWei":     m.AmountWei,
		"amountEther":   m.AmountEther,
		"sold":          m.Sold,
	})
}

// PositionsResponse positions response
type PositionsResponse struct {
	// address
	// Required: true
	Address *string `json:"address"`

	// positions
	// Required: true
	Positions []*Position `json:"positions"`
}

// Validate validates this positions response
func (m *PositionsResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("positions", "body", m.Positions); err != nil {
		res = append(res, err)
	}
	for _, p := range m.Positions {
		if p == nil {
			continue
		}
		if err := p.Validate(formats); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PositionCountResponse position count response
type PositionCountResponse struct {
	// address
	// Required: true
	Address *string `json:"address"`

	// count
	// Required: true
	Count *string `json:"count"`
}

// Validate validates this position count response
func (m *PositionCountResponse) Validate(formats strfmt.Registry) error {
	return requireAll(map[string]interface{}{"address": m.Address, "count": m.Count})
}

// TokenBalanceResponse token balance response
type TokenBalanceResponse struct {
	// address
	// Required: true
	Address *string `json:"address"`

	// Balance in base units
	// Required: true
	Raw *string `json:"raw"`

	// Balance in KX
	// Required: true
	Amount *string `json:"amount"`
}

// Validate validates this token balance response
func (m *TokenBalanceResponse) Validate(formats strfmt.Registry) error {
	return requireAll(map[string]interface{}{"address": m.Address, "raw": m.Raw, "amount": m.Amount})
}

// UpkeepCheckResponse upkeep check response
type UpkeepCheckResponse struct {
	// upkeep needed
	// Required: true
	UpkeepNeeded *bool `json:"upkeepNeeded"`

	// performData to pass to performUpkeep, 0x-prefixed hex
	// Required: true
	PerformData *string `json:"performData"`
}

// Validate validates this upkeep check response
func (m *UpkeepCheckResponse) Validate(formats strfmt.Registry) error {
	return requireAll(map[string]interface{}{"upkeepNeeded": m.UpkeepNeeded, "performData": m.PerformData})
}

// UnsignedTransaction unsigned legacy transaction, ready for an external signer
type UnsignedTransaction struct {
	// method
	// Required: true
	Method *string `json:"method"`

	// chain Id
	// Required: true
	ChainID *string `json:"chainId"`

	// from
	// Required: true
	From *string `json:"from"`

	// to
	// Required: true
	To *string `json:"to"`

	// Value in wei
	// Required: true
	Value *string `json:"value"`

	// Calldata, 0x-prefixed hex
	// Required: true
	Data *string `json:"data"`

	// nonce
	// Required: true
	Nonce *int64 `json:"nonce"`

	// gas limit
	// Required: true
	GasLimit *int64 `json:"gasLimit"`

	// Gas price in wei
	// Required: true
	GasPrice *string `json:"gasPrice"`
}

// Validate validates this unsigned transaction
func (m *UnsignedTransaction) Validate(formats strfmt.Registry) error {
	return requireAll(map[string]interface{}{
		"method":   m.Method,
		"chainId":  m.ChainID,
		"from":     m.From,
		"to":       m.To,
		"value":    m.Value,
		"data":     m.Data,
		"nonce":    m.Nonce,
		"gasLimit": m.GasLimit,
		"gasPrice": m.GasPrice,
	})
}

// TransactionResponse result of a write request
type TransactionResponse struct {
	// Signer mode, "sign" or "display"
	// Required: true
	Mode *string `json:"mode"`

	// Stage reached, "built" or "submitted"
	// Required: true
	Stage *string `json:"stage"`

	// transaction
	// Required: true
	Transaction *UnsignedTransaction `json:"transaction"`

	// Transaction hash, set once submitted
	TxHash string `json:"txHash,omitempty"`

	// Signed RLP encoding, set once submitted
	RawTransaction string `json:"rawTransaction,omitempty"`
}

// Validate validates this transaction response
func (m *TransactionResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := requireAll(map[string]interface{}{"mode": m.Mode, "stage": m.Stage, "transaction": m.Transaction}); err != nil {
		res = append(res, err)
	}
	if m.Transaction != nil {
		if err := m.Transaction.Validate(formats); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContractMethod contract method
type ContractMethod struct {
	// name
	// Required: true
	Name *string `json:"name"`

	// inputs
	Inputs []string `json:"inputs"`

	// outputs
	Outputs []string `json:"outputs"`

	// "read" or "write"
	// Required: true
	Mutability *string `json:"mutability"`

	// payable
	Payable bool `json:"payable"`
}

// ContractResponse contract response
type ContractResponse struct {
	// address
	// Required: true
	Address *string `json:"address"`

	// Address used for writes and caller-scoped reads
	// Required: true
	Sender *string `json:"sender"`

	// Signer mode, "sign" or "display"
	// Required: true
	Mode *string `json:"mode"`

	// methods
	Methods []*ContractMethod `json:"methods"`
}

// Validate validates this contract response
func (m *ContractResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := requireAll(map[string]interface{}{"address": m.Address, "sender": m.Sender, "mode": m.Mode}); err != nil {
		res = append(res, err)
	}
	for _, method := range m.Methods {
		if method == nil {
			continue
		}
		if err := requireAll(map[string]interface{}{"name": method.Name, "mutability": method.Mutability}); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
