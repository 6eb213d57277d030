// Package units converts between user-facing text and the exact integer quantities
// the contract works with. Nothing in here goes through float64.
package units

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/shopspring/decimal"
)

const (
	// EtherDecimals is the number of wei decimals in one ether (and one KX token).
	EtherDecimals int32 = 18
	// DefaultOracleDecimals matches the Chainlink ETH/USD feed.
	DefaultOracleDecimals int32 = 8
	// GweiDecimals is the number of wei decimals in one gwei.
	GweiDecimals int32 = 9
)

// plainDecimal excludes signs and exponent notation, which decimal.NewFromString accepts.
var plainDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ToWei converts a decimal ether amount such as "0.01" into wei.
func ToWei(ether string) (*big.Int, error) {
	return ToBaseUnits(ether, EtherDecimals)
}

// FromWei renders wei as a decimal ether string without trailing zeros.
func FromWei(wei *big.Int) string {
	return FromBaseUnits(wei, EtherDecimals)
}

// GweiToWei converts a decimal gwei amount into wei.
func GweiToWei(gwei string) (*big.Int, error) {
	return ToBaseUnits(gwei, GweiDecimals)
}

// ToBaseUnits scales a non-negative decimal string by 10^decimals. Inputs with more
// fractional digits than decimals are rejected rather than rounded.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return nil, chainerr.New(chainerr.InvalidInput, "amount is empty")
	}

	if !plainDecimal.MatchString(trimmed) {
		return nil, chainerr.Newf(chainerr.InvalidInput, "amount %q is not a plain non-negative decimal", trimmed)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.InvalidInput, err, "amount is not a decimal number")
	}

	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, chainerr.Newf(chainerr.InvalidInput, "amount %s has more than %d decimal places", trimmed, decimals)
	}

	return scaled.BigInt(), nil
}

// FromBaseUnits renders an integer quantity with the given number of decimals.
func FromBaseUnits(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}

// ScaleOraclePrice turns a raw fixed-point oracle answer into a decimal value.
func ScaleOraclePrice(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}
