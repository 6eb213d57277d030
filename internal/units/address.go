package units

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/chainerr"
)

// ParseAddress validates user-supplied address text. The 0x prefix is optional.
// All-lowercase and all-uppercase input is accepted as is; mixed-case input must
// carry a valid EIP-55 checksum.
func ParseAddress(input string) (common.Address, error) {
	trimmed := strings.TrimSpace(input)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, chainerr.Newf(chainerr.InvalidInput, "malformed address %q", input)
	}

	addr := common.HexToAddress(trimmed)

	body := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if isMixedCase(body) && body != addr.Hex()[2:] {
		return common.Address{}, chainerr.Newf(chainerr.InvalidInput, "address %q fails checksum validation", input)
	}

	return addr, nil
}

// NormalizeAddress returns the checksummed form of a user-supplied address.
func NormalizeAddress(input string) (string, error) {
	addr, err := ParseAddress(input)
	if err != nil {
		return "", err
	}
	return addr.Hex(), nil
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}
