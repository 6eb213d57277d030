// Package contracts ships the ABI of the Kinetix KX position contract.
package contracts

import (
	_ "embed"
)

// DefaultABIPath is the repository-relative location of the Kinetix KX ABI.
const DefaultABIPath = "contracts/KinetixKX.abi.json"

// KinetixABI is the same document as DefaultABIPath, embedded for tests and tooling.
//
//go:embed KinetixKX.abi.json
var KinetixABI []byte
