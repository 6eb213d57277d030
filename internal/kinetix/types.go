package kinetix

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/contract"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/shopspring/decimal"
)

// MinBuyEther is the smallest buy the console accepts.
const MinBuyEther = "0.001"

// Service exposes the user-facing operations of the Kinetix KX contract. Reads map to one
// eth_call each; writes build, sign and submit exactly one transaction.
type Service interface {
	// GetEthPrice returns the oracle ETH/USD price.
	GetEthPrice(ctx context.Context) (*Price, error)

	// GetSellTargetPrice returns the price at which user's positions are sold automatically.
	GetSellTargetPrice(ctx context.Context, user string) (*Price, error)

	// GetPositions lists the positions of user in contract order. The ID is the array index.
	GetPositions(ctx context.Context, user string) ([]PositionView, error)

	// GetPositionCount returns the number of positions opened by user.
	GetPositionCount(ctx context.Context, user string) (*big.Int, error)

	// GetTokenBalance returns the KX token balance of account.
	GetTokenBalance(ctx context.Context, account string) (*TokenBalance, error)

	// CheckUpkeep asks the contract whether automation should run performUpkeep.
	CheckUpkeep(ctx context.Context, checkData string) (*contract.UpkeepCheck, error)

	// Buy opens a position paying ethAmount (decimal ether).
	Buy(ctx context.Context, ethAmount string, gas txbuilder.GasPolicy) (*signer.Outcome, error)

	// ManualSell sells the sender's open positions.
	ManualSell(ctx context.Context, gas txbuilder.GasPolicy) (*signer.Outcome, error)

	// Withdraw withdraws the position with the given index.
	Withdraw(ctx context.Context, positionID string, gas txbuilder.GasPolicy) (*signer.Outcome, error)

	// PerformUpkeep runs the automation hook with performData (hex).
	PerformUpkeep(ctx context.Context, performData string, gas txbuilder.GasPolicy) (*signer.Outcome, error)

	// Address is the bound contract address.
	Address() common.Address

	// Sender is the address used for writes and for caller-scoped reads.
	Sender() common.Address

	// Mode reports whether writes are signed locally or only displayed.
	Mode() signer.Mode

	// Methods lists the bound contract methods.
	Methods() []contract.MethodDescriptor

	// Ping checks that the node answers.
	Ping(ctx context.Context) error
}

// Price is a raw fixed-point oracle answer together with its scaled value.
type Price struct {
	Raw      *big.Int        `json:"raw"`
	Decimals int32           `json:"decimals"`
	Value    decimal.Decimal `json:"value"`
}

// USD renders the price with cents.
func (p *Price) USD() string {
	return p.Value.StringFixed(2)
}

// TokenBalance is a KX balance in base units and as a decimal string.
type TokenBalance struct {
	Account common.Address `json:"account"`
	Raw     *big.Int       `json:"raw"`
	Amount  string         `json:"amount"`
}

// PositionView is a position with its amounts scaled for display.
type PositionView struct {
	contract.Position
	EntryPriceUSD string `json:"entryPriceUsd"`
	AmountEther   string `json:"amountEther"`
}
