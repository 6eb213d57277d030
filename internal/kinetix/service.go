// Package kinetix maps each console action onto exactly one read or write of the Kinetix KX
// contract.
package kinetix

import (
	"context"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/contract"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/kinetix/kx-console/internal/units"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	methodGetEthPrice        = "getEthPrice"
	methodGetSellTargetPrice = "getSellTargetPrice"
	methodGetMyPositions     = "getMyPositions"
	methodGetPositionCount   = "getPositionCount"
	methodBalanceOf          = "balanceOf"
	methodCheckUpkeep        = "checkUpkeep"
	methodBuy                = "buy"
	methodManualSell         = "manualSell"
	methodWithdraw           = "withdraw"
	methodPerformUpkeep      = "performUpkeep"
)

type service struct {
	conn           chain.Connection
	binding        *contract.Binding
	builder        *txbuilder.Builder
	submitter      *signer.Submitter
	locks          *txbuilder.SenderLocks
	oracleDecimals int32
	minBuy         *big.Int
}

// NewService creates the Kinetix façade.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(
	conn chain.Connection,
	binding *contract.Binding,
	builder *txbuilder.Builder,
	submitter *signer.Submitter,
	locks *txbuilder.SenderLocks,
	oracleDecimals int32,
) (Service, error) {
	if conn == nil || binding == nil || builder == nil || submitter == nil || locks == nil {
		return nil, errors.New("kinetix service requires connection, binding, builder, submitter and sender locks")
	}

	minBuy, err := units.ToWei(MinBuyEther)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse minimum buy amount")
	}

	return &service{
		conn:           conn,
		binding:        binding,
		builder:        builder,
		submitter:      submitter,
		locks:          locks,
		oracleDecimals: oracleDecimals,
		minBuy:         minBuy,
	}, nil
}

func (s *service) Address() common.Address {
	return s.binding.Address()
}

func (s *service) Sender() common.Address {
	return s.submitter.Sender()
}

func (s *service) Mode() signer.Mode {
	return s.submitter.Mode()
}

func (s *service) Methods() []contract.MethodDescriptor {
	return s.binding.Methods()
}

// Ping uses eth_gasPrice as the chain id may be cached.
func (s *service) Ping(ctx context.Context) error {
	_, err := s.conn.GetGasPrice(ctx)
	return err
}

func (s *service) GetEthPrice(ctx context.Context) (*Price, error) {
	raw, err := s.readUint(ctx, methodGetEthPrice, nil, nil)
	if err != nil {
		return nil, err
	}

	return s.price(raw), nil
}

func (s *service) GetSellTargetPrice(ctx context.Context, user string) (*Price, error) {
	address, err := s.userOrSender(user)
	if err != nil {
		return nil, err
	}

	raw, err := s.readUint(ctx, methodGetSellTargetPrice, []interface{}{address}, nil)
	if err != nil {
		return nil, err
	}

	return s.price(raw), nil
}

func (s *service) GetPositions(ctx context.Context, user string) ([]PositionView, error) {
	address, err := s.userOrSender(user)
	if err != nil {
		return nil, err
	}

	// getMyPositions is scoped to msg.sender
	values, err := s.binding.Read(ctx, methodGetMyPositions, nil, &address)
	if err != nil {
		return nil, err
	}

	positions, err := contract.DecodePositions(values)
	if err != nil {
		return nil, err
	}

	views := make([]PositionView, 0, len(positions))
	for _, p := range positions {
		views = append(views, PositionView{
			Position:      p,
			EntryPriceUSD: units.ScaleOraclePrice(p.EntryPrice, s.oracleDecimals).StringFixed(2),
			AmountEther:   units.FromWei(p.AmountWei),
		})
	}

	return views, nil
}

func (s *service) GetPositionCount(ctx context.Context, user string) (*big.Int, error) {
	address, err := s.userOrSender(user)
	if err != nil {
		return nil, err
	}

	return s.readUint(ctx, methodGetPositionCount, []interface{}{address}, nil)
}

func (s *service) GetTokenBalance(ctx context.Context, account string) (*TokenBalance, error) {
	address, err := s.userOrSender(account)
	if err != nil {
		return nil, err
	}

	raw, err := s.readUint(ctx, methodBalanceOf, []interface{}{address}, nil)
	if err != nil {
		return nil, err
	}

	return &TokenBalance{Account: address, Raw: raw, Amount: units.FromWei(raw)}, nil
}

func (s *service) CheckUpkeep(ctx context.Context, checkData string) (*contract.UpkeepCheck, error) {
	data, err := parseCalldata(checkData)
	if err != nil {
		return nil, err
	}

	values, err := s.binding.Read(ctx, methodCheckUpkeep, []interface{}{data}, nil)
	if err != nil {
		return nil, err
	}

	check, err := contract.DecodeUpkeep(values)
	if err != nil {
		return nil, err
	}

	return check, nil
}

func (s *service) Buy(ctx context.Context, ethAmount string, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
	value, err := units.ToWei(ethAmount)
	if err != nil {
		return nil, err
	}
	if value.Cmp(s.minBuy) < 0 {
		return nil, chainerr.Newf(chainerr.InvalidInput, "buy amount must be at least %s ETH", MinBuyEther)
	}

	return s.write(ctx, methodBuy, nil, value, gas)
}

func (s *service) ManualSell(ctx context.Context, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
	return s.write(ctx, methodManualSell, nil, nil, gas)
}

func (s *service) Withdraw(ctx context.Context, positionID string, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
	id, err := parsePositionID(positionID)
	if err != nil {
		return nil, err
	}

	return s.write(ctx, methodWithdraw, []interface{}{id}, nil, gas)
}

func (s *service) PerformUpkeep(ctx context.Context, performData string, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
	data, err := parseCalldata(performData)
	if err != nil {
		return nil, err
	}

	return s.write(ctx, methodPerformUpkeep, []interface{}{data}, nil, gas)
}

// write holds the sender lock from build through submission. A failed submission is never
// retried; the caller starts a new action, which rebuilds with a fresh nonce.
func (s *service) write(ctx context.Context, method string, args []interface{}, value *big.Int, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
	sender := s.submitter.Sender()

	unlock := s.locks.Lock(sender)
	defer unlock()

	tx, err := s.builder.Build(ctx, txbuilder.Request{
		Method: method,
		Args:   args,
		From:   sender.Hex(),
		Value:  value,
		Gas:    gas,
	})
	if err != nil {
		return nil, err
	}

	outcome, err := s.submitter.Submit(ctx, tx)
	if err != nil {
		if kind := chainerr.KindOf(err); kind.RequiresRebuild() {
			log.Warn().Str("method", method).Stringer("kind", kind).Msg("Submission rejected, a new transaction must be built")
		}
		return nil, err
	}

	return outcome, nil
}

func (s *service) readUint(ctx context.Context, method string, args []interface{}, caller *common.Address) (*big.Int, error) {
	values, err := s.binding.Read(ctx, method, args, caller)
	if err != nil {
		return nil, err
	}

	return contract.DecodeUint(values)
}

func (s *service) price(raw *big.Int) *Price {
	return &Price{
		Raw:      raw,
		Decimals: s.oracleDecimals,
		Value:    units.ScaleOraclePrice(raw, s.oracleDecimals),
	}
}

func (s *service) userOrSender(user string) (common.Address, error) {
	if strings.TrimSpace(user) == "" {
		return s.submitter.Sender(), nil
	}

	return units.ParseAddress(user)
}

func parsePositionID(input string) (*big.Int, error) {
	trimmed := strings.TrimSpace(input)
	id, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return nil, chainerr.Newf(chainerr.InvalidInput, "position id %q is not a non-negative integer", trimmed)
	}

	return new(big.Int).SetUint64(id), nil
}

// parseCalldata accepts empty input or 0x-prefixed hex.
func parseCalldata(input string) ([]byte, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == "0x" {
		return []byte{}, nil
	}

	data, err := hexutil.Decode(trimmed)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.InvalidInput, err, "calldata must be 0x-prefixed hex")
	}

	return data, nil
}
