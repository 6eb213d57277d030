package api

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/contract"
	"github.com/kinetix/kx-console/internal/kinetix"
	"github.com/kinetix/kx-console/internal/metrics"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/kinetix/kx-console/internal/units"
	"github.com/pkg/errors"
)

// PROVIDERS - https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewRPCClient(cfg config.Server, m *metrics.Service) (*chain.RPCClient, error) {
	opts := []chain.Option{
		chain.WithObserver(m),
		chain.WithTimeout(cfg.Chain.RequestTimeout),
	}
	if cfg.Chain.ChainID > 0 {
		opts = append(opts, chain.WithChainID(big.NewInt(cfg.Chain.ChainID)))
	}

	return chain.Dial(context.Background(), cfg.Chain.RPCURL, opts...)
}

func NewContractBinding(cfg config.Server, conn chain.Connection) (*contract.Binding, error) {
	address, err := units.ParseAddress(cfg.Contract.Address)
	if err != nil {
		return nil, errors.Wrap(err, "invalid KX_CONTRACT_ADDRESS")
	}

	parsed, err := contract.LoadABIFile(cfg.Contract.ABIPath)
	if err != nil {
		return nil, err
	}

	return contract.NewBinding(address, parsed, conn)
}

func NewTransactionBuilder(cfg config.Server, conn chain.Connection, binding *contract.Binding) (*txbuilder.Builder, error) {
	builderConfig := txbuilder.Config{
		DefaultGasLimit: cfg.Gas.DefaultLimit,
		HeadroomPercent: cfg.Gas.HeadroomPercent,
		EstimateLimit:   cfg.Gas.EstimateLimit,
	}

	if cfg.Gas.PriceGwei != "" {
		price, err := units.GweiToWei(cfg.Gas.PriceGwei)
		if err != nil {
			return nil, errors.Wrap(err, "invalid KX_GAS_PRICE_GWEI")
		}
		builderConfig.GasPrice = price
	}

	return txbuilder.NewBuilder(conn, binding, builderConfig)
}

func NewSigningKey(cfg config.Server) (*signer.Key, error) {
	return signer.LoadKey(cfg.Signer, signer.TerminalPasswordReader)
}

func NewSubmitter(cfg config.Server, conn chain.Connection, key *signer.Key) (*signer.Submitter, error) {
	mode, ok := signer.ParseMode(cfg.Signer.Mode)
	if !ok {
		return nil, errors.Errorf("invalid KX_SIGNER_MODE %q", cfg.Signer.Mode)
	}

	var sender common.Address
	if cfg.Signer.SenderAddress != "" {
		address, err := units.ParseAddress(cfg.Signer.SenderAddress)
		if err != nil {
			return nil, errors.Wrap(err, "invalid KX_SENDER_ADDRESS")
		}
		sender = address
	}

	return signer.NewSubmitter(mode, conn, key, sender)
}

//nolint:ireturn
func NewKinetixService(
	cfg config.Server,
	conn chain.Connection,
	binding *contract.Binding,
	builder *txbuilder.Builder,
	submitter *signer.Submitter,
	locks *txbuilder.SenderLocks,
) (kinetix.Service, error) {
	return kinetix.NewService(conn, binding, builder, submitter, locks, cfg.Contract.OracleDecimals)
}
