// Package chain owns the JSON-RPC endpoint. It exposes the read and write primitives
// the façade needs and classifies every failure into a chainerr kind.
package chain

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RPCClient implements Connection on top of go-ethereum's ethclient.
type RPCClient struct {
	url      string
	rpc      *rpc.Client
	eth      *ethclient.Client
	timeout  time.Duration
	observer Observer

	mu      sync.Mutex
	chainID *big.Int
}

// Option customizes an RPCClient.
type Option func(*RPCClient)

// WithObserver reports every RPC round trip to o.
func WithObserver(o Observer) Option {
	return func(c *RPCClient) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithTimeout bounds every single RPC. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *RPCClient) {
		c.timeout = timeout
	}
}

// WithChainID pins the chain id instead of querying it from the node.
func WithChainID(chainID *big.Int) Option {
	return func(c *RPCClient) {
		if chainID != nil && chainID.Sign() > 0 {
			c.chainID = new(big.Int).Set(chainID)
		}
	}
}

// Dial creates a client for url. For HTTP endpoints no request is made until first use.
func Dial(ctx context.Context, url string, opts ...Option) (*RPCClient, error) {
	if url == "" {
		return nil, errors.New("RPC URL is required")
	}

	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.NodeUnreachable, err, "failed to dial RPC node")
	}

	c := &RPCClient{
		url:      url,
		rpc:      rpcClient,
		eth:      ethclient.NewClient(rpcClient),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close releases the underlying connection.
func (c *RPCClient) Close() {
	c.eth.Close()
}

// ReadonlyCall executes eth_call against the latest block.
func (c *RPCClient) ReadonlyCall(ctx context.Context, from *common.Address, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	if from != nil {
		msg.From = *from
	}

	var out []byte
	err := c.observe(ctx, "eth_call", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.eth.CallContract(ctx, msg, nil)
		if callErr != nil {
			return classifyCallError(callErr, "eth_call")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetNonce returns the pending nonce for address.
func (c *RPCClient) GetNonce(ctx context.Context, address common.Address) (uint64, error) {
	var nonce uint64
	err := c.observe(ctx, "eth_getTransactionCount", func(ctx context.Context) error {
		var callErr error
		nonce, callErr = c.eth.PendingNonceAt(ctx, address)
		if callErr != nil {
			return classifyQueryError(callErr, "eth_getTransactionCount")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return nonce, nil
}

// GetGasPrice returns the node's gas price suggestion.
func (c *RPCClient) GetGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := c.observe(ctx, "eth_gasPrice", func(ctx context.Context) error {
		var callErr error
		price, callErr = c.eth.SuggestGasPrice(ctx)
		if callErr != nil {
			return classifyQueryError(callErr, "eth_gasPrice")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return price, nil
}

// EstimateGas simulates msg and returns the gas it would consume.
func (c *RPCClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	to := msg.To
	callMsg := ethereum.CallMsg{
		From:  msg.From,
		To:    &to,
		Value: msg.Value,
		Data:  msg.Data,
	}

	var gas uint64
	err := c.observe(ctx, "eth_estimateGas", func(ctx context.Context) error {
		var callErr error
		gas, callErr = c.eth.EstimateGas(ctx, callMsg)
		if callErr != nil {
			return classifyCallError(callErr, "eth_estimateGas")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return gas, nil
}

// SubmitRaw broadcasts a signed transaction and returns the hash reported by the node.
func (c *RPCClient) SubmitRaw(ctx context.Context, raw []byte) (common.Hash, error) {
	if len(raw) == 0 {
		return common.Hash{}, chainerr.New(chainerr.InvalidInput, "raw transaction is empty")
	}

	var hash common.Hash
	err := c.observe(ctx, "eth_sendRawTransaction", func(ctx context.Context) error {
		if callErr := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); callErr != nil {
			return classifySubmitError(callErr)
		}
		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

// ChainID returns the chain id, querying the node only the first time.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chainID != nil {
		return new(big.Int).Set(c.chainID), nil
	}

	var chainID *big.Int
	err := c.observe(ctx, "eth_chainId", func(ctx context.Context) error {
		var callErr error
		chainID, callErr = c.eth.ChainID(ctx)
		if callErr != nil {
			return classifyQueryError(callErr, "eth_chainId")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.chainID = chainID
	log.Debug().Str("url", c.url).Str("chain_id", chainID.String()).Msg("Resolved chain ID from node")

	return new(big.Int).Set(chainID), nil
}

func (c *RPCClient) observe(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	c.observer.ObserveRPC(method, outcomeOf(err), time.Since(start))

	if err != nil {
		log.Debug().Err(err).Str("method", method).Msg("RPC call failed")
	}

	return err
}
