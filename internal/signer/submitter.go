// Package signer holds the signing key and either signs and submits built transactions or
// passes them through untouched for an external wallet.
package signer

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Submitter is the only component that touches the signing key.
type Submitter struct {
	mode   Mode
	conn   chain.Connection
	key    *Key
	sender common.Address
}

// NewSubmitter creates a Submitter. ModeSign requires key; ModeDisplayOnly uses sender
// (or the key's address when a key is present) as the from address of built transactions.
func NewSubmitter(mode Mode, conn chain.Connection, key *Key, sender common.Address) (*Submitter, error) {
	if conn == nil {
		return nil, errors.New("chain connection is required")
	}

	if key != nil {
		if sender != (common.Address{}) && sender != key.Address() {
			return nil, chainerr.Newf(chainerr.SigningFailed,
				"configured sender %s does not match signing key address %s", sender.Hex(), key.Address().Hex())
		}
		sender = key.Address()
	}

	if mode == ModeSign && key == nil {
		return nil, chainerr.New(chainerr.SigningFailed, "sign mode requires a signing key")
	}
	if sender == (common.Address{}) {
		return nil, chainerr.New(chainerr.InvalidInput, "display-only mode requires a sender address")
	}

	return &Submitter{mode: mode, conn: conn, key: key, sender: sender}, nil
}

// Mode returns the configured mode.
func (s *Submitter) Mode() Mode {
	return s.mode
}

// Sender is the address transactions are built for.
func (s *Submitter) Sender() common.Address {
	return s.sender
}

// Close destroys the held key.
func (s *Submitter) Close() {
	s.key.Destroy()
}

// Submit signs and sends tx, or returns it untouched in display-only mode. Failures from the
// node are returned unchanged; NonceTooLow and Underpriced require a fresh Build.
func (s *Submitter) Submit(ctx context.Context, tx *txbuilder.UnsignedTransaction) (*Outcome, error) {
	if s.mode == ModeDisplayOnly {
		return &Outcome{Mode: s.mode, Stage: StageBuilt, Unsigned: DisplayOnly(tx)}, nil
	}

	handle, err := s.SignAndSend(ctx, tx, s.key)
	if err != nil {
		return nil, err
	}

	return &Outcome{Mode: s.mode, Stage: StageSubmitted, Unsigned: tx, Handle: handle}, nil
}

// DisplayOnly returns tx unchanged for an external signer.
func DisplayOnly(tx *txbuilder.UnsignedTransaction) *txbuilder.UnsignedTransaction {
	return tx
}

// SignAndSend signs tx as a legacy transaction with key and submits it exactly once.
func (s *Submitter) SignAndSend(ctx context.Context, tx *txbuilder.UnsignedTransaction, key *Key) (*SignedTransactionHandle, error) {
	if tx == nil {
		return nil, chainerr.New(chainerr.InvalidInput, "transaction is required")
	}

	signed, err := Sign(tx, key)
	if err != nil {
		return nil, err
	}

	hash, err := s.conn.SubmitRaw(ctx, signed.RawBytes)
	if err != nil {
		log.Warn().
			Str("method", tx.Method).
			Str("from", tx.From.Hex()).
			Uint64("nonce", tx.Nonce).
			Stringer("kind", chainerr.KindOf(err)).
			Msg("Transaction submission failed")
		return nil, err
	}

	if hash != signed.Hash {
		log.Warn().Str("node_hash", hash.Hex()).Str("local_hash", signed.Hash.Hex()).Msg("Node returned a different transaction hash")
	}

	log.Info().
		Str("method", tx.Method).
		Str("from", tx.From.Hex()).
		Uint64("nonce", tx.Nonce).
		Str("tx_hash", signed.Hash.Hex()).
		Msg("Transaction submitted")

	return signed, nil
}

// Sign produces the RLP encoding and hash of tx signed by key. No network calls are made.
func Sign(tx *txbuilder.UnsignedTransaction, key *Key) (*SignedTransactionHandle, error) {
	if key == nil {
		return nil, chainerr.New(chainerr.SigningFailed, "no signing key available")
	}
	if tx.ChainID == nil || tx.GasPrice == nil {
		return nil, chainerr.New(chainerr.SigningFailed, "transaction is missing chain id or gas price")
	}
	if key.Address() != tx.From {
		return nil, chainerr.Newf(chainerr.SigningFailed,
			"transaction sender %s does not match signing key address %s", tx.From.Hex(), key.Address().Hex())
	}

	to := tx.To
	legacy := types.NewTx(&types.LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice,
		Gas:      tx.GasLimit,
		To:       &to,
		Value:    tx.Value,
		Data:     tx.Data,
	})

	var handle *SignedTransactionHandle
	err := key.withPrivateKey(func(priv *ecdsa.PrivateKey) error {
		signedTx, err := types.SignTx(legacy, types.LatestSignerForChainID(tx.ChainID), priv)
		if err != nil {
			return chainerr.Wrap(chainerr.SigningFailed, err, "failed to sign transaction")
		}

		raw, err := signedTx.MarshalBinary()
		if err != nil {
			return chainerr.Wrap(chainerr.SigningFailed, err, "failed to encode signed transaction")
		}

		handle = &SignedTransactionHandle{RawBytes: raw, Hash: signedTx.Hash()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return handle, nil
}
