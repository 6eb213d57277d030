package signer

import (
	"crypto/ecdsa"
	"encoding/json"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/rs/zerolog"
)

// Key holds private key material for exactly one owner. Only the address is ever rendered by
// String, GoString, JSON or zerolog. Destroy zeroes the secret; a destroyed key cannot sign.
type Key struct {
	mu        sync.Mutex
	secret    []byte
	address   common.Address
	destroyed bool
}

// newKey copies secret and derives its address. The caller still owns and must clear secret.
func newKey(secret []byte) (*Key, error) {
	priv, err := crypto.ToECDSA(secret)
	if err != nil {
		return nil, chainerr.New(chainerr.SigningFailed, "private key is not a valid secp256k1 key")
	}
	defer wipeECDSA(priv)

	owned := make([]byte, len(secret))
	copy(owned, secret)

	return &Key{
		secret:  owned,
		address: crypto.PubkeyToAddress(priv.PublicKey),
	}, nil
}

// Address returns the address controlled by the key.
func (k *Key) Address() common.Address {
	return k.address
}

// Destroyed reports whether Destroy has been called.
func (k *Key) Destroyed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.destroyed
}

// Destroy zeroes the key material. It is safe to call more than once.
func (k *Key) Destroy() {
	if k == nil {
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	wipe(k.secret)
	k.secret = nil
	k.destroyed = true
}

// withPrivateKey lends fn a short-lived ECDSA key that is wiped when fn returns.
func (k *Key) withPrivateKey(fn func(priv *ecdsa.PrivateKey) error) error {
	if k == nil {
		return chainerr.New(chainerr.SigningFailed, "no signing key available")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.destroyed || len(k.secret) == 0 {
		return chainerr.New(chainerr.SigningFailed, "signing key has been destroyed")
	}

	priv, err := crypto.ToECDSA(k.secret)
	if err != nil {
		return chainerr.New(chainerr.SigningFailed, "signing key is malformed")
	}
	defer wipeECDSA(priv)

	return fn(priv)
}

func (k *Key) String() string {
	return "signer.Key(" + k.address.Hex() + ")"
}

func (k *Key) GoString() string {
	return k.String()
}

// MarshalJSON renders only the address.
func (k *Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Address string `json:"address"`
	}{Address: k.address.Hex()})
}

// MarshalZerologObject renders only the address.
func (k *Key) MarshalZerologObject(e *zerolog.Event) {
	e.Str("address", k.address.Hex())
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func wipeECDSA(priv *ecdsa.PrivateKey) {
	if priv == nil || priv.D == nil {
		return
	}
	words := priv.D.Bits()
	for i := range words {
		words[i] = 0
	}
	priv.D.SetInt64(0)
}
