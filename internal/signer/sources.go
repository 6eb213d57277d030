package signer

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/term"
)

const (
	// BIP39: seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
	pbkdf2Iterations = 2048
	pbkdf2KeyLength  = 64

	hardenedOffset = 0x80000000
)

// PasswordReader reads a secret without echoing it.
type PasswordReader func(prompt string) ([]byte, error)

// TerminalPasswordReader reads from the controlling terminal of stdin.
func TerminalPasswordReader(prompt string) ([]byte, error) {
	//nolint:forbidigo // Password input requires direct terminal I/O
	fmt.Fprint(os.Stderr, prompt)

	secret, err := term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "failed to read secret from terminal")
	}

	//nolint:forbidigo // Password input requires direct terminal I/O
	fmt.Fprintln(os.Stderr)

	return secret, nil
}

// KeyFromHex parses a 32-byte hex private key, with or without 0x prefix.
func KeyFromHex(input string) (*Key, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(input), "0x"), "0X")
	if trimmed == "" {
		return nil, chainerr.New(chainerr.SigningFailed, "private key is empty")
	}

	secret, err := hex.DecodeString(trimmed)
	if err != nil {
		// the decoder error quotes the offending character, so it is not wrapped
		return nil, chainerr.New(chainerr.SigningFailed, "private key is not valid hex")
	}
	defer wipe(secret)

	return newKey(secret)
}

// KeyFromKeystore decrypts a Web3 Secret Storage (keystore v3) document.
func KeyFromKeystore(keyJSON []byte, password string) (*Key, error) {
	decrypted, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.SigningFailed, err, "failed to decrypt keystore")
	}
	defer wipeECDSA(decrypted.PrivateKey)

	secret := crypto.FromECDSA(decrypted.PrivateKey)
	defer wipe(secret)

	return newKey(secret)
}

// KeyFromMnemonic derives the key at path (e.g. m/44'/60'/0'/0/0) from a BIP-39 mnemonic.
func KeyFromMnemonic(mnemonic string, passphrase string, path string) (*Key, error) {
	words := strings.Join(strings.Fields(mnemonic), " ")
	if words == "" {
		return nil, chainerr.New(chainerr.SigningFailed, "mnemonic is empty")
	}
	if !bip39.IsMnemonicValid(words) {
		return nil, chainerr.New(chainerr.SigningFailed, "mnemonic is not a valid BIP-39 phrase")
	}

	indices, err := parseDerivationPath(path)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.SigningFailed, err, "invalid derivation path")
	}

	seed := pbkdf2.Key([]byte(words), []byte("mnemonic"+passphrase), pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
	defer wipe(seed)

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.SigningFailed, err, "failed to create master key")
	}

	for _, index := range indices {
		child, err := key.NewChildKey(index)
		wipe(key.Key)
		if err != nil {
			return nil, chainerr.Wrap(chainerr.SigningFailed, err, "failed to derive child key")
		}
		key = child
	}
	defer wipe(key.Key)

	return newKey(key.Key)
}

// parseDerivationPath turns "m/44'/60'/0'/0/0" into child indices.
func parseDerivationPath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, errors.Errorf("path %q must start with m/", path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		part = strings.TrimRight(part, "'h")

		index, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, errors.Errorf("invalid path segment %q", part)
		}
		if hardened {
			index += hardenedOffset
		}

		indices = append(indices, uint32(index))
	}

	return indices, nil
}

// LoadKey builds the signing key from the configured source. KeySourceNone yields a nil key.
// Prompts go through readSecret so that callers can substitute the terminal.
func LoadKey(cfg config.Signer, readSecret PasswordReader) (*Key, error) {
	if readSecret == nil {
		readSecret = TerminalPasswordReader
	}

	var (
		key *Key
		err error
	)

	switch cfg.KeySource {
	case config.KeySourceNone:
		return nil, nil //nolint:nilnil
	case config.KeySourceEnv:
		if cfg.PrivateKey == "" {
			return nil, chainerr.New(chainerr.SigningFailed, "KX_PRIVATE_KEY is not set")
		}
		key, err = KeyFromHex(cfg.PrivateKey)
	case config.KeySourcePrompt:
		var secret []byte
		secret, err = readSecret("Private key (hex): ")
		if err != nil {
			return nil, err
		}
		key, err = KeyFromHex(string(secret))
		wipe(secret)
	case config.KeySourceKeystore:
		key, err = loadKeystoreKey(cfg, readSecret)
	case config.KeySourceMnemonic:
		key, err = loadMnemonicKey(cfg, readSecret)
	default:
		return nil, chainerr.Newf(chainerr.InvalidInput, "unknown key source %q", cfg.KeySource)
	}

	if err != nil {
		return nil, err
	}

	log.Info().Str("source", cfg.KeySource).Object("key", key).Msg("Signing key loaded")

	return key, nil
}

func loadKeystoreKey(cfg config.Signer, readSecret PasswordReader) (*Key, error) {
	if cfg.KeystorePath == "" {
		return nil, chainerr.New(chainerr.SigningFailed, "KX_KEYSTORE_PATH is not set")
	}

	keyJSON, err := os.ReadFile(cfg.KeystorePath)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.SigningFailed, err, "failed to read keystore file")
	}

	password := cfg.KeystorePassword
	if password == "" {
		secret, err := readSecret("Keystore password: ")
		if err != nil {
			return nil, err
		}
		password = string(secret)
		wipe(secret)
	}

	return KeyFromKeystore(keyJSON, password)
}

func loadMnemonicKey(cfg config.Signer, readSecret PasswordReader) (*Key, error) {
	mnemonic := cfg.Mnemonic
	if mnemonic == "" {
		secret, err := readSecret("Mnemonic: ")
		if err != nil {
			return nil, err
		}
		mnemonic = string(secret)
		wipe(secret)
	}

	path := cfg.DerivationPath
	if path == "" {
		path = config.DefaultDerivationPath
	}

	return KeyFromMnemonic(mnemonic, cfg.MnemonicPassphrase, path)
}
