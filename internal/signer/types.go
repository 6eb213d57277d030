package signer

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/txbuilder"
)

// Mode selects whether the Submitter signs locally or hands the transaction to an external signer.
type Mode int

const (
	ModeSign Mode = iota
	ModeDisplayOnly
)

func (m Mode) String() string {
	if m == ModeDisplayOnly {
		return "display"
	}
	return "sign"
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMode maps the configured mode name.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "sign":
		return ModeSign, true
	case "display":
		return ModeDisplayOnly, true
	default:
		return ModeSign, false
	}
}

// Stage is how far a transaction got. Responsibility ends at StageSubmitted.
type Stage int

const (
	StageBuilt Stage = iota
	StageSigned
	StageSubmitted
)

func (s Stage) String() string {
	switch s {
	case StageSigned:
		return "signed"
	case StageSubmitted:
		return "submitted"
	default:
		return "built"
	}
}

// MarshalText renders the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SignedTransactionHandle is the immutable result of a successful submission.
type SignedTransactionHandle struct {
	RawBytes []byte      `json:"rawBytes"`
	Hash     common.Hash `json:"hash"`
}

// Outcome reports what Submit did with a built transaction. Handle is nil in display-only mode.
type Outcome struct {
	Mode     Mode                           `json:"mode"`
	Stage    Stage                          `json:"stage"`
	Unsigned *txbuilder.UnsignedTransaction `json:"unsigned"`
	Handle   *SignedTransactionHandle       `json:"handle,omitempty"`
}
