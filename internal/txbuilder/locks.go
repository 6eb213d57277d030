package txbuilder

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// SenderLocks serializes build-sign-submit sequences per sender address. Holding the lock
// does not cache anything: every Build still reads the pending nonce from the node.
type SenderLocks struct {
	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

// NewSenderLocks creates an empty lock table.
func NewSenderLocks() *SenderLocks {
	return &SenderLocks{locks: make(map[common.Address]*sync.Mutex)}
}

// Lock blocks until sender is free and returns the matching unlock function.
func (l *SenderLocks) Lock(sender common.Address) func() {
	l.mu.Lock()
	m, ok := l.locks[sender]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sender] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
