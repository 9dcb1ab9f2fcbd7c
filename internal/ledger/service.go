// Package ledger implements the financial core: balance derivation, the
// solvency guard on debits, transfer coordination, budget accrual and the
// category lifecycle rules.
//
// Nothing in here stores a balance. Every wallet balance and budget total is
// recomputed from the append-only event history (transactions and transfers)
// on each read, filtering out rows whose reversal marker is set. That keeps a
// single source of truth that cannot drift.
package ledger

import (
	"sync"

	"gorm.io/gorm"
)

// Service exposes the guarded write paths and derivation reads on top of the
// shared gorm store.
type Service struct {
	db *gorm.DB

	mu          sync.Mutex
	walletLocks map[uint]*sync.Mutex
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:          db,
		walletLocks: make(map[uint]*sync.Mutex),
	}
}

// lockWallet returns the mutex serializing debits against one wallet. The
// solvency check is read-then-decide-then-write; without holding a wallet-wide
// lock across that sequence, two concurrent debits could both observe a
// sufficient balance and overdraw the wallet.
func (s *Service) lockWallet(walletID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.walletLocks[walletID]
	if !ok {
		l = &sync.Mutex{}
		s.walletLocks[walletID] = l
	}
	return l
}
