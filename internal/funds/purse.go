// Package funds provides an in-memory implementation of the engine's funds
// and inventory collaborator.
package funds

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/trackside/internal/models"
)

// Purse holds currency balances and receipt tokens. It satisfies
// engine.Funds and is safe for concurrent readers such as the status
// server.
type Purse struct {
	mu       sync.RWMutex
	balances map[models.CurrencyKind]int
	receipts map[models.ReceiptKind][]uuid.UUID
}

// NewPurse creates a purse with the given starting balances
func NewPurse(primary, substitute int) *Purse {
	return &Purse{
		balances: map[models.CurrencyKind]int{
			models.CurrencyPrimary:    primary,
			models.CurrencySubstitute: substitute,
		},
		receipts: make(map[models.ReceiptKind][]uuid.UUID),
	}
}

// Count returns the balance for a currency
func (p *Purse) Count(kind models.CurrencyKind) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.balances[kind]
}

// Debit removes funds, refusing to overdraw
func (p *Purse) Debit(kind models.CurrencyKind, amount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount < 0 {
		return fmt.Errorf("negative debit %d of %s", amount, kind)
	}
	if p.balances[kind] < amount {
		return fmt.Errorf("debit %d of %s exceeds balance %d: %w", amount, kind, p.balances[kind], models.ErrInsufficientFunds)
	}
	p.balances[kind] -= amount
	return nil
}

// Credit adds funds
func (p *Purse) Credit(kind models.CurrencyKind, amount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount < 0 {
		return fmt.Errorf("negative credit %d of %s", amount, kind)
	}
	p.balances[kind] += amount
	return nil
}

// GrantReceipt stores an inventory marker
func (p *Purse) GrantReceipt(kind models.ReceiptKind, token uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.receipts[kind] = append(p.receipts[kind], token)
}

// HasReceipt reports whether at least one marker of the kind is held
func (p *Purse) HasReceipt(kind models.ReceiptKind) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.receipts[kind]) > 0
}

// ConsumeReceipt removes the oldest marker of the kind, if any
func (p *Purse) ConsumeReceipt(kind models.ReceiptKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if held := p.receipts[kind]; len(held) > 0 {
		p.receipts[kind] = held[1:]
	}
}
