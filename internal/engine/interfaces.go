// Package engine implements the wagering and debt-escalation core: the
// tick-driven race day, the single-slot wager ledger, settlement, and the
// loan state machine.
package engine

import (
	"github.com/google/uuid"
	"github.com/yourusername/trackside/internal/models"
)

// Clock supplies the in-world day and time of day. The engine never reads
// wall time directly.
type Clock interface {
	CurrentDayIndex() int
	CurrentHourOfDay() float64
}

// Funds is the player's currency and inventory container. Debit is only
// called after the engine has verified the balance; Credit failures are a
// collaborator concern and are logged, not retried.
type Funds interface {
	Count(kind models.CurrencyKind) int
	Debit(kind models.CurrencyKind, amount int) error
	Credit(kind models.CurrencyKind, amount int) error
	GrantReceipt(kind models.ReceiptKind, token uuid.UUID)
	HasReceipt(kind models.ReceiptKind) bool
	ConsumeReceipt(kind models.ReceiptKind)
}

// MarketEvents exposes transient external flags affecting wagering
type MarketEvents interface {
	IsStakeCeilingRaised() bool
}

// ReputationSink receives the engine's notification side effects. All calls
// are fire-and-forget from the engine's point of view.
type ReputationSink interface {
	OnSubstituteCurrencyUsed(penalty int)
	OnNotableWin(seedNPC, message string)
	OnAchievementProgress(tag string)
}

// ResultListener observes race resolutions, e.g. for a UI push channel
type ResultListener func(event models.RaceResultEvent)

// NopMarketEvents is a MarketEvents that never raises the ceiling
type NopMarketEvents struct{}

// IsStakeCeilingRaised always reports false
func (NopMarketEvents) IsStakeCeilingRaised() bool { return false }

// NopReputationSink discards all notifications
type NopReputationSink struct{}

func (NopReputationSink) OnSubstituteCurrencyUsed(int) {}
func (NopReputationSink) OnNotableWin(string, string) {}
func (NopReputationSink) OnAchievementProgress(string) {}
