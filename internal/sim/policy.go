// Package sim drives the wagering engine through simulated seasons for
// tuning and conformance checks.
package sim

import (
	"math/rand"

	"github.com/yourusername/trackside/internal/models"
)

// Bet is a policy's placement decision
type Bet struct {
	RaceIndex       int
	CompetitorIndex int
	Stake           int
}

// Policy decides what a simulated punter does with an open book
type Policy interface {
	// ChooseBet picks a bet among today's unresolved races, or reports
	// none. Called only while no wager is outstanding.
	ChooseBet(races []*models.Race, hourOfDay float64, rng *rand.Rand) (Bet, bool)
}

// FavoritePolicy always backs the favorite of the next unresolved race
type FavoritePolicy struct {
	Stake int
}

// ChooseBet implements Policy
func (p FavoritePolicy) ChooseBet(races []*models.Race, hourOfDay float64, _ *rand.Rand) (Bet, bool) {
	for _, r := range races {
		if r.Resolved || r.IsDue(hourOfDay) {
			continue
		}
		return Bet{RaceIndex: r.Index, CompetitorIndex: r.Favorite(), Stake: p.Stake}, true
	}
	return Bet{}, false
}

// RandomPolicy backs a uniformly random competitor in the next unresolved
// race; useful for stressing the ledger rather than winning
type RandomPolicy struct {
	Stake int
}

// ChooseBet implements Policy
func (p RandomPolicy) ChooseBet(races []*models.Race, hourOfDay float64, rng *rand.Rand) (Bet, bool) {
	for _, r := range races {
		if r.Resolved || r.IsDue(hourOfDay) {
			continue
		}
		return Bet{RaceIndex: r.Index, CompetitorIndex: rng.Intn(len(r.Competitors)), Stake: p.Stake}, true
	}
	return Bet{}, false
}
