// Package schedule generates the deterministic daily race card.
package schedule

import (
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/config"
	"github.com/yourusername/trackside/internal/metrics"
	"github.com/yourusername/trackside/internal/models"
)

// Generator builds daily race cards. All randomness comes from a day-local
// generator seeded solely by the day index, so replaying a day index always
// reproduces the identical card. The generator holds no per-day state and is
// safe to call for any day in any order.
type Generator struct {
	cfg    *config.RacingConfig
	logger *logrus.Logger
}

// NewGenerator creates a card generator from racing configuration
func NewGenerator(cfg *config.RacingConfig, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Generator{cfg: cfg, logger: logger}
}

// daySeed derives the day-local RNG seed from the day index alone. Player
// state and wall time must never feed into this: the host persists only the
// day index and regenerates identical content on reload.
func (g *Generator) daySeed(dayIndex int) int64 {
	if dayIndex < 0 {
		dayIndex = 0
	}
	// Knuth multiplicative spread so adjacent days land far apart; the
	// multiply wraps in uint64 before converting back
	return g.cfg.ScheduleSeedSalt ^ int64(uint64(dayIndex+1)*0x9E3779B97F4A7C15)
}

// BuildDaySchedule produces the full race card for a day index.
//
// Generator consumption order is fixed and load-bearing for determinism:
// name pool shuffle first, then one odds shuffle per race in card order,
// then the outsider race pick. Reordering these draws changes every card.
func (g *Generator) BuildDaySchedule(dayIndex int) []*models.Race {
	if dayIndex < 0 {
		dayIndex = 0
	}
	rng := rand.New(rand.NewSource(g.daySeed(dayIndex)))

	names := g.shuffledNames(rng)
	pool := g.cfg.PoolEntries()

	spacing := (g.cfg.CloseHour - g.cfg.OpenHour) / float64(g.cfg.RacesPerDay-1)
	races := make([]*models.Race, g.cfg.RacesPerDay)
	nameCursor := 0

	for i := 0; i < g.cfg.RacesPerDay; i++ {
		odds := make([]models.OddsPair, len(pool))
		copy(odds, pool)
		rng.Shuffle(len(odds), func(a, b int) {
			odds[a], odds[b] = odds[b], odds[a]
		})

		competitors := make([]models.Competitor, g.cfg.CompetitorsPerRace)
		for c := 0; c < g.cfg.CompetitorsPerRace; c++ {
			competitors[c] = models.Competitor{
				Name: names[nameCursor],
				Odds: odds[c],
			}
			nameCursor++
		}

		races[i] = &models.Race{
			Index:       i,
			PostHour:    g.cfg.OpenHour + spacing*float64(i),
			Competitors: competitors,
			Resolved:    false,
			WinnerIndex: models.NoWinner,
		}
	}

	// Exactly one race per day carries the long shot: its longest-priced
	// slot is upgraded to the outsider pair.
	outsiderRace := rng.Intn(len(races))
	g.placeOutsider(races[outsiderRace])

	metrics.SchedulesBuiltTotal.Inc()
	g.logger.WithFields(logrus.Fields{
		"day_index":     dayIndex,
		"races":         len(races),
		"outsider_race": outsiderRace,
	}).Debug("Built day schedule")

	return races
}

// placeOutsider swaps the race's longest-priced competitor onto the outsider
// odds pair
func (g *Generator) placeOutsider(race *models.Race) {
	longest := 0
	for i, c := range race.Competitors {
		if c.Odds.Numerator > race.Competitors[longest].Odds.Numerator {
			longest = i
		}
	}
	race.Competitors[longest].Odds = g.cfg.OutsiderOdds()
}

// shuffledNames returns enough names for the whole card, shuffling the
// configured pool and extending it with a generation suffix once exhausted.
// Suffixing keeps names unambiguous within a day; raw recycling would put
// two identical runners on the same card.
func (g *Generator) shuffledNames(rng *rand.Rand) []string {
	pool := make([]string, len(g.cfg.NamePool))
	copy(pool, g.cfg.NamePool)
	rng.Shuffle(len(pool), func(a, b int) {
		pool[a], pool[b] = pool[b], pool[a]
	})

	needed := g.cfg.RacesPerDay * g.cfg.CompetitorsPerRace
	names := make([]string, 0, needed)
	for i := 0; i < needed; i++ {
		base := pool[i%len(pool)]
		if gen := i / len(pool); gen > 0 {
			base = base + " " + roman(gen+1)
		}
		names = append(names, base)
	}
	return names
}

// roman renders small positive integers as Roman numerals for the name
// generation marker
func roman(n int) string {
	values := []int{10, 9, 5, 4, 1}
	symbols := []string{"X", "IX", "V", "IV", "I"}
	out := ""
	for i, v := range values {
		for n >= v {
			out += symbols[i]
			n -= v
		}
	}
	return out
}
