package engine

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/metrics"
	"github.com/yourusername/trackside/internal/models"
)

// resolveDueRaces resolves every unresolved race whose post time has passed,
// in ascending card order. A coarse update cadence may leave several races
// due at once; all of them settle in the same pass so none are skipped.
func (e *Engine) resolveDueRaces() {
	hour := e.clock.CurrentHourOfDay()
	if hour < 0 {
		hour = 0
	} else if hour > 24 {
		hour = 24
	}

	for _, race := range e.races {
		if race.Resolved || !race.IsDue(hour) {
			continue
		}
		e.resolveRace(race)
	}
}

// resolveRace declares a winner exactly once and hands the race to
// settlement. Calling it on a resolved race is a no-op.
func (e *Engine) resolveRace(race *models.Race) {
	if race.Resolved {
		return
	}

	winner := SampleWinner(race, e.session)
	race.Resolved = true
	race.WinnerIndex = winner
	metrics.RacesResolvedTotal.Inc()

	won := race.Competitors[winner]
	e.logger.WithFields(logrus.Fields{
		"day_index":  e.currentDay,
		"race_index": race.Index,
		"winner":     won.Name,
		"odds":       fmt.Sprintf("%d/%d", won.Odds.Numerator, won.Odds.Denominator),
	}).Info("Race resolved")

	if e.onResult != nil {
		e.onResult(models.RaceResultEvent{
			DayIndex:    e.currentDay,
			RaceIndex:   race.Index,
			WinnerIndex: winner,
			WinnerName:  won.Name,
			WinnerOdds:  fmt.Sprintf("%d/%d", won.Odds.Numerator, won.Odds.Denominator),
		})
	}

	e.settleRace(race)
}

// SampleWinner draws a winner index by probability-weighted sampling over
// the race's implied probabilities. The field's total weight exceeds 1 (the
// book carries an overround), so the draw normalizes by the summed weight
// rather than assuming unit total. A floating-point shortfall on the final
// accumulation falls back to the last competitor; the draw never fails.
func SampleWinner(race *models.Race, rng *rand.Rand) int {
	total := race.TotalWeight()
	r := rng.Float64() * total

	accumulated := 0.0
	for i, c := range race.Competitors {
		accumulated += c.WinProbability()
		if r < accumulated {
			return i
		}
	}
	return len(race.Competitors) - 1
}
