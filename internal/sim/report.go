package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/trackside/internal/config"
	"github.com/yourusername/trackside/internal/engine"
	"github.com/yourusername/trackside/internal/schedule"
)

// SeasonReport renders a season result with exact decimal arithmetic for
// the money figures
type SeasonReport struct {
	Result   SeasonResult
	Starting int
}

// ROI returns the season return on the starting bankroll as a percentage
func (r SeasonReport) ROI() decimal.Decimal {
	starting := decimal.NewFromInt(int64(r.Starting))
	if starting.IsZero() {
		return decimal.Zero
	}
	final := decimal.NewFromInt(int64(r.Result.FinalPrimary + r.Result.FinalScrip))
	return final.Sub(starting).Div(starting).Mul(decimal.NewFromInt(100)).Round(2)
}

// HitRate returns settled wins over settled wagers as a percentage
func (r SeasonReport) HitRate() decimal.Decimal {
	settled := r.Result.Wins + r.Result.Losses
	if settled == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.Result.Wins)).
		Div(decimal.NewFromInt(int64(settled))).
		Mul(decimal.NewFromInt(100)).Round(2)
}

// String renders a human-readable report
func (r SeasonReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Season over %d days\n", r.Result.Days)
	fmt.Fprintf(&b, "  wagers placed:  %d (won %d, lost %d, hit rate %s%%)\n",
		r.Result.WagersPlaced, r.Result.Wins, r.Result.Losses, r.HitRate())
	fmt.Fprintf(&b, "  notable wins:   %d\n", r.Result.NotableWins)
	fmt.Fprintf(&b, "  loans:          offered %d, taken %d, defaulted %d\n",
		r.Result.LoansOffered, r.Result.LoansTaken, r.Result.LoansDefaults)
	fmt.Fprintf(&b, "  final purse:    %d coin, %d scrip (ROI %s%%)\n",
		r.Result.FinalPrimary, r.Result.FinalScrip, r.ROI())
	fmt.Fprintf(&b, "  book totals:    net loss %d, winnings %d, losses %d\n",
		r.Result.Totals.NetLoss, r.Result.Totals.LifetimeWinnings, r.Result.Totals.LifetimeLosses)
	return b.String()
}

// ConformanceRow pairs a competitor's implied and empirical win rates
type ConformanceRow struct {
	Name      string
	Odds      string
	Implied   float64
	Empirical float64
}

// RunConformance resolves a reference race repeatedly and returns implied
// versus empirical win frequencies per competitor. The race is race 0 of
// the given day's deterministic card.
func RunConformance(cfg *config.Config, dayIndex, iterations int, seed int64) []ConformanceRow {
	gen := schedule.NewGenerator(&cfg.Racing, nil)
	races := gen.BuildDaySchedule(dayIndex)
	race := races[0]

	rng := rand.New(rand.NewSource(seed))
	counts := make([]int, len(race.Competitors))
	for i := 0; i < iterations; i++ {
		counts[engine.SampleWinner(race, rng)]++
	}

	total := race.TotalWeight()
	rows := make([]ConformanceRow, len(race.Competitors))
	for i, c := range race.Competitors {
		rows[i] = ConformanceRow{
			Name:      c.Name,
			Odds:      fmt.Sprintf("%d/%d", c.Odds.Numerator, c.Odds.Denominator),
			Implied:   c.WinProbability() / total,
			Empirical: float64(counts[i]) / float64(iterations),
		}
	}
	return rows
}
