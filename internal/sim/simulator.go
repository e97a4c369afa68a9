package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/config"
	"github.com/yourusername/trackside/internal/engine"
	"github.com/yourusername/trackside/internal/funds"
	"github.com/yourusername/trackside/internal/models"
)

// Simulator replays full venue days against a punter policy
type Simulator struct {
	cfg    *config.Config
	policy Policy
	logger *logrus.Logger
}

// SeasonResult aggregates one simulated season
type SeasonResult struct {
	Days          int
	WagersPlaced  int
	Wins          int
	Losses        int
	NotableWins   int
	LoansOffered  int
	LoansTaken    int
	LoansDefaults int
	FinalPrimary  int
	FinalScrip    int
	Totals        models.LedgerTotals
}

// NewSimulator creates a simulator over a config and policy
func NewSimulator(cfg *config.Config, policy Policy, logger *logrus.Logger) *Simulator {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Simulator{cfg: cfg, policy: policy, logger: logger}
}

// sinkCounter records notification side effects during a run
type sinkCounter struct {
	notableWins  int
	scripUses    int
	achievements int
}

func (s *sinkCounter) OnSubstituteCurrencyUsed(int) { s.scripUses++ }
func (s *sinkCounter) OnNotableWin(string, string) { s.notableWins++ }
func (s *sinkCounter) OnAchievementProgress(string) { s.achievements++ }

// RunSeason simulates a number of consecutive venue days. The session seed
// makes the whole run repeatable; the day schedules are deterministic from
// the day indices regardless.
func (s *Simulator) RunSeason(days int, sessionSeed int64, startingPrimary, startingScrip int) SeasonResult {
	purse := funds.NewPurse(startingPrimary, startingScrip)
	clock := &engine.ManualClock{Day: 0, Hour: 0}
	sink := &sinkCounter{}

	eng := engine.New(s.cfg, clock, purse, nil, sink, s.logger)
	eng.SetSessionSeed(sessionSeed)
	policyRNG := rand.New(rand.NewSource(sessionSeed + 1))

	result := SeasonResult{Days: days}

	for day := 0; day < days; day++ {
		clock.Day = day
		clock.Hour = 0
		eng.Update(0)

		// Half-hour ticks across the card, betting whenever the slot is
		// free. Advance rolls the day over past midnight, which ends the
		// inner loop.
		for clock.Day == day {
			if eng.ActiveWager() == nil {
				if bet, ok := s.policy.ChooseBet(eng.Races(), clock.Hour, policyRNG); ok {
					if eng.PlaceWager(bet.RaceIndex, bet.CompetitorIndex, bet.Stake).OK() {
						result.WagersPlaced++
					}
				}
			}

			before := eng.Totals()
			clock.Advance(0.5)
			eng.Update(0.5 * 3600)
			after := eng.Totals()

			if after.LifetimeWinnings > before.LifetimeWinnings {
				result.Wins++
			}
			if after.LifetimeLosses > before.LifetimeLosses {
				result.Losses++
			}

			s.runDebtCycle(eng, &result)
		}
	}

	result.NotableWins = sink.notableWins
	result.FinalPrimary = purse.Count(models.CurrencyPrimary)
	result.FinalScrip = purse.Count(models.CurrencySubstitute)
	result.Totals = eng.Totals()
	return result
}

// runDebtCycle plays the surrounding game's loan narration: offer when the
// shark would spawn, accept immediately, repay when affordable, default when
// the overdue check fires.
func (s *Simulator) runDebtCycle(eng *engine.Engine, result *SeasonResult) {
	if eng.ShouldSpawnLoanShark() {
		if eng.OfferLoan() == nil {
			result.LoansOffered++
		}
	}
	switch eng.Loan().State {
	case models.LoanOffered:
		if eng.AcceptLoan() == nil {
			result.LoansTaken++
		}
	case models.LoanTaken:
		if eng.RepayLoan() == nil {
			return
		}
		if eng.IsLoanOverdue() {
			if eng.DefaultLoan() == nil {
				result.LoansDefaults++
				_ = eng.ResetLoan()
			}
		}
	}
}
