package engine

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/config"
	"github.com/yourusername/trackside/internal/metrics"
	"github.com/yourusername/trackside/internal/models"
	"github.com/yourusername/trackside/internal/schedule"
)

// Engine is the wagering core. It is single-threaded and cooperative: the
// host advances it with one Update call per frame, and every mutation to
// race, wager, and loan state happens synchronously inside that call (or
// inside an explicit command such as PlaceWager).
//
// Two generators with disjoint roles: the schedule generator's day-local RNG
// reproduces race cards from the day index alone, while the session RNG
// draws race winners and other per-event randomness that need not replay
// across sessions. Neither may stand in for the other.
type Engine struct {
	cfg        *config.Config
	clock      Clock
	funds      Funds
	market     MarketEvents
	reputation ReputationSink
	generator  *schedule.Generator
	session    *rand.Rand
	logger     *logrus.Logger

	currentDay int
	races      []*models.Race
	wager      *models.Wager
	totals     models.LedgerTotals
	loan       models.Loan

	onResult ResultListener
}

// New creates an engine wired to its collaborators. Nil market and
// reputation collaborators fall back to no-ops; clock and funds are
// mandatory.
func New(cfg *config.Config, clock Clock, funds Funds, market MarketEvents, reputation ReputationSink, logger *logrus.Logger) *Engine {
	if market == nil {
		market = NopMarketEvents{}
	}
	if reputation == nil {
		reputation = NopReputationSink{}
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Engine{
		cfg:        cfg,
		clock:      clock,
		funds:      funds,
		market:     market,
		reputation: reputation,
		generator:  schedule.NewGenerator(&cfg.Racing, logger),
		session:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     logger,
		currentDay: -1,
		loan:       models.Loan{State: models.LoanNone},
	}
}

// SetSessionSeed reseeds the session generator. Simulations use this for
// repeatable runs; live play never calls it.
func (e *Engine) SetSessionSeed(seed int64) {
	e.session = rand.New(rand.NewSource(seed))
}

// SetResultListener installs a callback invoked after every race resolution
func (e *Engine) SetResultListener(fn ResultListener) {
	e.onResult = fn
}

// Update advances the engine by one host frame: roll the day over if the
// clock moved on, then resolve (and settle) every race whose post time has
// passed. elapsedSeconds is accepted for host-loop symmetry; all timing
// decisions come from the clock collaborator.
func (e *Engine) Update(elapsedSeconds float64) {
	_ = elapsedSeconds
	e.BuildOrRefreshDaySchedule()
	e.resolveDueRaces()
}

// BuildOrRefreshDaySchedule makes sure the held card matches the clock's
// day. Calling it redundantly for the same day is a no-op; on a day change
// the previous card is discarded wholesale.
func (e *Engine) BuildOrRefreshDaySchedule() {
	day := e.clock.CurrentDayIndex()
	if day < 0 {
		// A broken clock must not halt the simulation
		day = 0
	}
	if day == e.currentDay && e.races != nil {
		return
	}

	// Yesterday's races are all past post by midnight. Settle any
	// stragglers before discarding the card, so an open wager can never
	// carry over and attach to the new day's race at the same index.
	if e.races != nil {
		for _, race := range e.races {
			if !race.Resolved {
				e.resolveRace(race)
			}
		}
	}

	e.races = e.generator.BuildDaySchedule(day)
	e.currentDay = day
	metrics.CurrentDayIndex.Set(float64(day))
	e.logger.WithFields(logrus.Fields{
		"day_index": day,
		"races":     len(e.races),
	}).Info("Race card posted")
}

// CurrentDay returns the day index of the held schedule, or -1 before the
// first build
func (e *Engine) CurrentDay() int {
	return e.currentDay
}

// Races returns today's card. Callers must treat the result as read-only.
func (e *Engine) Races() []*models.Race {
	return e.races
}

// ActiveWager returns a copy of the outstanding wager, or nil
func (e *Engine) ActiveWager() *models.Wager {
	if e.wager == nil {
		return nil
	}
	w := *e.wager
	return &w
}

// Totals returns the running ledger totals
func (e *Engine) Totals() models.LedgerTotals {
	return e.totals
}

// Snapshot captures the non-derivable state for host persistence. The race
// card is excluded: it regenerates from DayIndex.
func (e *Engine) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		DayIndex: e.currentDay,
		Totals:   e.totals,
		Loan:     e.loan,
	}
	if e.wager != nil {
		w := *e.wager
		snap.Wager = &w
	}
	return snap
}

// Restore reinstates persisted state and rebuilds the day's card from the
// snapshot's day index. Races already resolved before the save are re-run
// by the next Update; their settlement consumed the wager then, so replays
// with no wager attached are harmless.
func (e *Engine) Restore(snap models.Snapshot) {
	e.totals = snap.Totals
	e.loan = snap.Loan
	e.wager = nil
	if snap.Wager != nil {
		w := *snap.Wager
		e.wager = &w
	}
	if snap.DayIndex >= 0 {
		e.races = e.generator.BuildDaySchedule(snap.DayIndex)
		e.currentDay = snap.DayIndex
	}
	e.publishGauges()
}

func (e *Engine) publishGauges() {
	metrics.NetLoss.Set(float64(e.totals.NetLoss))
	if e.wager != nil {
		metrics.ActiveWager.Set(1)
	} else {
		metrics.ActiveWager.Set(0)
	}
	if e.currentDay >= 0 {
		metrics.CurrentDayIndex.Set(float64(e.currentDay))
	}
}
