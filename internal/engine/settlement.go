package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/metrics"
	"github.com/yourusername/trackside/internal/models"
)

// settleRace settles the outstanding wager if it references the just-resolved
// race. The stake was fully debited at placement, so a win credits payout
// plus stake back and a loss touches no funds at all.
func (e *Engine) settleRace(race *models.Race) {
	if e.wager == nil || e.wager.RaceIndex != race.Index {
		return
	}
	wager := e.wager

	e.funds.ConsumeReceipt(models.ReceiptBettingSlip)

	if wager.CompetitorIndex == race.WinnerIndex {
		e.settleWin(race, wager)
	} else {
		e.settleLoss(race, wager)
	}

	e.wager = nil
	metrics.ActiveWager.Set(0)
	metrics.NetLoss.Set(float64(e.totals.NetLoss))
	e.reputation.OnAchievementProgress(e.cfg.Wagering.AchievementTag)
}

func (e *Engine) settleWin(race *models.Race, wager *models.Wager) {
	won := race.Competitors[wager.CompetitorIndex]
	payout := wager.Stake * won.Odds.Numerator

	if err := e.funds.Credit(models.CurrencyPrimary, payout+wager.Stake); err != nil {
		// Collaborator failure; surfaced, never retried
		e.logger.WithError(err).Error("Funds collaborator refused settlement credit")
	}
	e.totals.NetLoss -= payout + wager.Stake
	e.totals.LifetimeWinnings += payout
	metrics.SettlementsTotal.WithLabelValues("win").Inc()

	e.logger.WithFields(logrus.Fields{
		"race_index": race.Index,
		"winner":     won.Name,
		"stake":      wager.Stake,
		"payout":     payout,
	}).Info("Wager won")

	if won.Odds.Numerator >= e.cfg.Racing.Outsider.Numerator {
		metrics.NotableWinsTotal.Inc()
		seed := e.cfg.Wagering.RumourSeedNPCs[e.session.Intn(len(e.cfg.Wagering.RumourSeedNPCs))]
		message := fmt.Sprintf("%s came in at %d/%d and someone collected",
			won.Name, won.Odds.Numerator, won.Odds.Denominator)
		e.reputation.OnNotableWin(seed, message)
	}
}

func (e *Engine) settleLoss(race *models.Race, wager *models.Wager) {
	e.totals.NetLoss += wager.Stake
	e.totals.LifetimeLosses += wager.Stake
	metrics.SettlementsTotal.WithLabelValues("loss").Inc()

	e.logger.WithFields(logrus.Fields{
		"race_index": race.Index,
		"backed":     race.Competitors[wager.CompetitorIndex].Name,
		"winner":     race.Competitors[race.WinnerIndex].Name,
		"stake":      wager.Stake,
	}).Info("Wager lost")
}
