package engine

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/metrics"
	"github.com/yourusername/trackside/internal/models"
)

// MaxStakeForContext returns the current stake ceiling; a raised market
// event doubles the configured maximum for its duration
func (e *Engine) MaxStakeForContext() int {
	max := e.cfg.Wagering.MaxStake
	if e.market.IsStakeCeilingRaised() {
		max *= 2
	}
	return max
}

// PlaceWager attempts to put a stake on a competitor in one of today's
// races. Checks run in a fixed order and the first failure wins; nothing is
// mutated on any failure path. On success the stake is debited up front
// (primary coin first, scrip covering only the shortfall) and a betting
// slip is issued to the player's inventory.
func (e *Engine) PlaceWager(raceIndex, competitorIndex, stake int) models.PlaceResult {
	result := e.validateAndPlace(raceIndex, competitorIndex, stake)
	metrics.WagersPlacedTotal.WithLabelValues(string(result)).Inc()
	if !result.OK() {
		e.logger.WithFields(logrus.Fields{
			"race_index": raceIndex,
			"competitor": competitorIndex,
			"stake":      stake,
			"result":     result,
		}).Debug("Wager rejected")
	}
	return result
}

func (e *Engine) validateAndPlace(raceIndex, competitorIndex, stake int) models.PlaceResult {
	if e.wager != nil {
		return models.PlaceAlreadyWagered
	}
	if raceIndex < 0 || raceIndex >= len(e.races) {
		return models.PlaceInvalidRace
	}
	race := e.races[raceIndex]
	if race.Resolved {
		return models.PlaceRaceAlreadyResolved
	}
	if competitorIndex < 0 || competitorIndex >= len(race.Competitors) {
		return models.PlaceInvalidCompetitor
	}
	if stake < e.cfg.Wagering.MinStake || stake > e.MaxStakeForContext() {
		return models.PlaceInvalidStake
	}

	primary := e.funds.Count(models.CurrencyPrimary)
	substitute := e.funds.Count(models.CurrencySubstitute)
	if primary+substitute < stake {
		return models.PlaceInsufficientFunds
	}

	// Debit primary first; scrip covers only the shortfall
	fromPrimary := stake
	fromSubstitute := 0
	if fromPrimary > primary {
		fromPrimary = primary
		fromSubstitute = stake - primary
	}
	if fromPrimary > 0 {
		if err := e.funds.Debit(models.CurrencyPrimary, fromPrimary); err != nil {
			e.logger.WithError(err).Error("Funds collaborator refused primary debit")
		}
	}
	if fromSubstitute > 0 {
		if err := e.funds.Debit(models.CurrencySubstitute, fromSubstitute); err != nil {
			e.logger.WithError(err).Error("Funds collaborator refused substitute debit")
		}
	}

	token := uuid.New()
	e.wager = &models.Wager{
		RaceIndex:          raceIndex,
		CompetitorIndex:    competitorIndex,
		Stake:              stake,
		PaidWithSubstitute: fromSubstitute > 0,
		Receipt:            token,
	}
	e.funds.GrantReceipt(models.ReceiptBettingSlip, token)
	metrics.ActiveWager.Set(1)

	if fromSubstitute > 0 {
		// Paying in scrip is legal but talked about
		e.reputation.OnSubstituteCurrencyUsed(e.cfg.Wagering.SubstitutePenalty)
	}

	e.logger.WithFields(logrus.Fields{
		"race_index":      raceIndex,
		"competitor":      race.Competitors[competitorIndex].Name,
		"stake":           stake,
		"paid_with_scrip": fromSubstitute > 0,
	}).Info("Wager placed")

	return models.PlaceSuccess
}
