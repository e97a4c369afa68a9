package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackside/internal/models"
)

// competitorAtOdds finds a runner carrying exactly num/den odds in a race
func competitorAtOdds(t *testing.T, race *models.Race, num, den int) int {
	t.Helper()
	for i, c := range race.Competitors {
		if c.Odds.Numerator == num && c.Odds.Denominator == den {
			return i
		}
	}
	t.Fatalf("no %d/%d runner in race %d", num, den, race.Index)
	return -1
}

// raceWithOdds finds a race on today's card containing the given odds pair
func raceWithOdds(t *testing.T, races []*models.Race, num, den int) *models.Race {
	t.Helper()
	for _, r := range races {
		for _, c := range r.Competitors {
			if c.Odds.Numerator == num && c.Odds.Denominator == den {
				return r
			}
		}
	}
	t.Fatalf("no race carries %d/%d odds", num, den)
	return nil
}

func TestSettlementWinArithmetic(t *testing.T) {
	rig := newTestRig(t, 100, 0)

	race := raceWithOdds(t, rig.engine.Races(), 4, 1)
	backed := competitorAtOdds(t, race, 4, 1)
	require.Equal(t, models.PlaceSuccess, rig.engine.PlaceWager(race.Index, backed, 10))
	require.Equal(t, 90, rig.purse.Count(models.CurrencyPrimary))

	// Force the backed runner home and settle directly
	race.Resolved = true
	race.WinnerIndex = backed
	rig.engine.settleRace(race)

	// 10 at 4/1: 40 winnings plus the stake back
	assert.Equal(t, 140, rig.purse.Count(models.CurrencyPrimary))
	assert.Nil(t, rig.engine.ActiveWager())
	assert.False(t, rig.purse.HasReceipt(models.ReceiptBettingSlip))

	totals := rig.engine.Totals()
	assert.Equal(t, -50, totals.NetLoss)
	assert.Equal(t, 40, totals.LifetimeWinnings)
	assert.Equal(t, 0, totals.LifetimeLosses)

	// Slot is free again
	assert.Equal(t, models.PlaceSuccess, rig.engine.PlaceWager(raceAfter(rig, race), 0, 10))
}

func TestSettlementLossArithmetic(t *testing.T) {
	rig := newTestRig(t, 100, 0)

	race := rig.engine.Races()[2]
	require.Equal(t, models.PlaceSuccess, rig.engine.PlaceWager(2, 0, 10))

	race.Resolved = true
	race.WinnerIndex = 1
	rig.engine.settleRace(race)

	// Nothing credited; the stake stays gone
	assert.Equal(t, 90, rig.purse.Count(models.CurrencyPrimary))
	assert.Nil(t, rig.engine.ActiveWager())
	assert.False(t, rig.purse.HasReceipt(models.ReceiptBettingSlip))

	totals := rig.engine.Totals()
	assert.Equal(t, 10, totals.NetLoss)
	assert.Equal(t, 0, totals.LifetimeWinnings)
	assert.Equal(t, 10, totals.LifetimeLosses)
}

func TestSettlementIgnoresUnrelatedRace(t *testing.T) {
	rig := newTestRig(t, 100, 0)

	require.Equal(t, models.PlaceSuccess, rig.engine.PlaceWager(3, 0, 10))

	other := rig.engine.Races()[1]
	other.Resolved = true
	other.WinnerIndex = 0
	rig.engine.settleRace(other)

	assert.NotNil(t, rig.engine.ActiveWager())
	assert.True(t, rig.purse.HasReceipt(models.ReceiptBettingSlip))
}

func TestNotableWinEmitsRumour(t *testing.T) {
	rig := newTestRig(t, 100, 0)

	race := raceWithOdds(t, rig.engine.Races(), 33, 1)
	backed := competitorAtOdds(t, race, 33, 1)
	require.Equal(t, models.PlaceSuccess, rig.engine.PlaceWager(race.Index, backed, 10))

	race.Resolved = true
	race.WinnerIndex = backed
	rig.engine.settleRace(race)

	require.Len(t, rig.sink.notableSeeds, 1)
	assert.NotEmpty(t, rig.sink.notableSeeds[0])
	assert.Contains(t, rig.sink.notableMsgs[0], "33/1")
	// 90 left after the stake, plus 330 winnings and the 10 back
	assert.Equal(t, 430, rig.purse.Count(models.CurrencyPrimary))
}

func TestOrdinaryWinStaysQuiet(t *testing.T) {
	rig := newTestRig(t, 100, 0)

	race := raceWithOdds(t, rig.engine.Races(), 2, 1)
	backed := competitorAtOdds(t, race, 2, 1)
	require.Equal(t, models.PlaceSuccess, rig.engine.PlaceWager(race.Index, backed, 10))

	race.Resolved = true
	race.WinnerIndex = backed
	rig.engine.settleRace(race)

	assert.Empty(t, rig.sink.notableSeeds)
	assert.Len(t, rig.sink.achievements, 1)
}

// raceAfter returns some race index other than the given race, unresolved
func raceAfter(rig *testRig, settled *models.Race) int {
	for _, r := range rig.engine.Races() {
		if !r.Resolved && r.Index != settled.Index {
			return r.Index
		}
	}
	return 0
}
