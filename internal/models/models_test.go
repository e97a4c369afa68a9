package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		num, den int
		want     float64
	}{
		{2, 1, 1.0 / 3.0},
		{4, 1, 0.2},
		{6, 1, 1.0 / 7.0},
		{10, 1, 1.0 / 11.0},
		{33, 1, 1.0 / 34.0},
		{1, 1, 0.5},
	}
	for _, tt := range tests {
		odds := OddsPair{Numerator: tt.num, Denominator: tt.den}
		assert.InDelta(t, tt.want, odds.ImpliedProbability(), 1e-12, "%d/%d", tt.num, tt.den)
	}
}

func TestRaceFavorite(t *testing.T) {
	race := Race{
		Competitors: []Competitor{
			{Name: "long", Odds: OddsPair{Numerator: 10, Denominator: 1}},
			{Name: "fav", Odds: OddsPair{Numerator: 2, Denominator: 1}},
			{Name: "mid", Odds: OddsPair{Numerator: 4, Denominator: 1}},
		},
	}
	assert.Equal(t, 1, race.Favorite())
}

func TestRaceTotalWeightCarriesOverround(t *testing.T) {
	race := Race{
		Competitors: []Competitor{
			{Odds: OddsPair{Numerator: 2, Denominator: 1}},
			{Odds: OddsPair{Numerator: 4, Denominator: 1}},
			{Odds: OddsPair{Numerator: 4, Denominator: 1}},
			{Odds: OddsPair{Numerator: 6, Denominator: 1}},
			{Odds: OddsPair{Numerator: 6, Denominator: 1}},
			{Odds: OddsPair{Numerator: 10, Denominator: 1}},
		},
	}
	// A real book never sums to 1
	assert.Greater(t, race.TotalWeight(), 1.0)
}

func TestRaceIsDue(t *testing.T) {
	race := Race{PostHour: 14.5}
	assert.False(t, race.IsDue(14.49))
	assert.True(t, race.IsDue(14.5))
	assert.True(t, race.IsDue(20))
}

func TestLoanStateTerminal(t *testing.T) {
	assert.False(t, LoanNone.Terminal())
	assert.False(t, LoanOffered.Terminal())
	assert.False(t, LoanTaken.Terminal())
	assert.True(t, LoanRepaid.Terminal())
	assert.True(t, LoanDefaulted.Terminal())
}

func TestPlaceResultOK(t *testing.T) {
	assert.True(t, PlaceSuccess.OK())
	assert.False(t, PlaceAlreadyWagered.OK())
	assert.False(t, PlaceInsufficientFunds.OK())
}
