package models

import (
	"github.com/google/uuid"
)

// CurrencyKind identifies a spendable currency in the player's purse
type CurrencyKind string

const (
	// CurrencyPrimary is the venue's standard coin
	CurrencyPrimary CurrencyKind = "coin"
	// CurrencySubstitute is the stigmatized fallback tender, accepted only
	// to cover a shortfall and penalized on use
	CurrencySubstitute CurrencyKind = "scrip"
)

// ReceiptKind identifies an inventory marker issued by the venue
type ReceiptKind string

// ReceiptBettingSlip marks an unsettled wager; consumed at settlement.
const ReceiptBettingSlip ReceiptKind = "betting_slip"

// PlaceResult is the outcome code of a wager placement attempt
type PlaceResult string

const (
	PlaceSuccess             PlaceResult = "SUCCESS"
	PlaceAlreadyWagered      PlaceResult = "ALREADY_WAGERED"
	PlaceInvalidRace         PlaceResult = "INVALID_RACE"
	PlaceRaceAlreadyResolved PlaceResult = "RACE_ALREADY_RESOLVED"
	PlaceInvalidCompetitor   PlaceResult = "INVALID_COMPETITOR"
	PlaceInvalidStake        PlaceResult = "INVALID_STAKE"
	PlaceInsufficientFunds   PlaceResult = "INSUFFICIENT_FUNDS"
)

// OK reports whether the placement succeeded
func (p PlaceResult) OK() bool {
	return p == PlaceSuccess
}

// Wager is the single outstanding bet. At most one exists system-wide at any
// time; it is destroyed on settlement.
type Wager struct {
	RaceIndex          int       `json:"race_index"`
	CompetitorIndex    int       `json:"competitor_index"`
	Stake              int       `json:"stake"`
	PaidWithSubstitute bool      `json:"paid_with_substitute"`
	Receipt            uuid.UUID `json:"receipt"`
}

// RaceResultEvent describes a resolved race, as pushed to UI listeners
type RaceResultEvent struct {
	DayIndex    int    `json:"day_index"`
	RaceIndex   int    `json:"race_index"`
	WinnerIndex int    `json:"winner_index"`
	WinnerName  string `json:"winner_name"`
	WinnerOdds  string `json:"winner_odds"`
}
