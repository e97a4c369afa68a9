package models

// LoanState represents the state of the player's loan cycle
type LoanState string

const (
	LoanNone      LoanState = "NONE"
	LoanOffered   LoanState = "OFFERED"
	LoanTaken     LoanState = "TAKEN"
	LoanRepaid    LoanState = "REPAID"
	LoanDefaulted LoanState = "DEFAULTED"
)

// Terminal reports whether the state ends the current loan cycle
func (s LoanState) Terminal() bool {
	return s == LoanRepaid || s == LoanDefaulted
}

// Loan tracks the single loan a player may hold. DayTaken is meaningful only
// while the state is TAKEN.
type Loan struct {
	State    LoanState `json:"state"`
	DayTaken int       `json:"day_taken"`
}

// LedgerTotals carries the running book against the player. NetLoss goes
// negative when the player is ahead; nothing here is ever reset outside an
// explicit game reset.
type LedgerTotals struct {
	NetLoss          int `json:"net_loss"`
	LifetimeWinnings int `json:"lifetime_winnings"`
	LifetimeLosses   int `json:"lifetime_losses"`
}

// Snapshot is the non-derivable engine state a host must persist for
// save/resume. The day's schedule itself is regenerated from DayIndex.
type Snapshot struct {
	DayIndex int          `json:"day_index"`
	Wager    *Wager       `json:"wager,omitempty"`
	Totals   LedgerTotals `json:"totals"`
	Loan     Loan         `json:"loan"`
}
