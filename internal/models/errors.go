package models

import "errors"

// Custom errors
var (
	ErrLoanWrongState    = errors.New("loan action not legal in current state")
	ErrLoanNotOverdue    = errors.New("loan is not overdue")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoSnapshot        = errors.New("no saved state found")
	ErrInvalidOddsPool   = errors.New("odds pool does not match competitors per race")
)
