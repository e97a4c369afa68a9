package engine

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/metrics"
	"github.com/yourusername/trackside/internal/models"
)

// Loan returns the current loan record
func (e *Engine) Loan() models.Loan {
	return e.loan
}

// ShouldSpawnLoanShark reports whether the surrounding game should present
// the loan offer: cumulative net loss has hit the trigger and no loan cycle
// is in flight. The NONE check prevents stacking a second loan on top of an
// outstanding one.
func (e *Engine) ShouldSpawnLoanShark() bool {
	return e.loan.State == models.LoanNone && e.totals.NetLoss >= e.cfg.Loan.DebtTrigger
}

// OfferLoan records that the offer was narratively made. Legal only from
// NONE.
func (e *Engine) OfferLoan() error {
	if e.loan.State != models.LoanNone {
		return models.ErrLoanWrongState
	}
	e.transitionLoan(models.LoanOffered)
	return nil
}

// AcceptLoan credits the principal, records the day taken, and offsets the
// debt that triggered the offer. Legal only from OFFERED.
func (e *Engine) AcceptLoan() error {
	if e.loan.State != models.LoanOffered {
		return models.ErrLoanWrongState
	}

	if err := e.funds.Credit(models.CurrencyPrimary, e.cfg.Loan.Principal); err != nil {
		e.logger.WithError(err).Error("Funds collaborator refused loan credit")
	}
	e.totals.NetLoss -= e.cfg.Loan.Principal
	metrics.NetLoss.Set(float64(e.totals.NetLoss))

	e.loan.DayTaken = e.clock.CurrentDayIndex()
	e.transitionLoan(models.LoanTaken)
	return nil
}

// RepayLoan debits principal plus interest, primary coin first. Legal only
// from TAKEN, and only with sufficient combined funds.
func (e *Engine) RepayLoan() error {
	if e.loan.State != models.LoanTaken {
		return models.ErrLoanWrongState
	}

	repayment := e.cfg.Loan.Repayment
	primary := e.funds.Count(models.CurrencyPrimary)
	substitute := e.funds.Count(models.CurrencySubstitute)
	if primary+substitute < repayment {
		return models.ErrInsufficientFunds
	}

	fromPrimary := repayment
	if fromPrimary > primary {
		fromPrimary = primary
	}
	if fromPrimary > 0 {
		if err := e.funds.Debit(models.CurrencyPrimary, fromPrimary); err != nil {
			e.logger.WithError(err).Error("Funds collaborator refused repayment debit")
		}
	}
	if shortfall := repayment - fromPrimary; shortfall > 0 {
		if err := e.funds.Debit(models.CurrencySubstitute, shortfall); err != nil {
			e.logger.WithError(err).Error("Funds collaborator refused repayment debit")
		}
	}

	e.transitionLoan(models.LoanRepaid)
	return nil
}

// IsLoanOverdue reports whether the grace period has lapsed on a taken
// loan. Overdue alone changes nothing: the surrounding game decides when to
// call DefaultLoan, so it can time the door knock.
func (e *Engine) IsLoanOverdue() bool {
	if e.loan.State != models.LoanTaken {
		return false
	}
	return e.clock.CurrentDayIndex()-e.loan.DayTaken >= e.cfg.Loan.GraceDays
}

// DefaultLoan marks the loan defaulted. Legal only while the loan is
// actually overdue.
func (e *Engine) DefaultLoan() error {
	if e.loan.State != models.LoanTaken {
		return models.ErrLoanWrongState
	}
	if !e.IsLoanOverdue() {
		return models.ErrLoanNotOverdue
	}
	e.transitionLoan(models.LoanDefaulted)
	return nil
}

// ResetLoan returns a terminal loan to NONE. Whether a fresh cycle is ever
// offered again is the surrounding game's policy, not the engine's.
func (e *Engine) ResetLoan() error {
	if !e.loan.State.Terminal() {
		return models.ErrLoanWrongState
	}
	e.loan = models.Loan{State: models.LoanNone}
	metrics.LoanTransitionsTotal.WithLabelValues(string(models.LoanNone)).Inc()
	return nil
}

func (e *Engine) transitionLoan(to models.LoanState) {
	from := e.loan.State
	e.loan.State = to
	metrics.LoanTransitionsTotal.WithLabelValues(string(to)).Inc()
	e.logger.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
		"day":  e.clock.CurrentDayIndex(),
	}).Info("Loan state changed")
}
