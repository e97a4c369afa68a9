package models

// OddsPair represents fractional odds as numerator/denominator (e.g. 4/1).
type OddsPair struct {
	Numerator   int `json:"numerator" validate:"required,gte=0"`
	Denominator int `json:"denominator" validate:"required,gt=0"`
}

// ImpliedProbability returns the win probability implied by the odds pair
func (o OddsPair) ImpliedProbability() float64 {
	return float64(o.Denominator) / float64(o.Numerator+o.Denominator)
}

// Competitor represents a single runner on a race card. Immutable once the
// day schedule is built.
type Competitor struct {
	Name string   `json:"name"`
	Odds OddsPair `json:"odds"`
}

// WinProbability returns the probability implied by the competitor's odds
func (c Competitor) WinProbability() float64 {
	return c.Odds.ImpliedProbability()
}
