package models

// NoWinner is the winner index sentinel for an unresolved race.
const NoWinner = -1

// Race represents one race on the day's card. Created once per day by the
// schedule generator and mutated exactly once, when the resolver declares a
// winner.
type Race struct {
	Index       int          `json:"index"`
	PostHour    float64      `json:"post_hour"`
	Competitors []Competitor `json:"competitors"`
	Resolved    bool         `json:"resolved"`
	WinnerIndex int          `json:"winner_index"`
}

// IsDue reports whether the race's post time has passed
func (r *Race) IsDue(hourOfDay float64) bool {
	return hourOfDay >= r.PostHour
}

// Favorite returns the index of the shortest-priced competitor
func (r *Race) Favorite() int {
	best := 0
	for i, c := range r.Competitors {
		if c.WinProbability() > r.Competitors[best].WinProbability() {
			best = i
		}
	}
	return best
}

// TotalWeight sums implied probabilities across the field. Fractional odds
// carry an overround, so this does not sum to 1; it is only ever used as a
// normalizing denominator.
func (r *Race) TotalWeight() float64 {
	total := 0.0
	for _, c := range r.Competitors {
		total += c.WinProbability()
	}
	return total
}

// HasOutsider reports whether any competitor carries odds at or above the
// given numerator threshold
func (r *Race) HasOutsider(numeratorThreshold int) bool {
	for _, c := range r.Competitors {
		if c.Odds.Numerator >= numeratorThreshold {
			return true
		}
	}
	return false
}
