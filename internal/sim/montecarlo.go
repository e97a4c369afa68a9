package sim

import (
	"math"
	"sort"
)

// MonteCarloResult summarizes the distribution of final bankrolls across
// repeated simulated seasons
type MonteCarloResult struct {
	Iterations          int     `json:"iterations"`
	MeanFinal           float64 `json:"mean_final"`
	StdFinal            float64 `json:"std_final"`
	P5                  float64 `json:"p5"`
	P50                 float64 `json:"p50"`
	P95                 float64 `json:"p95"`
	ProbabilityOfProfit float64 `json:"probability_of_profit"`
	ProbabilityOfRuin   float64 `json:"probability_of_ruin"`
}

// RunMonteCarlo repeats a season under varying session seeds and aggregates
// the final combined bankrolls
func (s *Simulator) RunMonteCarlo(iterations, days int, baseSeed int64, startingPrimary, startingScrip int) MonteCarloResult {
	if iterations <= 0 {
		iterations = 100
	}

	finals := make([]float64, iterations)
	for i := 0; i < iterations; i++ {
		season := s.RunSeason(days, baseSeed+int64(i), startingPrimary, startingScrip)
		finals[i] = float64(season.FinalPrimary + season.FinalScrip)
	}

	mean, std := meanStd(finals)
	starting := float64(startingPrimary + startingScrip)

	return MonteCarloResult{
		Iterations:          iterations,
		MeanFinal:           mean,
		StdFinal:            std,
		P5:                  percentile(finals, 0.05),
		P50:                 percentile(finals, 0.50),
		P95:                 percentile(finals, 0.95),
		ProbabilityOfProfit: probabilityAbove(finals, starting),
		ProbabilityOfRuin:   probabilityAtOrBelow(finals, 0),
	}
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
