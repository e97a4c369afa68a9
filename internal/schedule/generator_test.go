package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackside/internal/config"
)

func testRacingConfig(t *testing.T) *config.RacingConfig {
	t.Helper()
	cfg, err := config.LoadWithDefaults("testdata/nonexistent.yaml")
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))
	return &cfg.Racing
}

func TestBuildDayScheduleDeterminism(t *testing.T) {
	cfg := testRacingConfig(t)

	// Two independent generators must agree on every field for the same day
	first := NewGenerator(cfg, nil).BuildDaySchedule(42)
	second := NewGenerator(cfg, nil).BuildDaySchedule(42)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i], "race %d differs between rebuilds", i)
	}
}

func TestBuildDayScheduleDiffersAcrossDays(t *testing.T) {
	cfg := testRacingConfig(t)
	gen := NewGenerator(cfg, nil)

	dayA := gen.BuildDaySchedule(1)
	dayB := gen.BuildDaySchedule(2)

	assert.NotEqual(t, dayA, dayB)
}

func TestBuildDayScheduleShape(t *testing.T) {
	cfg := testRacingConfig(t)
	races := NewGenerator(cfg, nil).BuildDaySchedule(7)

	require.Len(t, races, cfg.RacesPerDay)

	spacing := (cfg.CloseHour - cfg.OpenHour) / float64(cfg.RacesPerDay-1)
	for i, race := range races {
		assert.Equal(t, i, race.Index)
		assert.InDelta(t, cfg.OpenHour+spacing*float64(i), race.PostHour, 1e-9)
		assert.Len(t, race.Competitors, cfg.CompetitorsPerRace)
		assert.False(t, race.Resolved)
		assert.Equal(t, -1, race.WinnerIndex)
	}

	assert.InDelta(t, cfg.OpenHour, races[0].PostHour, 1e-9)
	assert.InDelta(t, cfg.CloseHour, races[len(races)-1].PostHour, 1e-9)
}

func TestExactlyOneOutsiderPerDay(t *testing.T) {
	cfg := testRacingConfig(t)
	gen := NewGenerator(cfg, nil)

	// A simulated year: every day carries the long shot on exactly one race
	for day := 0; day < 365; day++ {
		races := gen.BuildDaySchedule(day)

		outsiderRaces := 0
		outsiderRunners := 0
		for _, race := range races {
			count := 0
			for _, c := range race.Competitors {
				if c.Odds.Numerator == cfg.Outsider.Numerator {
					count++
				}
			}
			if count > 0 {
				outsiderRaces++
			}
			outsiderRunners += count
		}

		require.Equal(t, 1, outsiderRaces, "day %d", day)
		require.Equal(t, 1, outsiderRunners, "day %d", day)
	}
}

func TestDayNamesUnambiguous(t *testing.T) {
	cfg := testRacingConfig(t)
	races := NewGenerator(cfg, nil).BuildDaySchedule(3)

	seen := make(map[string]bool)
	for _, race := range races {
		for _, c := range race.Competitors {
			assert.False(t, seen[c.Name], "duplicate runner name %q within one day", c.Name)
			seen[c.Name] = true
		}
	}
}

func TestNameSuffixingBeyondPool(t *testing.T) {
	cfg := testRacingConfig(t)
	small := *cfg
	small.NamePool = []string{"Alpha", "Beta", "Gamma"}

	races := NewGenerator(&small, nil).BuildDaySchedule(0)

	suffixed := 0
	seen := make(map[string]bool)
	for _, race := range races {
		for _, c := range race.Competitors {
			require.False(t, seen[c.Name])
			seen[c.Name] = true
			if strings.Contains(c.Name, " ") {
				suffixed++
			}
		}
	}
	assert.Greater(t, suffixed, 0, "a three-name pool must be extended with suffixes")
}

func TestDaySeedSpreadsAcrossDays(t *testing.T) {
	cfg := testRacingConfig(t)
	gen := NewGenerator(cfg, nil)

	seen := make(map[int64]bool)
	for day := 0; day < 1000; day++ {
		seed := gen.daySeed(day)
		assert.False(t, seen[seed], "seed collision at day %d", day)
		seen[seed] = true
	}
}

func TestNegativeDayClamped(t *testing.T) {
	cfg := testRacingConfig(t)
	gen := NewGenerator(cfg, nil)

	assert.Equal(t, gen.BuildDaySchedule(0), gen.BuildDaySchedule(-5))
}

func TestRoman(t *testing.T) {
	cases := map[int]string{1: "I", 2: "II", 3: "III", 4: "IV", 5: "V", 9: "IX", 12: "XII"}
	for n, want := range cases {
		assert.Equal(t, want, roman(n))
	}
}

func TestCardCache(t *testing.T) {
	cfg := testRacingConfig(t)
	cache := NewCardCache(NewGenerator(cfg, nil), 0)

	first := cache.Card(11)
	second := cache.Card(11)
	require.Equal(t, first, second)
	assert.Equal(t, 1, cache.ItemCount())

	// Mutating a returned card must not poison the cache
	first[0].Resolved = true
	third := cache.Card(11)
	assert.False(t, third[0].Resolved)
}
