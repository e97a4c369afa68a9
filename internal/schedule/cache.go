package schedule

import (
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/trackside/internal/models"
)

// CardCache memoizes generated race cards by day index. Regeneration is
// deterministic, so entries can expire freely; the cache only saves the
// shuffle work on hot history lookups.
type CardCache struct {
	generator *Generator
	cache     *cache.Cache
}

// NewCardCache creates a card cache over a generator
func NewCardCache(generator *Generator, ttl time.Duration) *CardCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CardCache{
		generator: generator,
		cache:     cache.New(ttl, ttl*2),
	}
}

// Card returns the race card for a day index, building it on a miss.
// Callers get a private copy; cached races are never handed out mutable,
// since resolution state belongs to the engine, not to history lookups.
func (cc *CardCache) Card(dayIndex int) []*models.Race {
	key := strconv.Itoa(dayIndex)
	if cached, found := cc.cache.Get(key); found {
		if races, ok := cached.([]*models.Race); ok {
			return copyCard(races)
		}
	}

	races := cc.generator.BuildDaySchedule(dayIndex)
	cc.cache.Set(key, copyCard(races), cache.DefaultExpiration)
	return races
}

// ItemCount reports the number of cached cards
func (cc *CardCache) ItemCount() int {
	return cc.cache.ItemCount()
}

func copyCard(races []*models.Race) []*models.Race {
	out := make([]*models.Race, len(races))
	for i, r := range races {
		clone := *r
		clone.Competitors = make([]models.Competitor, len(r.Competitors))
		copy(clone.Competitors, r.Competitors)
		out[i] = &clone
	}
	return out
}
