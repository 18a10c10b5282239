package models

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ImpactStats is the single site-wide aggregate. Only Raised is driven by donations;
// the other counters are curated by hand.
type ImpactStats struct {
	Raised    decimal.Decimal `json:"raised"`
	Lives     int64           `json:"lives"`
	Students  int64           `json:"students"`
	Meals     int64           `json:"meals"`
	Medical   int64           `json:"medical"`
	Homes     int64           `json:"homes"`
	UpdatedAt time.Time       `json:"-"`
}

// DefaultStats is the seed written once into an empty store.
func DefaultStats() ImpactStats {
	return ImpactStats{
		Raised:   decimal.NewFromInt(2584912),
		Lives:    15430,
		Students: 5200,
		Meals:    120000,
		Medical:  8400,
		Homes:    340,
	}
}

// StatsCounter guards an in-process copy of the aggregate.
type StatsCounter struct {
	mu    sync.RWMutex
	stats ImpactStats
}

func NewStatsCounter(seed ImpactStats) *StatsCounter {
	return &StatsCounter{stats: seed}
}

// Add increments Raised and returns the snapshot after the update.
func (c *StatsCounter) Add(delta decimal.Decimal) ImpactStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Raised = c.stats.Raised.Add(delta)
	c.stats.UpdatedAt = time.Now()
	return c.stats
}

func (c *StatsCounter) Get() ImpactStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
