package cache

import (
	"sync"
	"time"

	"github.com/kud/referrals/internal/models"
)

// Cache holds the last successful referral fetch until its TTL passes.
type Cache struct {
	mu         sync.RWMutex
	records    []models.Record
	recordsExp time.Time
	ttl        time.Duration
	now        func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

func (c *Cache) GetRecords() ([]models.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.records == nil || c.now().After(c.recordsExp) {
		return nil, false
	}
	out := make([]models.Record, len(c.records))
	copy(out, c.records)
	return out, true
}

func (c *Cache) SetRecords(records []models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make([]models.Record, len(records))
	copy(c.records, records)
	c.recordsExp = c.now().Add(c.ttl)
}
