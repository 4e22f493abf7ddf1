package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/affirmly/affirmation-api/internal/api/metrics"
	"github.com/affirmly/affirmation-api/internal/core/domain"
	"github.com/affirmly/affirmation-api/internal/core/ports"
)

// AffirmationCache keeps every successfully fetched affirmation in arrival
// order for the lifetime of the process.
//
// The upstream call runs without holding mu; only the append does.
type AffirmationCache struct {
	source   ports.AffirmationSource
	capacity int
	log      zerolog.Logger

	mu    sync.RWMutex
	items []string

	// intn is swapped in tests for deterministic picks.
	intn func(n int) int
}

// NewAffirmationCache returns an empty cache backed by source.
// A capacity <= 0 means unbounded; otherwise the oldest entry is dropped
// once the cache is full.
func NewAffirmationCache(source ports.AffirmationSource, capacity int, log zerolog.Logger) *AffirmationCache {
	if capacity < 0 {
		capacity = 0
	}
	return &AffirmationCache{
		source:   source,
		capacity: capacity,
		log:      log,
		intn:     rand.IntN,
	}
}

// Fetch asks the upstream for one affirmation and stores it on success.
func (c *AffirmationCache) Fetch(ctx context.Context) domain.FetchResult {
	start := time.Now()
	text, err := c.source.Fetch(ctx)

	var res domain.FetchResult
	switch {
	case err == nil && text != "":
		n := c.append(text)
		res = domain.Fetched(text)
		c.log.Info().Str("outcome", string(res.Outcome)).Int("count", n).Msg("affirmation stored")
	case err == nil, errors.Is(err, domain.ErrNoAffirmation):
		res = domain.NoData()
		ev := c.log.Warn().Str("outcome", string(res.Outcome))
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("upstream returned no affirmation")
	default:
		res = domain.TransportError(err.Error())
		c.log.Warn().Err(err).Str("outcome", string(res.Outcome)).Msg("upstream request failed")
	}

	metrics.FetchesTotal.WithLabelValues(string(res.Outcome)).Inc()
	metrics.UpstreamDuration.WithLabelValues(string(res.Outcome)).Observe(time.Since(start).Seconds())
	return res
}

// append stores text and returns the resulting length.
func (c *AffirmationCache) append(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity > 0 && len(c.items) >= c.capacity {
		drop := len(c.items) - c.capacity + 1
		c.items = append(c.items[:0:0], c.items[drop:]...)
		metrics.EvictedTotal.Add(float64(drop))
	}
	c.items = append(c.items, text)
	metrics.Stored.Set(float64(len(c.items)))
	return len(c.items)
}

// List returns a copy of all stored affirmations, oldest first.
func (c *AffirmationCache) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.items))
	copy(out, c.items)
	return out
}

// Clear drops every stored affirmation. Clearing an empty cache is a no-op.
func (c *AffirmationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	metrics.Stored.Set(0)
}

func (c *AffirmationCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Random picks uniformly from the whole stored history.
func (c *AffirmationCache) Random() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.items) == 0 {
		return "", false
	}
	return c.items[c.intn(len(c.items))], true
}
