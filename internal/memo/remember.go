package memo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelmondragon/brewlytics/pkg/logger"
	"github.com/angelmondragon/brewlytics/pkg/metrics"
)

// Memo wraps a Store with JSON encoding, logging and hit/miss metrics.
// Cache failures never fail the caller; the value is recomputed instead.
type Memo struct {
	store   Store
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.AnalyticsMetrics
}

// New builds a Memo. A nil store disables caching; ttl <= 0 uses DefaultTTL.
func New(store Store, ttl time.Duration, logg *logger.Logger, m *metrics.AnalyticsMetrics) *Memo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memo{store: store, ttl: ttl, logg: logg, metrics: m}
}

// Remember returns the cached value at key or computes, stores and returns it.
func Remember[T any](ctx context.Context, m *Memo, kind, key string, compute func(context.Context) (T, error)) (T, error) {
	if m == nil || m.store == nil {
		return compute(ctx)
	}

	if raw, ok, err := m.store.Get(ctx, key); err != nil {
		m.warn(ctx, "memo.get_failed", kind, key, err)
		m.metrics.IncError(kind, "get")
	} else if ok {
		var cached T
		err := json.Unmarshal(raw, &cached)
		if err == nil {
			m.metrics.IncHit(kind)
			return cached, nil
		}
		m.warn(ctx, "memo.decode_failed", kind, key, err)
		m.metrics.IncError(kind, "decode")
	}
	m.metrics.IncMiss(kind)

	started := time.Now()
	value, err := compute(ctx)
	if err != nil {
		return value, err
	}
	m.metrics.ObserveCompute(kind, time.Since(started))

	raw, err := json.Marshal(value)
	if err != nil {
		m.warn(ctx, "memo.encode_failed", kind, key, err)
		m.metrics.IncError(kind, "encode")
		return value, nil
	}
	if err := m.store.Set(ctx, key, raw, m.ttl); err != nil {
		m.warn(ctx, "memo.set_failed", kind, key, err)
		m.metrics.IncError(kind, "set")
	}
	return value, nil
}

// Forget removes key so the next Remember recomputes.
func (m *Memo) Forget(ctx context.Context, key string) error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Delete(ctx, key)
}

func (m *Memo) warn(ctx context.Context, msg, kind, key string, err error) {
	if m.logg == nil {
		return
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"cache_kind": kind,
		"cache_key":  key,
		"error":      err.Error(),
	})
	m.logg.Warn(ctx, msg)
}
