package memo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/brewlytics/pkg/redis"
)

type fakeRedis struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) GetBytes(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, redis.ErrNil
	}
	return v, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.([]byte)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) Ping(context.Context) error { return nil }

func TestRedisStoreMissIsNotAnError(t *testing.T) {
	store := &RedisStore{client: newFakeRedis()}

	raw, ok, err := store.Get(context.Background(), "brew:insights:1")
	if err != nil {
		t.Fatalf("expected nil error on miss, got %v", err)
	}
	if ok || raw != nil {
		t.Fatalf("expected miss, got ok=%v raw=%q", ok, raw)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	backend := newFakeRedis()
	store := &RedisStore{client: backend}
	ctx := context.Background()

	if err := store.Set(ctx, "brew:insights:1", []byte(`{}`), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if backend.ttls["brew:insights:1"] != time.Hour {
		t.Fatalf("expected ttl forwarded, got %v", backend.ttls["brew:insights:1"])
	}
	raw, ok, err := store.Get(ctx, "brew:insights:1")
	if err != nil || !ok || string(raw) != `{}` {
		t.Fatalf("unexpected get result %q ok=%v err=%v", raw, ok, err)
	}
	if err := store.Delete(ctx, "brew:insights:1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "brew:insights:1"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestRedisStorePropagatesBackendErrors(t *testing.T) {
	backend := newFakeRedis()
	backend.getErr = errors.New("connection refused")
	store := &RedisStore{client: backend}

	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected backend error")
	}
}
