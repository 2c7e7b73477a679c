package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryKV is an in-memory stand-in for the Redis commands the cache uses.
type memoryKV struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryKV) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.put(key, value, expiration)
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryKV) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if m.err != nil {
		return redis.NewBoolResult(false, m.err)
	}
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.put(key, value, expiration)
	return redis.NewBoolResult(true, nil)
}

func (m *memoryKV) put(key string, value interface{}, expiration time.Duration) {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = expiration
}

func (m *memoryKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func testBrand() *brand.Brand {
	total := 3
	return &brand.Brand{
		ID:           brand.NewID(),
		Name:         "Acme",
		Email:        "a@acme.io",
		FoundedYear:  1990,
		Status:       brand.StatusActive,
		TotalProduct: &total,
		Rating:       4.5,
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestRedisBrandCache_RoundTrip(t *testing.T) {
	store := newMemoryKV()
	logger := zerolog.Nop()
	c := NewRedisBrandCache(store, time.Minute, &logger)
	ctx := context.Background()
	b := testBrand()

	_, ok := c.Get(ctx, b.ID.Hex())
	assert.False(t, ok)

	c.Set(ctx, b)
	assert.Equal(t, time.Minute, store.ttls[key(b.ID.Hex())])

	got, ok := c.Get(ctx, b.ID.Hex())
	require.True(t, ok)
	assert.Equal(t, b, got)

	c.Delete(ctx, b.ID.Hex())
	_, ok = c.Get(ctx, b.ID.Hex())
	assert.False(t, ok)
	assert.Equal(t, invalidationTTL, store.ttls[key(b.ID.Hex())])
}

func TestRedisBrandCache_StaleFillAfterInvalidation(t *testing.T) {
	store := newMemoryKV()
	logger := zerolog.Nop()
	c := NewRedisBrandCache(store, time.Minute, &logger)
	ctx := context.Background()

	stale := testBrand()
	id := stale.ID.Hex()

	// A read loaded the old brand, then a write invalidated it before the fill.
	c.Delete(ctx, id)
	c.Set(ctx, stale)

	_, ok := c.Get(ctx, id)
	assert.False(t, ok)

	// Once the marker expires the next read fills normally.
	delete(store.data, key(id))
	fresh := testBrand()
	fresh.ID = stale.ID
	fresh.Name = "Acme Two"
	c.Set(ctx, fresh)

	got, ok := c.Get(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "Acme Two", got.Name)
}

func TestRedisBrandCache_FillKeepsExistingEntry(t *testing.T) {
	store := newMemoryKV()
	logger := zerolog.Nop()
	c := NewRedisBrandCache(store, time.Minute, &logger)
	ctx := context.Background()

	first := testBrand()
	c.Set(ctx, first)

	second := testBrand()
	second.ID = first.ID
	second.Name = "Other"
	c.Set(ctx, second)

	got, ok := c.Get(ctx, first.ID.Hex())
	require.True(t, ok)
	assert.Equal(t, "Acme", got.Name)
}

func TestRedisBrandCache_FailuresAreMisses(t *testing.T) {
	store := newMemoryKV()
	store.err = errors.New("connection refused")
	logger := zerolog.Nop()
	c := NewRedisBrandCache(store, time.Minute, &logger)
	ctx := context.Background()
	b := testBrand()

	assert.NotPanics(t, func() {
		c.Set(ctx, b)
		c.Delete(ctx, b.ID.Hex())
	})
	_, ok := c.Get(ctx, b.ID.Hex())
	assert.False(t, ok)
}

func TestRedisBrandCache_CorruptEntryIsDropped(t *testing.T) {
	store := newMemoryKV()
	logger := zerolog.Nop()
	c := NewRedisBrandCache(store, time.Minute, &logger)
	id := brand.NewID().Hex()
	store.data[key(id)] = "{not json"

	_, ok := c.Get(context.Background(), id)

	assert.False(t, ok)
	assert.NotContains(t, store.data, key(id))
}

func TestNoop(t *testing.T) {
	var c BrandCache = Noop{}
	c.Set(context.Background(), testBrand())
	_, ok := c.Get(context.Background(), "x")
	assert.False(t, ok)
}
