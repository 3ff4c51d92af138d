package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"modelexplorer/config"
	"modelexplorer/store"
	"modelexplorer/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModels() []types.ModelRecord {
	return []types.ModelRecord{
		{ID: "openai/gpt-4o", Provider: "openai", Name: "GPT-4o", Modality: "text+image->text", ContextLength: 128,
			Pricing: types.Pricing{Prompt: "0.000005", Completion: "0.000015", Image: "0", Request: "0"}},
		{ID: "meta-llama/llama-3-8b:free", Provider: "meta-llama", Name: "Llama 3 8B (free)", Modality: "text->text", ContextLength: 8,
			Pricing: types.Pricing{Prompt: "0", Completion: "0", Image: "0", Request: "0"}},
	}
}

// failingKV 所有操作都失败
type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) SetMany(context.Context, map[string]string) error { return f.err }
func (f failingKV) Delete(context.Context, ...string) error { return f.err }
func (f failingKV) Close() error { return nil }

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	c := NewCache(store.NewMemoryStore(0), time.Hour)
	c.SetClock(func() time.Time { return now })

	_, ok := c.Load(ctx)
	assert.False(t, ok, "空快照")

	c.Save(ctx, sampleModels())
	got, ok := c.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, sampleModels(), got)
}

func TestCacheTTLBoundary(t *testing.T) {
	ctx := context.Background()
	written := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name  string
		age   time.Duration
		valid bool
	}{
		{"刚写入", 0, true},
		{"差1毫秒到期", time.Hour - time.Millisecond, true},
		{"恰好到期", time.Hour, false},
		{"已过期", 2 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache(store.NewMemoryStore(0), time.Hour)
			c.SetClock(func() time.Time { return written })
			c.Save(ctx, sampleModels())

			c.SetClock(func() time.Time { return written.Add(tt.age) })
			_, ok := c.Load(ctx)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestCacheCorruptedEntries(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	ts := "1700000000000"

	tests := []struct {
		name  string
		pairs map[string]string
	}{
		{"模型JSON损坏", map[string]string{config.CacheModelsKey: "[{", config.CacheTimestampKey: ts}},
		{"时间戳非数字", map[string]string{config.CacheModelsKey: "[]", config.CacheTimestampKey: "yesterday"}},
		{"缺少时间戳", map[string]string{config.CacheModelsKey: `[{"id":"a/b"}]`}},
		{"缺少模型", map[string]string{config.CacheTimestampKey: ts}},
		{"空列表", map[string]string{config.CacheModelsKey: "[]", config.CacheTimestampKey: ts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryStore(0)
			require.NoError(t, kv.SetMany(ctx, tt.pairs))

			c := NewCache(kv, time.Hour)
			c.SetClock(func() time.Time { return now })
			models, ok := c.Load(ctx)
			assert.False(t, ok)
			assert.Nil(t, models)
		})
	}
}

func TestCacheRestoresSnapshotRecords(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	kv := store.NewMemoryStore(0)
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		config.CacheModelsKey: `[{"id":"","name":"","pricing":{}},
			{"id":"openai/gpt-4","name":"GPT-4","provider":"stale"},
			{"id":"anthropic/claude","name":"  "}]`,
		config.CacheTimestampKey: "1700000000000",
	}))

	c := NewCache(kv, time.Hour)
	c.SetClock(func() time.Time { return now })
	models, ok := c.Load(ctx)
	require.True(t, ok)
	require.Len(t, models, 1)

	gpt := models[0]
	assert.Equal(t, "openai/gpt-4", gpt.ID)
	assert.Equal(t, "openai", gpt.Provider)
	assert.Equal(t, config.UnknownValue, gpt.Modality)
	for _, v := range gpt.Pricing.Values() {
		assert.Equal(t, config.DefaultPrice, v)
	}
}

func TestCacheSnapshotWithoutValidRecords(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	kv := store.NewMemoryStore(0)
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		config.CacheModelsKey:    `[{"id":"","name":""},{"id":"x/y"}]`,
		config.CacheTimestampKey: "1700000000000",
	}))

	c := NewCache(kv, time.Hour)
	c.SetClock(func() time.Time { return now })
	_, ok := c.Load(ctx)
	assert.False(t, ok)

	_, err := c.read(ctx)
	assert.True(t, errors.Is(err, ErrCacheRead))
}

func TestCacheErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	c := NewCache(failingKV{err: boom}, time.Hour)

	assert.NotPanics(t, func() { c.Save(ctx, sampleModels()) })
	_, ok := c.Load(ctx)
	assert.False(t, ok)

	_, err := c.read(ctx)
	assert.True(t, errors.Is(err, ErrCacheRead))
	assert.True(t, errors.Is(err, boom))

	err = c.write(ctx, sampleModels())
	assert.True(t, errors.Is(err, ErrCacheWrite))
}

func TestCacheQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	c := NewCache(store.NewMemoryStore(32), time.Hour)

	c.Save(ctx, sampleModels())
	_, ok := c.Load(ctx)
	assert.False(t, ok, "超出配额的写入不应留下部分快照")

	err := c.write(ctx, sampleModels())
	assert.True(t, errors.Is(err, store.ErrQuotaExceeded))
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewCache(store.NewMemoryStore(0), 0)
	assert.Equal(t, config.CacheTTL, c.TTL())

	c.Save(ctx, sampleModels())
	require.NoError(t, c.Clear(ctx))
	_, ok := c.Load(ctx)
	assert.False(t, ok)
}
