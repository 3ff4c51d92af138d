package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"modelexplorer/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{"data":[
	{"id":"openai/gpt-4o","name":"GPT-4o","context_length":128000,"architecture":{"modality":"text->text"},"pricing":{"prompt":"0.000005","completion":"0.000015"}},
	{"id":"mistralai/mistral-7b:free","name":"Mistral 7B (free)","context_length":32768}
]}`

// newTestFetcher 记录重试等待时长，不真正休眠
func newTestFetcher(url string, cache *Cache) (*Fetcher, *[]time.Duration) {
	f := NewFetcher(FetcherOptions{
		URL:            url,
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
		Client:         &http.Client{Timeout: 5 * time.Second},
	}, cache)

	var delays []time.Duration
	f.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return f, &delays
}

func TestFetchSuccess(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	ctx := context.Background()
	cache := NewCache(store.NewMemoryStore(0), time.Hour)
	f, delays := newTestFetcher(srv.URL, cache)
	f.opts.APIKey = "sk-test"
	f.opts.Title = "Explorer"

	assert.Equal(t, StateIdle, f.Status().Snapshot().State)

	models, err := f.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, 33, models[1].ContextLength)
	assert.Empty(t, *delays)

	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "Bearer sk-test", gotHeaders.Get("Authorization"))
	assert.Equal(t, "Explorer", gotHeaders.Get("X-Title"))
	assert.Empty(t, gotHeaders.Get("HTTP-Referer"))

	st := f.Status().Snapshot()
	assert.Equal(t, StateReady, st.State)
	assert.Equal(t, "green", st.Color)
	assert.Equal(t, 2, st.Models)
	assert.EqualValues(t, 1, st.Fetches)

	cached, ok := cache.Load(ctx)
	require.True(t, ok, "成功拉取后应写入快照")
	assert.Equal(t, models, cached)
}

func TestFetchRetriesWithLinearBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	f, delays := newTestFetcher(srv.URL, nil)
	models, err := f.Fetch(context.Background())

	require.Error(t, err)
	assert.Nil(t, models)
	assert.EqualValues(t, 4, calls.Load(), "1次初始请求 + 3次重试")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, *delays)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, KindNetwork, fe.Kind)
	assert.Equal(t, 4, fe.Attempts)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "HTTP error! status: 502")

	st := f.Status().Snapshot()
	assert.Equal(t, StateError, st.State)
	assert.Equal(t, "red", st.Color)
	assert.Contains(t, st.Message, "Failed to load models")
	assert.EqualValues(t, 1, st.Failures)
}

func TestFetchRecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	f, delays := newTestFetcher(srv.URL, nil)
	models, err := f.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, models, 2)
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
	assert.Equal(t, StateReady, f.Status().Snapshot().State)
}

func TestFetchShapeErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{"结构错误", `{"models":[]}`, ErrInvalidShape},
		{"没有有效模型", `{"data":[{"id":"x/y"}]}`, ErrEmptyResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			cache := NewCache(store.NewMemoryStore(0), time.Hour)
			f, _ := newTestFetcher(srv.URL, cache)
			_, err := f.Fetch(context.Background())

			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.EqualValues(t, 1, calls.Load())
			assert.Equal(t, StateError, f.Status().Snapshot().State)

			_, ok := cache.Load(context.Background())
			assert.False(t, ok, "失败的拉取不应写入快照")
		})
	}
}

func TestFetchConcurrentCallersShareRequest(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	f, _ := newTestFetcher(srv.URL, nil)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]int, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		models, err := f.Fetch(context.Background())
		results[0], errs[0] = len(models), err
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			models, err := f.Fetch(context.Background())
			results[i], errs[i] = len(models), err
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load(), "并发调用只应发出一次上游请求")
	assert.EqualValues(t, 1, f.Status().Snapshot().Fetches)
	for i := 0; i < callers; i++ {
		assert.NoError(t, errs[i])
		assert.Equal(t, 2, results[i])
	}
}

func TestFetchCancelledDuringBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f, _ := newTestFetcher(srv.URL, nil)
	f.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := f.Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, StateError, f.Status().Snapshot().State)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
}
