package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"modelexplorer/config"
	"modelexplorer/logger"
	"modelexplorer/types"
	"modelexplorer/utils"

	"golang.org/x/sync/singleflight"
)

// maxBodyBytes 上游响应体上限
const maxBodyBytes = 64 << 20

// FetcherOptions 拉取参数
type FetcherOptions struct {
	URL            string
	APIKey         string
	Referer        string
	Title          string
	MaxRetries     int
	RetryBaseDelay time.Duration
	Client         *http.Client
}

// Fetcher 拉取模型目录，带重试、状态和快照回写
type Fetcher struct {
	opts   FetcherOptions
	client *http.Client
	cache  *Cache
	status *StatusTracker
	group  singleflight.Group

	// sleep 等待重试间隔，ctx取消时提前返回
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher 创建拉取器，cache为nil时不回写快照
func NewFetcher(opts FetcherOptions, cache *Cache) *Fetcher {
	if opts.URL == "" {
		opts.URL = config.CatalogueURL
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	client := opts.Client
	if client == nil {
		client = utils.NewHTTPClient(config.FetchTimeout)
	}

	return &Fetcher{
		opts:   opts,
		client: client,
		cache:  cache,
		status: NewStatusTracker(),
		sleep:  sleepContext,
	}
}

// NewFetcherFromConfig 按运行配置创建拉取器
func NewFetcherFromConfig(cfg *config.Config, cache *Cache) *Fetcher {
	return NewFetcher(FetcherOptions{
		URL:            cfg.CatalogueURL,
		APIKey:         cfg.APIKey,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
		Client:         utils.NewHTTPClient(cfg.FetchTimeout),
	}, cache)
}

// Status 状态跟踪器
func (f *Fetcher) Status() *StatusTracker {
	return f.status
}

// Fetch 拉取并归一化模型目录
// 已有拉取在进行时，调用方加入该次拉取并共享结果，不会发出第二个请求
func (f *Fetcher) Fetch(ctx context.Context) ([]types.ModelRecord, error) {
	v, err, shared := f.group.Do("catalogue", func() (any, error) {
		return f.fetch(ctx)
	})
	if shared {
		logger.Debug("复用进行中的目录拉取")
	}
	if err != nil {
		return nil, err
	}
	return v.([]types.ModelRecord), nil
}

func (f *Fetcher) fetch(ctx context.Context) ([]types.ModelRecord, error) {
	start := time.Now()
	f.status.Begin()

	body, attempts, err := f.download(ctx)
	if err != nil {
		return nil, f.fail(&FetchError{Kind: KindNetwork, Attempts: attempts, Err: err})
	}

	models, err := ParsePayload(body)
	if err != nil {
		if fe, ok := err.(*FetchError); ok {
			fe.Attempts = attempts
		}
		return nil, f.fail(err)
	}

	if f.cache != nil {
		f.cache.Save(ctx, models)
	}
	f.status.Succeed(len(models))

	logger.Info("Models loaded successfully",
		logger.Int("count", len(models)),
		logger.Int("attempts", attempts),
		logger.Duration("duration", time.Since(start)))
	return models, nil
}

// fail 边界处统一记录一次并更新状态
func (f *Fetcher) fail(err error) error {
	logger.Error("Failed to load models", logger.String("url", f.opts.URL), logger.Err(err))
	f.status.Fail(err)
	return err
}

// download 第k次重试前等待 k*RetryBaseDelay；返回实际尝试次数
func (f *Fetcher) download(ctx context.Context) ([]byte, int, error) {
	maxAttempts := 1 + f.opts.MaxRetries
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * f.opts.RetryBaseDelay
			logger.Warn("目录请求失败，准备重试",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(lastErr))
			if err := f.sleep(ctx, delay); err != nil {
				return nil, attempt - 1, fmt.Errorf("retry cancelled: %w", err)
			}
		}

		body, err := f.doRequest(ctx)
		if err == nil {
			return body, attempt, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, attempt, fmt.Errorf("request cancelled: %w", ctxErr)
		}
	}

	return nil, maxAttempts, lastErr
}

func (f *Fetcher) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if f.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.opts.APIKey)
	}
	if f.opts.Referer != "" {
		req.Header.Set("HTTP-Referer", f.opts.Referer)
	}
	if f.opts.Title != "" {
		req.Header.Set("X-Title", f.opts.Title)
	}

	logger.Debug("请求模型目录", logger.String("url", f.opts.URL))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode, body: utils.Snippet(resp.Body, 256)}
	}

	body, err := utils.ReadHTTPResponse(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
