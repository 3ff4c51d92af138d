package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"modelexplorer/config"
	"modelexplorer/logger"
	"modelexplorer/store"
	"modelexplorer/types"
	"modelexplorer/utils"
)

// errCacheMiss 快照不存在或已过期，不是错误，只用于区分日志
var errCacheMiss = errors.New("cache miss")

// Cache 带时间戳的模型列表快照
type Cache struct {
	kv  store.KV
	ttl time.Duration
	now func() time.Time
}

// NewCache 创建快照存储，ttl<=0 时使用默认一小时
func NewCache(kv store.KV, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = config.CacheTTL
	}
	return &Cache{kv: kv, ttl: ttl, now: time.Now}
}

// SetClock 替换时钟（测试用）
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// TTL 快照有效期
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Load 返回仍在有效期内的快照；缺失、过期、损坏都视为没有
func (c *Cache) Load(ctx context.Context) ([]types.ModelRecord, bool) {
	models, err := c.read(ctx)
	switch {
	case err == nil:
		logger.Debug("使用本地模型快照", logger.Int("count", len(models)))
		return models, true
	case errors.Is(err, errCacheMiss):
		logger.Debug("本地模型快照不可用", logger.String("reason", err.Error()))
	default:
		logger.Error("Error parsing cached models", logger.Err(err))
	}
	return nil, false
}

func (c *Cache) read(ctx context.Context) ([]types.ModelRecord, error) {
	data, ok, err := c.kv.Get(ctx, config.CacheModelsKey)
	if err != nil {
		return nil, &CacheError{Key: config.CacheModelsKey, Err: err}
	}
	if !ok || data == "" {
		return nil, errCacheMiss
	}

	rawTS, ok, err := c.kv.Get(ctx, config.CacheTimestampKey)
	if err != nil {
		return nil, &CacheError{Key: config.CacheTimestampKey, Err: err}
	}
	if !ok || rawTS == "" {
		return nil, errCacheMiss
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(rawTS), 10, 64)
	if err != nil {
		return nil, &CacheError{Key: config.CacheTimestampKey, Err: err}
	}
	if !c.fresh(ts) {
		return nil, errCacheMiss
	}

	var models []types.ModelRecord
	if err := utils.FastUnmarshal([]byte(data), &models); err != nil {
		return nil, &CacheError{Key: config.CacheModelsKey, Err: err}
	}
	if len(models) == 0 {
		return nil, errCacheMiss
	}

	restored := models[:0]
	for _, m := range models {
		if r, ok := RestoreRecord(m); ok {
			restored = append(restored, r)
		}
	}
	if dropped := len(models) - len(restored); dropped > 0 {
		logger.Warn("快照中存在无效模型记录",
			logger.Int("dropped", dropped),
			logger.Int("kept", len(restored)))
	}
	if len(restored) == 0 {
		return nil, &CacheError{Key: config.CacheModelsKey, Err: errors.New("no valid records in snapshot")}
	}
	return restored, nil
}

// fresh 严格小于：恰好TTL之前写入的快照已失效
func (c *Cache) fresh(ts int64) bool {
	return c.now().UnixMilli()-ts < c.ttl.Milliseconds()
}

// Save 整体替换快照，失败只记录日志，不影响调用方
func (c *Cache) Save(ctx context.Context, models []types.ModelRecord) {
	if err := c.write(ctx, models); err != nil {
		logger.Error("Error caching models", logger.Err(err))
	}
}

func (c *Cache) write(ctx context.Context, models []types.ModelRecord) error {
	data, err := utils.FastMarshal(models)
	if err != nil {
		return &CacheError{Write: true, Key: config.CacheModelsKey, Err: err}
	}

	err = c.kv.SetMany(ctx, map[string]string{
		config.CacheModelsKey:    string(data),
		config.CacheTimestampKey: strconv.FormatInt(c.now().UnixMilli(), 10),
	})
	if err != nil {
		return &CacheError{Write: true, Err: err}
	}
	return nil
}

// Clear 删除快照
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.kv.Delete(ctx, config.CacheModelsKey, config.CacheTimestampKey); err != nil {
		return &CacheError{Write: true, Err: err}
	}
	return nil
}
