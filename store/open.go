package store

import (
	"context"
	"fmt"

	"modelexplorer/config"
	"modelexplorer/logger"
)

// Open 按配置选择缓存后端
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendFile:
		kv, err := NewFileStore(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("使用文件缓存后端", logger.String("dir", cfg.CacheDir))
		return kv, nil
	case config.CacheBackendRedis:
		kv, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("使用Redis缓存后端", logger.String("addr", cfg.RedisAddr), logger.Int("db", cfg.RedisDB))
		return kv, nil
	case config.CacheBackendMemory:
		return NewMemoryStore(0), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.CacheBackend)
	}
}
