package cmd

import (
	"context"
	"fmt"

	"modelexplorer/catalog"
	"modelexplorer/explorer"
	"modelexplorer/logger"
	"modelexplorer/store"
)

// app 组装好的运行时组件
type app struct {
	kv       store.KV
	cache    *catalog.Cache
	fetcher  *catalog.Fetcher
	explorer *explorer.Explorer
}

func newApp(ctx context.Context) (*app, error) {
	kv, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache backend: %w", err)
	}

	cache := catalog.NewCache(kv, cfg.CacheTTL)
	fetcher := catalog.NewFetcherFromConfig(cfg, cache)
	ex := explorer.New(cache, fetcher, explorer.Options{
		RefreshInterval:   cfg.RefreshInterval,
		ExcludedProviders: cfg.ExcludedProviders,
	})

	return &app{kv: kv, cache: cache, fetcher: fetcher, explorer: ex}, nil
}

func (a *app) Close() {
	a.explorer.Close()
	if err := a.kv.Close(); err != nil {
		logger.Warn("关闭缓存后端失败", logger.Err(err))
	}
}
