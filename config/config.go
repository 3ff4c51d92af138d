package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config 运行配置（环境变量 > 默认值，命令行参数由cmd覆盖）
type Config struct {
	Port string

	CatalogueURL string
	APIKey       string
	Referer      string
	Title        string

	CacheBackend  string
	CacheDir      string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	MaxRetries      int
	RetryBaseDelay  time.Duration
	FetchTimeout    time.Duration
	RefreshInterval time.Duration

	ExcludedProviders []string

	// RefreshToken 非空时 POST /api/refresh 需要 Bearer 认证
	RefreshToken string
}

// Load 从环境变量加载配置
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		CatalogueURL: getEnv("CATALOGUE_URL", CatalogueURL),
		APIKey:       os.Getenv("OPENROUTER_API_KEY"),
		Referer:      os.Getenv("CATALOGUE_REFERER"),
		Title:        getEnv("CATALOGUE_TITLE", DefaultTitle),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendFile)),
		CacheDir:      getEnv("CACHE_DIR", DefaultCacheDir()),
		CacheTTL:      getEnvDuration("CACHE_TTL", CacheTTL),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "modelexplorer:"),

		MaxRetries:      getEnvInt("FETCH_MAX_RETRIES", MaxRetries),
		RetryBaseDelay:  getEnvDuration("FETCH_RETRY_DELAY", RetryBaseDelay),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", FetchTimeout),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", CacheTTL),

		ExcludedProviders: splitList(os.Getenv("EXCLUDED_PROVIDERS")),

		RefreshToken: os.Getenv("REFRESH_TOKEN"),
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("unknown cache backend: %s", c.CacheBackend)
	}
	if c.CatalogueURL == "" {
		return fmt.Errorf("catalogue url is empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.CacheTTL)
	}
	return nil
}

// DefaultCacheDir 默认快照目录 (~/.modelexplorer/cache)
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".modelexplorer", "cache")
	}
	return filepath.Join(home, ".modelexplorer", "cache")
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvDuration 支持 "90s" 形式，纯数字按毫秒处理
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
