package config

import "time"

// Tuning 行为调优参数
const (
	// ========== 缓存 ==========

	// CacheTTL 本地快照有效期
	CacheTTL = time.Hour

	// ========== 拉取与重试 ==========

	// MaxRetries 首次请求失败后的最大重试次数（总尝试次数 = 1 + MaxRetries）
	MaxRetries = 3

	// RetryBaseDelay 第k次重试前等待 k * RetryBaseDelay
	RetryBaseDelay = time.Second

	// FetchTimeout 单次请求的超时时间
	FetchTimeout = 30 * time.Second

	// ========== HTTP服务器 ==========

	// ServerReadTimeout 服务器读取超时
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout 服务器写入超时
	ServerWriteTimeout = 2 * time.Minute

	// ServerIdleTimeout 服务器空闲连接超时
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout 优雅关闭等待时间
	ServerShutdownTimeout = 10 * time.Second

	// MaxHeaderBytes HTTP请求头最大字节数
	MaxHeaderBytes = 1 << 20
)
