package config

// CatalogueURL 默认模型目录端点
const CatalogueURL = "https://openrouter.ai/api/v1/models"

// 本地快照的两个存储键
const (
	// CacheModelsKey 序列化的模型列表
	CacheModelsKey = "openRouterModels"

	// CacheTimestampKey 快照时间戳（毫秒字符串）
	CacheTimestampKey = "openRouterModelsTimestamp"
)

// 缓存后端类型
const (
	CacheBackendFile   = "file"
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// 模型记录默认值
const (
	// UnknownValue 缺省的provider/modality/tokenizer
	UnknownValue = "Unknown"

	// DefaultDescription 缺省描述
	DefaultDescription = "No description available"

	// DefaultPrice 缺省价格
	DefaultPrice = "0"
)

// DefaultTitle 请求上游时附带的X-Title
const DefaultTitle = "OpenRouter Models Explorer"
