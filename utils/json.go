package utils

import (
	"github.com/bytedance/sonic"
)

var (
	// FastestConfig 最快的JSON配置，用于快照读写
	FastestConfig = sonic.ConfigFastest

	// SafeConfig 与encoding/json行为一致，用于解析上游响应
	SafeConfig = sonic.ConfigStd
)

// FastMarshal 高性能JSON序列化
func FastMarshal(v any) ([]byte, error) {
	return FastestConfig.Marshal(v)
}

// FastUnmarshal 高性能JSON反序列化
func FastUnmarshal(data []byte, v any) error {
	return FastestConfig.Unmarshal(data, v)
}

// SafeMarshal 安全JSON序列化（带验证）
func SafeMarshal(v any) ([]byte, error) {
	return SafeConfig.Marshal(v)
}

// SafeUnmarshal 安全JSON反序列化（带验证）
func SafeUnmarshal(data []byte, v any) error {
	return SafeConfig.Unmarshal(data, v)
}

// SafeMarshalIndent 带缩进的序列化，用于CLI输出
func SafeMarshalIndent(v any) ([]byte, error) {
	return SafeConfig.MarshalIndent(v, "", "  ")
}
