// Package store 提供快照使用的字符串键值后端
package store

import (
	"context"
	"errors"
)

// ErrQuotaExceeded 写入超过后端配额
var ErrQuotaExceeded = errors.New("store: quota exceeded")

// KV 字符串键值存储
type KV interface {
	// Get 读取键，不存在时 ok=false 且 err=nil
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// SetMany 写入多个键，后端支持时整体生效或整体失败
	SetMany(ctx context.Context, pairs map[string]string) error

	// Delete 删除键，不存在的键忽略
	Delete(ctx context.Context, keys ...string) error

	Close() error
}
