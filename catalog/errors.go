package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind 拉取错误分类
type ErrorKind string

const (
	KindNetwork      ErrorKind = "NetworkError"
	KindInvalidShape ErrorKind = "InvalidShape"
	KindEmptyResult  ErrorKind = "EmptyResult"
)

// 可用 errors.Is 匹配的哨兵错误
var (
	ErrNetwork      = errors.New("catalog: network error")
	ErrInvalidShape = errors.New("catalog: invalid response shape")
	ErrEmptyResult  = errors.New("catalog: no valid models")

	ErrCacheRead  = errors.New("catalog: cache read error")
	ErrCacheWrite = errors.New("catalog: cache write error")
)

// FetchError 拉取失败，Err 为底层原因
type FetchError struct {
	Kind     ErrorKind
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrInvalidShape:
		return e.Kind == KindInvalidShape
	case ErrEmptyResult:
		return e.Kind == KindEmptyResult
	}
	return false
}

// CacheError 快照读写失败，调用方记录日志后按缓存缺失处理
type CacheError struct {
	Write bool
	Key   string
	Err   error
}

func (e *CacheError) Error() string {
	op := "CacheReadError"
	if e.Write {
		op = "CacheWriteError"
	}
	if e.Key != "" {
		return fmt.Sprintf("%s [%s]: %v", op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

func (e *CacheError) Is(target error) bool {
	switch target {
	case ErrCacheRead:
		return !e.Write
	case ErrCacheWrite:
		return e.Write
	}
	return false
}

// statusError 上游返回非2xx
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.code)
	}
	return fmt.Sprintf("HTTP error! status: %d, body: %s", e.code, e.body)
}
