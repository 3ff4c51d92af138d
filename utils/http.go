package utils

import (
	"fmt"
	"io"
)

// ReadHTTPResponse 读取响应体，超过limit字节时报错；limit<=0表示不限制
func ReadHTTPResponse(body io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(body)
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}

// Snippet 截取前n字节用于错误信息
func Snippet(body io.Reader, n int64) string {
	data, _ := io.ReadAll(io.LimitReader(body, n))
	return string(data)
}
