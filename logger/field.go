package logger

import (
	"fmt"
	"strings"
	"time"
)

// Field 结构化字段
type Field struct {
	Key   string
	Value any
}

// String 字符串字段
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings 字符串切片字段，输出时以逗号连接
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: strings.Join(values, ",")}
}

// Int 整数字段
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 int64字段
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 浮点数字段
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool 布尔字段
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration 时间间隔字段，统一以字符串形式输出
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Time 时间字段
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value.Format(time.RFC3339)}
}

// Err 错误字段，nil错误输出为空值
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any 任意类型字段
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// FormatValue 格式化字段值为文本
func (f Field) FormatValue() string {
	switch v := f.Value.(type) {
	case nil:
		return "<nil>"
	case string:
		if strings.ContainsAny(v, " \t\n\"") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
