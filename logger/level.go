package logger

import (
	"fmt"
	"strings"
)

// Level 日志级别类型
type Level int

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	TRACE: "TRACE",
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var nameToLevel = map[string]Level{
	"TRACE":   TRACE,
	"DEBUG":   DEBUG,
	"INFO":    INFO,
	"WARN":    WARN,
	"WARNING": WARN,
	"ERROR":   ERROR,
	"FATAL":   FATAL,
}

// String 返回级别的字符串表示
func (l Level) String() string {
	if name, exists := levelNames[l]; exists {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(l))
}

// Enabled 检查当前级别是否启用目标级别
func (l Level) Enabled(target Level) bool {
	return l <= target
}

// ParseLevel 从字符串解析日志级别，未知值回退到INFO
func ParseLevel(s string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if level, exists := nameToLevel[upper]; exists {
		return level, nil
	}
	return INFO, fmt.Errorf("unknown log level: %s", s)
}

// color 获取级别对应的ANSI颜色代码
func (l Level) color() string {
	switch l {
	case TRACE:
		return "\033[37m"
	case DEBUG:
		return "\033[36m"
	case INFO:
		return "\033[32m"
	case WARN:
		return "\033[33m"
	case ERROR:
		return "\033[31m"
	case FATAL:
		return "\033[35m"
	default:
		return resetColor
	}
}

const resetColor = "\033[0m"
