package logger

import (
	"os"
	"strconv"
	"strings"
)

// Config 日志配置
type Config struct {
	Level      Level
	File       string
	Console    bool
	Color      bool
	Format     FormatType
	TimeFormat string

	// 文件滚动参数（lumberjack）
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FormatType 输出格式
type FormatType int

const (
	TextFormat FormatType = iota
	JSONFormat
)

// DefaultConfig 默认配置
var DefaultConfig = Config{
	Level:      INFO,
	Console:    true,
	Color:      true,
	Format:     TextFormat,
	TimeFormat: "2006-01-02 15:04:05",
	MaxSizeMB:  100,
	MaxBackups: 3,
	MaxAgeDays: 28,
	Compress:   true,
}

// ParseConfig 从环境变量解析配置（命令行覆盖由调用方完成后再调用Normalize）
func ParseConfig() Config {
	config := DefaultConfig

	if debug := os.Getenv("DEBUG"); debug != "" && parseBool(debug) {
		config.Level = DEBUG
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		if level, err := ParseLevel(logLevel); err == nil {
			config.Level = level
		}
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		config.File = logFile
	}
	if logColor := os.Getenv("LOG_COLOR"); logColor != "" {
		config.Color = parseBool(logColor)
	}
	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		if format, ok := ParseFormat(logFormat); ok {
			config.Format = format
		}
	} else if config.File != "" {
		// 文件输出默认使用JSON格式
		config.Format = JSONFormat
	}
	if logConsole := os.Getenv("LOG_CONSOLE"); logConsole != "" {
		config.Console = parseBool(logConsole)
	}

	config.MaxSizeMB = envInt("LOG_MAX_SIZE", config.MaxSizeMB)
	config.MaxBackups = envInt("LOG_MAX_BACKUPS", config.MaxBackups)
	config.MaxAgeDays = envInt("LOG_MAX_AGE", config.MaxAgeDays)
	if compress := os.Getenv("LOG_COMPRESS"); compress != "" {
		config.Compress = parseBool(compress)
	}

	return config.Normalize()
}

// Normalize 修正互相矛盾的配置
func (c Config) Normalize() Config {
	// 没有任何输出方式时强制启用控制台
	if !c.Console && c.File == "" {
		c.Console = true
	}
	if c.TimeFormat == "" {
		c.TimeFormat = DefaultConfig.TimeFormat
	}
	return c
}

// ParseFormat 解析格式字符串
func ParseFormat(s string) (FormatType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return TextFormat, true
	case "json":
		return JSONFormat, true
	default:
		return TextFormat, false
	}
}

// String 返回格式类型的字符串表示
func (f FormatType) String() string {
	switch f {
	case TextFormat:
		return "text"
	case JSONFormat:
		return "json"
	default:
		return "unknown"
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
