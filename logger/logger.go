package logger

import (
	"os"
	"sync"
	"time"
)

// Logger 结构化日志器
type Logger struct {
	mutex     sync.RWMutex
	level     Level
	formatter Formatter
	writer    Writer
}

var (
	defaultLogger = New(DefaultConfig, NewConsoleWriter())
	defaultMutex  sync.RWMutex
)

// New 按配置创建日志器，writer为空时根据配置自动组装
func New(config Config, writer Writer) *Logger {
	var formatter Formatter
	if config.Format == JSONFormat {
		formatter = &JSONFormatter{}
	} else {
		formatter = &ConsoleFormatter{EnableColor: config.Color, TimeFormat: config.TimeFormat}
	}

	if writer == nil {
		var writers []Writer
		if config.Console {
			writers = append(writers, NewConsoleWriter())
		}
		if config.File != "" {
			writers = append(writers, NewRotatingFileWriter(config))
		}
		writer = NewMultiWriter(writers...)
	}

	return &Logger{level: config.Level, formatter: formatter, writer: writer}
}

// InitLogger 用配置替换全局日志器
func InitLogger(config Config) error {
	config = config.Normalize()
	next := New(config, nil)

	defaultMutex.Lock()
	prev := defaultLogger
	defaultLogger = next
	defaultMutex.Unlock()

	return prev.writer.Close()
}

// SetOutput 替换全局日志器的输出器（测试用）
func SetOutput(writer Writer, level Level) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	defaultLogger = &Logger{level: level, formatter: &JSONFormatter{}, writer: writer}
}

// SetLevel 设置全局日志级别
func SetLevel(level Level) {
	l := current()
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.level = level
}

// Close 关闭全局日志器
func Close() error {
	return current().writer.Close()
}

func current() *Logger {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()
	return defaultLogger
}

func (l *Logger) enabled(level Level) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.level.Enabled(level)
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if !l.enabled(level) {
		return
	}

	// 跳过 log -> 包级函数 两层
	file, line := callerInfo(3)
	entry := Entry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  fields,
		File:    file,
		Line:    line,
	}
	_ = l.writer.Write(l.formatter.Format(entry))

	if level == FATAL {
		_ = l.writer.Close()
		os.Exit(1)
	}
}

func Trace(msg string, fields ...Field) { current().log(TRACE, msg, fields) }

func Debug(msg string, fields ...Field) { current().log(DEBUG, msg, fields) }

func Info(msg string, fields ...Field) { current().log(INFO, msg, fields) }

func Warn(msg string, fields ...Field) { current().log(WARN, msg, fields) }

func Error(msg string, fields ...Field) { current().log(ERROR, msg, fields) }

func Fatal(msg string, fields ...Field) { current().log(FATAL, msg, fields) }
