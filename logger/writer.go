package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer 输出器接口
type Writer interface {
	Write(data []byte) error
	Close() error
}

// ConsoleWriter 控制台输出器
type ConsoleWriter struct {
	out io.Writer
}

// NewConsoleWriter 创建写到标准错误的输出器，标准输出留给命令结果
func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{out: os.Stderr}
}

func (w *ConsoleWriter) Write(data []byte) error {
	_, err := w.out.Write(data)
	return err
}

func (w *ConsoleWriter) Close() error {
	return nil
}

// RotatingFileWriter 按大小滚动的文件输出器
type RotatingFileWriter struct {
	mutex sync.Mutex
	file  *lumberjack.Logger
}

// NewRotatingFileWriter 创建文件输出器，滚动参数来自Config
func NewRotatingFileWriter(config Config) *RotatingFileWriter {
	return &RotatingFileWriter{
		file: &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   config.Compress,
		},
	}
}

func (w *RotatingFileWriter) Write(data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.file == nil {
		return fmt.Errorf("file writer is closed")
	}
	_, err := w.file.Write(data)
	return err
}

func (w *RotatingFileWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// MultiWriter 多路输出器
type MultiWriter struct {
	writers []Writer
	mutex   sync.RWMutex
}

// NewMultiWriter 创建多路输出器
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write 写入所有输出器，单个失败不影响其他输出器
func (w *MultiWriter) Write(data []byte) error {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	for _, writer := range w.writers {
		if err := writer.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Logger write error: %v\n", err)
		}
	}
	return nil
}

// Close 关闭所有输出器
func (w *MultiWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	var lastErr error
	for _, writer := range w.writers {
		if err := writer.Close(); err != nil {
			lastErr = err
		}
	}
	w.writers = nil
	return lastErr
}
