package logger

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	mu    sync.Mutex
	lines []string
}

func (w *captureWriter) Write(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = append(w.lines, string(data))
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestLevelFiltering(t *testing.T) {
	w := &captureWriter{}
	SetOutput(w, WARN)
	defer SetOutput(NewConsoleWriter(), INFO)

	Debug("不应输出")
	Info("不应输出")
	Warn("缓存写入失败", String("key", "openRouterModels"))
	Error("拉取失败", Err(errors.New("boom")), Int("attempts", 4))

	require.Len(t, w.lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(w.lines[1]), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "拉取失败", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 4, entry["attempts"])
	assert.Contains(t, entry["file"], "logger/logger_test.go")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{" WARNING ", WARN, false},
		{"trace", TRACE, false},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestConsoleFormatter(t *testing.T) {
	f := &ConsoleFormatter{TimeFormat: "15:04:05"}
	out := string(f.Format(Entry{
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   INFO,
		Message: "模型列表已更新",
		Fields:  []Field{Int("count", 3), String("source", "remote api")},
		File:    "/a/b/catalog/fetcher.go",
		Line:    42,
	}))

	assert.True(t, strings.HasPrefix(out, "[03:04:05] [INFO ] [catalog/fetcher.go:42] 模型列表已更新"))
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, `source="remote api"`)
	assert.NotContains(t, out, "\033[")
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "/tmp/modelexplorer-test.log")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_CONSOLE", "false")
	t.Setenv("LOG_MAX_BACKUPS", "7")

	config := ParseConfig()
	assert.Equal(t, ERROR, config.Level)
	assert.Equal(t, JSONFormat, config.Format, "写文件时默认JSON")
	assert.False(t, config.Console)
	assert.Equal(t, 7, config.MaxBackups)
}

func TestNormalizeForcesConsole(t *testing.T) {
	c := Config{Console: false}.Normalize()
	assert.True(t, c.Console)
	assert.Equal(t, DefaultConfig.TimeFormat, c.TimeFormat)
}
