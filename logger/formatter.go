package logger

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Entry 日志条目
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
	File    string
	Line    int
}

// Formatter 格式化器接口
type Formatter interface {
	Format(entry Entry) []byte
}

// ConsoleFormatter 控制台文本格式化器
type ConsoleFormatter struct {
	EnableColor bool
	TimeFormat  string
}

// Format 格式化为 `[时间] [级别] [文件:行] 消息 k=v ...`
func (f *ConsoleFormatter) Format(entry Entry) []byte {
	var b strings.Builder

	b.WriteString("[")
	b.WriteString(entry.Time.Format(f.TimeFormat))
	b.WriteString("] ")

	if f.EnableColor {
		b.WriteString(entry.Level.color())
	}
	fmt.Fprintf(&b, "[%-5s]", entry.Level.String())
	if f.EnableColor {
		b.WriteString(resetColor)
	}
	b.WriteString(" ")

	if entry.File != "" {
		fmt.Fprintf(&b, "[%s:%d] ", shortFileName(entry.File), entry.Line)
	}

	b.WriteString(entry.Message)

	for _, field := range entry.Fields {
		b.WriteString(" ")
		b.WriteString(field.Key)
		b.WriteString("=")
		b.WriteString(field.FormatValue())
	}

	b.WriteString("\n")
	return []byte(b.String())
}

// JSONFormatter JSON格式化器，写文件时默认使用
type JSONFormatter struct{}

// Format 格式化为单行JSON
func (f *JSONFormatter) Format(entry Entry) []byte {
	data := map[string]any{
		"timestamp": entry.Time.Format("2006-01-02T15:04:05.000Z07:00"),
		"level":     entry.Level.String(),
		"message":   entry.Message,
	}
	if entry.File != "" {
		data["file"] = fmt.Sprintf("%s:%d", shortFileName(entry.File), entry.Line)
	}
	for _, field := range entry.Fields {
		data[field.Key] = field.Value
	}

	out, err := json.Marshal(data)
	if err != nil {
		fallback := fmt.Sprintf(`{"timestamp":%q,"level":%q,"message":"JSON encoding error: %s"}`,
			entry.Time.Format(time.RFC3339), entry.Level.String(), err.Error())
		return []byte(fallback + "\n")
	}
	return append(out, '\n')
}

// shortFileName 只保留最后一级目录和文件名
func shortFileName(file string) string {
	parts := strings.Split(file, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return file
}

// callerInfo 获取调用者文件和行号
func callerInfo(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown", 0
	}
	return file, line
}
