package store

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"modelexplorer/utils"
)

// FileStore 每个键一个文件，写入走临时文件+rename
type FileStore struct {
	dir   string
	mutex sync.RWMutex
}

// NewFileStore 创建目录存储，目录不存在时自动创建
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建缓存目录失败: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir 存储目录
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key))
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("读取缓存文件失败: %w", err)
	}
	return string(data), true, nil
}

// SetMany 逐键原子替换。多键之间不是事务：值大的键先写，时间戳这类小键最后写，
// 中途失败时旧时间戳仍然有效或新列表尚未落盘
func (s *FileStore) SetMany(_ context.Context, pairs map[string]string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Compare(len(pairs[b]), len(pairs[a]))
	})

	for _, k := range keys {
		if err := utils.WriteFileAtomic(s.path(k), []byte(pairs[k]), 0o644); err != nil {
			return fmt.Errorf("写入键 %s 失败: %w", k, err)
		}
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, k := range keys {
		if err := os.Remove(s.path(k)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("删除键 %s 失败: %w", k, err)
		}
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// sanitizeKey 键转换为安全的文件名
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || strings.Trim(b.String(), ".") == "" {
		return "_" + b.String()
	}
	return b.String()
}
