// internal/storage/export_store.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// unsafeNameChars 文件名中需要替换掉的字符
var unsafeNameChars = regexp.MustCompile(`[^\pL\pN_-]+`)

// ExportStore 保存生成的综述文档
type ExportStore struct {
	BaseDir string

	// 文件级别锁 path -> *sync.Mutex
	fileLocks sync.Map
}

// ExportInfo 一份已保存文档的元信息
type ExportInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// NewExportStore 创建导出存储
func NewExportStore(baseDir string) (*ExportStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("创建导出目录失败: %w", err)
	}
	return &ExportStore{BaseDir: baseDir}, nil
}

// 获取文件锁
func (s *ExportStore) getFileLock(fullPath string) *sync.Mutex {
	value, _ := s.fileLocks.LoadOrStore(fullPath, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// SaveReview 以原子写入保存一份 Markdown 文档，返回落盘路径
func (s *ExportStore) SaveReview(topic, markdown string) (string, error) {
	slug := unsafeNameChars.ReplaceAllString(topic, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "review"
	}
	if len([]rune(slug)) > 40 {
		slug = string([]rune(slug)[:40])
	}

	filename := fmt.Sprintf("%s_%s.md", time.Now().Format("20060102_150405"), slug)
	fullPath := filepath.Join(s.BaseDir, filename)

	lock := s.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	// 原子性文件写入
	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("保存临时文件失败: %w", err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("替换目标文件失败: %w", err)
	}

	return fullPath, nil
}

// List 返回全部导出文档，按创建时间倒序
func (s *ExportStore) List() ([]ExportInfo, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("读取导出目录失败: %w", err)
	}

	var infos []ExportInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		fileInfo, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, ExportInfo{
			Name:      entry.Name(),
			Size:      fileInfo.Size(),
			CreatedAt: fileInfo.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// Read 读取一份导出文档，文件名不允许携带路径
func (s *ExportStore) Read(name string) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("非法的文件名: %s", name)
	}
	return os.ReadFile(filepath.Join(s.BaseDir, name))
}
