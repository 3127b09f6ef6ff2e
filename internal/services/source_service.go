// internal/services/source_service.go
package services

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Corphon/ReviewForgeMCP/internal/models"
	"github.com/Corphon/ReviewForgeMCP/internal/utils"
)

// DefaultSegmentMaxLen 分段的软最大字符数
const DefaultSegmentMaxLen = 400

var whitespaceRun = regexp.MustCompile(`\s+`)

// 句子终止符：英文句末标点与全角句号
var sentenceTerminators = map[rune]bool{'.': true, '!': true, '?': true, '。': true}

// SourceService 负责源文献的加载、清洗、去重与分段
type SourceService struct {
	logger *utils.Logger
}

// NewSourceService 创建源文献服务
func NewSourceService() *SourceService {
	return &SourceService{
		logger: utils.GetLogger(),
	}
}

// LoadTexts 按 glob 模式加载原始文本
// 不存在或不可读的文件静默跳过，尽力收集
func (s *SourceService) LoadTexts(pathSpecs []string) []models.SourceDocument {
	var items []models.SourceDocument
	for _, spec := range pathSpecs {
		matches, err := filepath.Glob(spec)
		if err != nil {
			// 非法模式与缺失文件同样按尽力收集处理
			s.logger.Warnf("源文件模式无效，已跳过: %s", spec)
			continue
		}
		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Warnf("源文件读取失败，已跳过: %s", path)
				continue
			}
			items = append(items, models.SourceDocument{
				Name: filepath.Base(path),
				Text: string(data),
			})
		}
	}
	return items
}

// Clean 基础清洗：去除BOM、压缩空白、去首尾空白
func (s *SourceService) Clean(text string) string {
	text = strings.ReplaceAll(text, "\uFEFF", " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Deduplicate 按清洗后文本去重，保留首次出现顺序，空文本丢弃
func (s *SourceService) Deduplicate(texts []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, t := range texts {
		key := strings.TrimSpace(t)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, key)
	}
	return unique
}

// DeduplicateDocuments 按文本去重并保持名称对齐
func (s *SourceService) DeduplicateDocuments(docs []models.SourceDocument) []models.SourceDocument {
	seen := make(map[string]bool)
	var unique []models.SourceDocument
	for _, doc := range docs {
		if doc.Text == "" || seen[doc.Text] {
			continue
		}
		seen[doc.Text] = true
		unique = append(unique, doc)
	}
	return unique
}

// Segment 将文本按句子边界切分为软上限长度的分段
// 单句超长时整句保留，绝不从句中截断
func (s *SourceService) Segment(text string, maxLen int) []string {
	sentences := splitSentences(text)

	var chunks []string
	var current []string
	currentLen := 0
	for _, sent := range sentences {
		if sent == "" {
			continue
		}
		sentLen := utf8.RuneCountInString(sent)
		if currentLen+sentLen > maxLen && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{sent}
			currentLen = sentLen
		} else {
			current = append(current, sent)
			currentLen += sentLen
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// splitSentences 在终止标点后跟空白处断句，空白作为分隔符被吞掉
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		current.WriteRune(r)
		if sentenceTerminators[r] && i+1 < len(runes) && isSpace(runes[i+1]) {
			sentences = append(sentences, current.String())
			current.Reset()
			for i+1 < len(runes) && isSpace(runes[i+1]) {
				i++
			}
		}
		i++
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Preprocess 加载、清洗、去重并分段
// 返回扁平的分段列表与去重后的文献（名称与文本对齐）
func (s *SourceService) Preprocess(pathSpecs []string) ([]string, []models.SourceDocument) {
	raw := s.LoadTexts(pathSpecs)

	cleaned := make([]models.SourceDocument, 0, len(raw))
	for _, doc := range raw {
		cleaned = append(cleaned, models.SourceDocument{
			Name: doc.Name,
			Text: s.Clean(doc.Text),
		})
	}
	unique := s.DeduplicateDocuments(cleaned)

	var segments []string
	for _, doc := range unique {
		segments = append(segments, s.Segment(doc.Text, DefaultSegmentMaxLen)...)
	}
	return segments, unique
}
