// internal/services/citation_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/Corphon/ReviewForgeMCP/internal/models"
)

// CitationService 维护源文献到引用标签的映射
// 标签按位置轮转分配到章节，是结构性占位而非证据性引用
type CitationService struct{}

// NewCitationService 创建引用服务
func NewCitationService() *CitationService {
	return &CitationService{}
}

// MapSources 为每个源文献分配 [S1]、[S2]…… 标签，按输入顺序1起编号
func (c *CitationService) MapSources(names []string) models.CitationMap {
	mapping := make(models.CitationMap, 0, len(names))
	for idx, name := range names {
		mapping = append(mapping, models.CitationEntry{
			Label: fmt.Sprintf("[S%d]", idx+1),
			Name:  name,
		})
	}
	return mapping
}

// RotateLabels 以轮转方式产出 count 个章节标签
// 映射为空时返回空序列，与 count 无关
func (c *CitationService) RotateLabels(mapping models.CitationMap, count int) []string {
	labels := mapping.Labels()
	if len(labels) == 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, labels[i%len(labels)])
	}
	return result
}

// FormatReferences 渲染参考文献列表，每行 "{label} {name}"
func (c *CitationService) FormatReferences(mapping models.CitationMap) string {
	lines := make([]string, 0, len(mapping))
	for _, entry := range mapping {
		lines = append(lines, entry.Label+" "+entry.Name)
	}
	return strings.Join(lines, "\n")
}
