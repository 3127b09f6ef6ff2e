// internal/services/outline_service.go
package services

import (
	"strings"

	apperrors "github.com/Corphon/ReviewForgeMCP/internal/errors"
	"github.com/Corphon/ReviewForgeMCP/internal/models"
)

// 各结构模式的正文章节模板（纯查找表）
var modeBodies = map[string][]string{
	models.ModeTimeline:    {"Early stage", "Middle stage", "Recent trends"},
	models.ModeSchool:      {"Methodological schools", "Representative work", "Key debates"},
	models.ModeApplication: {"Applications", "Case studies", "Impact"},
}

// genericBody 未识别模式的兜底正文，从不报错
var genericBody = []string{"Key themes"}

// outlineTail 所有内置模式共享的收尾章节
var outlineTail = []string{"Comparative Analysis", "Challenges and Limitations", "Future Directions", "References"}

// OutlineService 根据结构模式与关键词规划章节序列
type OutlineService struct{}

// NewOutlineService 创建大纲服务
func NewOutlineService() *OutlineService {
	return &OutlineService{}
}

// Plan 生成有序的章节标题序列
// mode=custom 时 customOutline 为分号分隔的章节串，缺失或为空视为配置错误
func (o *OutlineService) Plan(mode, topic string, keywords []string, customOutline string) ([]string, error) {
	mode = strings.ToLower(mode)

	if mode == models.ModeCustom {
		if customOutline == "" {
			return nil, apperrors.NewValidationError("mode=custom 时必须提供 outline", nil)
		}
		var sections []string
		for _, part := range strings.Split(customOutline, ";") {
			part = strings.TrimSpace(part)
			if part != "" {
				sections = append(sections, part)
			}
		}
		if len(sections) == 0 {
			return nil, apperrors.NewValidationError("自定义 outline 不含有效章节", nil)
		}
		return sections, nil
	}

	body, exists := modeBodies[mode]
	if !exists {
		body = genericBody
	}
	body = append([]string(nil), body...)

	// 将关键词并入一个主题性章节，增强相关性
	if len(keywords) > 0 {
		head := keywords
		if len(head) > 4 {
			head = head[:4]
		}
		body = append(body, "Cross-cutting themes: "+strings.Join(head, ", "))
	}

	sections := make([]string, 0, len(body)+len(outlineTail)+1)
	sections = append(sections, "Introduction")
	sections = append(sections, body...)
	sections = append(sections, outlineTail...)
	return sections, nil
}
