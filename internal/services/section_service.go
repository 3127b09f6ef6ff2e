// internal/services/section_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Corphon/ReviewForgeMCP/internal/llm"
	"github.com/Corphon/ReviewForgeMCP/internal/models"
	"github.com/Corphon/ReviewForgeMCP/internal/utils"
)

// ParagraphMaxTokens 每个章节段落的生成预算
const ParagraphMaxTokens = 180

// SectionService 组装单个章节：规则要点 + 生成/兜底段落
type SectionService struct {
	logger *utils.Logger
}

// NewSectionService 创建章节服务
func NewSectionService() *SectionService {
	return &SectionService{
		logger: utils.GetLogger(),
	}
}

// Compose 组装一个章节
// provider 为 nil 时直接走兜底模板
func (s *SectionService) Compose(ctx context.Context, provider llm.Provider, title, topic, audience string, keywords []string, label, lang string) models.GeneratedSection {
	return models.GeneratedSection{
		Title:         title,
		Bullets:       s.BuildBullets(title, topic, keywords, label, lang),
		Paragraph:     s.ComposeParagraph(ctx, provider, title, topic, audience, keywords, label, lang),
		CitationLabel: label,
	}
}

// BuildBullets 生成三条固定形态的要点，纯规则，无后端参与
func (s *SectionService) BuildBullets(title, topic string, keywords []string, label, lang string) []string {
	kws := topic
	if len(keywords) > 0 {
		head := keywords
		if len(head) > 3 {
			head = head[:3]
		}
		kws = strings.Join(head, ", ")
	}
	marker := ""
	if label != "" {
		marker = " " + label
	}

	if lang == "zh" {
		return []string{
			fmt.Sprintf("核心议题：%s 与 %s%s", title, topic, marker),
			fmt.Sprintf("关键概念：%s", kws),
			"趋势/贡献：方法、数据、应用",
		}
	}
	return []string{
		fmt.Sprintf("Core focus: %s within %s%s", title, topic, marker),
		fmt.Sprintf("Key concepts: %s", kws),
		"Trends/contributions: methods, data, applications",
	}
}

// BuildPrompt 构建结构化段落提示词
func (s *SectionService) BuildPrompt(title, topic, audience string, keywords []string, label, lang string) string {
	kws := topic
	if len(keywords) > 0 {
		head := keywords
		if len(head) > 8 {
			head = head[:8]
		}
		kws = strings.Join(head, ", ")
	}
	language := "English"
	if lang == "zh" {
		language = "Chinese"
	}
	if label == "" {
		label = "None"
	}

	return fmt.Sprintf(
		"Write a concise paragraph (~120 words) for a literature review section.\n"+
			"Section: %s\nTopic: %s\nAudience: %s\nKeywords: %s\n"+
			"Language: %s\n"+
			"Include citation marker if provided: %s\n"+
			"Emphasize evolution, representative work, applications, and open issues.\n",
		title, topic, audience, kws, language, label)
}

// ComposeParagraph 调用生成后端合成段落，任何失败都被兜底模板吞掉
// 后端故障绝不向上传播：可选增强不能影响主产出
func (s *SectionService) ComposeParagraph(ctx context.Context, provider llm.Provider, title, topic, audience string, keywords []string, label, lang string) string {
	if provider != nil {
		prompt := s.BuildPrompt(title, topic, audience, keywords, label, lang)
		resp, err := s.completeText(ctx, provider, prompt)
		if err == nil && resp != nil && resp.Text != "" {
			return resp.Text
		}
		if err != nil {
			s.logger.Warnf("段落生成失败，使用兜底模板: %v", err)
		}
	}
	return s.FallbackParagraph(title, topic, audience, keywords, label, lang)
}

// completeText 包一层 recover：后端实现抛出的任何意外都转为错误
func (s *SectionService) completeText(ctx context.Context, provider llm.Provider, prompt string) (resp *llm.CompletionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("生成后端 panic: %v", r)
		}
	}()
	return provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt:    prompt,
		MaxTokens: ParagraphMaxTokens,
	})
}

// FallbackParagraph 生成失败或未配置后端时的确定性段落模板
func (s *SectionService) FallbackParagraph(title, topic, audience string, keywords []string, label, lang string) string {
	kws := topic
	if len(keywords) > 0 {
		head := keywords
		if len(head) > 5 {
			head = head[:5]
		}
		kws = strings.Join(head, ", ")
	}
	citation := ""
	if label != "" {
		citation = " (" + label + ")"
	}

	if lang == "zh" {
		return fmt.Sprintf(
			"本节聚焦 %s 领域中的「%s」。 面向 %s 受众，我们强调 %s 的演进、代表性工作与应用场景%s。"+
				" 同时概括方法与数据的改进，并指出仍待解决的开放问题。",
			topic, title, audience, kws, citation)
	}
	return fmt.Sprintf(
		"This section covers '%s' within %s. For %s readers, it highlights the evolution of %s%s,"+
			" representative work, and practical use cases, summarizing method/data advances and open issues.",
		title, topic, audience, kws, citation)
}
