// internal/models/review.go
package models

import (
	"time"

	apperrors "github.com/Corphon/ReviewForgeMCP/internal/errors"
)

// 结构模式：决定综述正文的章节模板
const (
	ModeTimeline    = "timeline"
	ModeSchool      = "school"
	ModeApplication = "application"
	ModeCustom      = "custom"
)

// 生成后端提供者标签
const (
	ProviderLocal       = "local"
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderDeepSeek    = "deepseek"
)

var (
	validAudiences = map[string]bool{"researcher": true, "student": true, "industry": true, "general": true}
	validModes     = map[string]bool{ModeTimeline: true, ModeSchool: true, ModeApplication: true, ModeCustom: true}
	validLangs     = map[string]bool{"zh": true, "en": true}
	validProviders = map[string]bool{ProviderLocal: true, ProviderHuggingFace: true, ProviderOpenAI: true, ProviderDeepSeek: true}
)

// SourceDocument 表示一篇清洗后的源文献
type SourceDocument struct {
	Name string `json:"name"` // 文件名（不含路径）
	Text string `json:"text"` // 清洗后的正文
}

// CitationEntry 引用表中的一项
type CitationEntry struct {
	Label string `json:"label"` // [S1]、[S2]……
	Name  string `json:"name"`  // 源文献名称
}

// CitationMap 按发现顺序排列的引用表
type CitationMap []CitationEntry

// Labels 按序返回全部引用标签
func (m CitationMap) Labels() []string {
	labels := make([]string, 0, len(m))
	for _, entry := range m {
		labels = append(labels, entry.Label)
	}
	return labels
}

// GeneratedSection 一个已生成的综述章节
type GeneratedSection struct {
	Title         string   `json:"title"`
	Bullets       []string `json:"bullets"`
	Paragraph     string   `json:"paragraph"`
	CitationLabel string   `json:"citation_label,omitempty"`
}

// ReviewRequest 一次综述生成的全部输入
type ReviewRequest struct {
	Topic    string   `json:"topic"`
	Audience string   `json:"audience"`
	Length   int      `json:"length"` // 目标词数，仅作提示
	Mode     string   `json:"mode"`
	Keywords []string `json:"keywords,omitempty"`
	Outline  string   `json:"outline,omitempty"` // 分号分隔，mode=custom 时必填
	Sources  []string `json:"sources,omitempty"` // 路径或 glob 模式
	Lang     string   `json:"lang"`
	Output   string   `json:"output,omitempty"`

	LLMProvider string `json:"llm_provider"`
	LLMEndpoint string `json:"llm_endpoint,omitempty"`
	LLMModel    string `json:"llm_model,omitempty"`
	LLMToken    string `json:"llm_token,omitempty"`
	LLMTimeout  int    `json:"llm_timeout,omitempty"` // 秒
}

// ApplyDefaults 填充缺省字段
func (r *ReviewRequest) ApplyDefaults() {
	if r.Audience == "" {
		r.Audience = "general"
	}
	if r.Length <= 0 {
		r.Length = 1500
	}
	if r.Mode == "" {
		r.Mode = ModeTimeline
	}
	if r.Lang == "" {
		r.Lang = "zh"
	}
	if r.LLMProvider == "" {
		r.LLMProvider = ProviderLocal
	}
	if r.LLMTimeout == 0 {
		r.LLMTimeout = 8
	}
}

// Validate 校验请求字段，任何问题都在生成开始前暴露
func (r *ReviewRequest) Validate() error {
	if r.Topic == "" {
		return apperrors.NewValidationError("topic 不能为空", nil)
	}
	if !validAudiences[r.Audience] {
		return apperrors.NewValidationError("audience 必须是 researcher/student/industry/general 之一", nil)
	}
	if !validModes[r.Mode] {
		return apperrors.NewValidationError("mode 必须是 timeline/school/application/custom 之一", nil)
	}
	if !validLangs[r.Lang] {
		return apperrors.NewValidationError("lang 必须是 zh/en 之一", nil)
	}
	if r.Mode == ModeCustom && r.Outline == "" {
		return apperrors.NewValidationError("mode=custom 时必须提供 outline", nil)
	}
	if !validProviders[r.LLMProvider] {
		return apperrors.NewValidationError("llm 必须是 local/huggingface/openai/deepseek 之一", nil)
	}
	if r.LLMTimeout <= 0 {
		return apperrors.NewValidationError("llm_timeout 必须为正数", nil)
	}
	return nil
}

// ReviewResult 一次生成的产出
type ReviewResult struct {
	Markdown    string             `json:"markdown"`
	Sections    []GeneratedSection `json:"sections"`
	References  string             `json:"references"`
	SourceCount int                `json:"source_count"`
	Keywords    []string           `json:"keywords"`
	GeneratedAt time.Time          `json:"generated_at"`
}
