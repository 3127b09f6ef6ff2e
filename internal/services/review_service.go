// internal/services/review_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Corphon/ReviewForgeMCP/internal/llm"
	"github.com/Corphon/ReviewForgeMCP/internal/models"
	"github.com/Corphon/ReviewForgeMCP/internal/utils"
)

// paragraphWrapWidth 最终文档中段落的软换行宽度
const paragraphWrapWidth = 90

// 文档框架模板：头部元信息、章节序列、参考文献或无外部资料提示
var reviewTemplate = template.Must(template.New("review").Parse(`# {{.Topic}} — Review
_Audience_: {{.Audience}} | _Length target_: {{.Length}} words | _Mode_: {{.Mode}} | _Date_: {{.Date}} | _Lang_: {{.Lang}}

{{range .Sections}}{{.}}

{{end}}{{if .References}}## References
{{.References}}
{{else}}**未使用外部资料 / No external sources used.**
{{end}}`))

// ProgressFunc 每完成一个章节回调一次，用于 CLI/WS 的进度汇报
type ProgressFunc func(index, total int, section models.GeneratedSection)

// ReviewService 串起整条生成管线：规划、引用、逐章节合成、文档装配
// 单线程同步执行，调用间不保留任何共享可变状态
type ReviewService struct {
	Sources   *SourceService
	Keywords  *KeywordService
	Outline   *OutlineService
	Citations *CitationService
	Sections  *SectionService

	logger *utils.Logger
}

// NewReviewService 创建综述生成服务
func NewReviewService() *ReviewService {
	return &ReviewService{
		Sources:   NewSourceService(),
		Keywords:  NewKeywordService(),
		Outline:   NewOutlineService(),
		Citations: NewCitationService(),
		Sections:  NewSectionService(),
		logger:    utils.GetLogger(),
	}
}

// GenerateFromRequest 校验请求、加载文件源并执行生成
// 配置问题在任何章节工作开始前返回；配置通过后运行必定成功
func (s *ReviewService) GenerateFromRequest(ctx context.Context, req *models.ReviewRequest, progress ProgressFunc) (*models.ReviewResult, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	provider, err := llm.Build(req.LLMProvider, llm.BuildOptions{
		Endpoint: req.LLMEndpoint,
		Model:    req.LLMModel,
		Token:    req.LLMToken,
		Timeout:  req.LLMTimeout,
	})
	if err != nil {
		return nil, err
	}

	segments, docs := s.Sources.Preprocess(req.Sources)
	return s.Generate(ctx, req, docs, segments, provider, progress)
}

// Generate 对已就绪的文献集执行生成
// docs 的名称与文本按发现顺序对齐；provider 为 nil 时段落全部走兜底模板
func (s *ReviewService) Generate(ctx context.Context, req *models.ReviewRequest, docs []models.SourceDocument, segments []string, provider llm.Provider, progress ProgressFunc) (*models.ReviewResult, error) {
	outline, err := s.Outline.Plan(req.Mode, req.Topic, req.Keywords, req.Outline)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(docs))
	for idx, doc := range docs {
		name := doc.Name
		if name == "" {
			name = fmt.Sprintf("Source_%d", idx+1)
		}
		names = append(names, name)
	}
	mapping := s.Citations.MapSources(names)

	rotateCount := len(outline)
	if rotateCount < 1 {
		rotateCount = 1
	}
	labels := s.Citations.RotateLabels(mapping, rotateCount)

	// 调用方未提供关键词时，从分段（或整篇文献）中自动抽取
	allKeywords := req.Keywords
	if len(allKeywords) == 0 {
		corpus := segments
		if len(corpus) == 0 {
			for _, doc := range docs {
				corpus = append(corpus, doc.Text)
			}
		}
		allKeywords = s.Keywords.Extract(corpus, DefaultTopK)
	}

	sections := make([]models.GeneratedSection, 0, len(outline))
	for idx, title := range outline {
		label := ""
		if idx < len(labels) {
			label = labels[idx]
		}
		section := s.Sections.Compose(ctx, provider, title, req.Topic, req.Audience, allKeywords, label, req.Lang)
		sections = append(sections, section)
		if progress != nil {
			progress(idx, len(outline), section)
		}
	}

	references := s.Citations.FormatReferences(mapping)
	now := time.Now()

	markdown, err := s.renderMarkdown(req, now, sections, references)
	if err != nil {
		return nil, err
	}

	return &models.ReviewResult{
		Markdown:    markdown,
		Sections:    sections,
		References:  references,
		SourceCount: len(docs),
		Keywords:    allKeywords,
		GeneratedAt: now,
	}, nil
}

// renderMarkdown 渲染最终 Markdown 文档
func (s *ReviewService) renderMarkdown(req *models.ReviewRequest, now time.Time, sections []models.GeneratedSection, references string) (string, error) {
	blocks := make([]string, 0, len(sections))
	for _, section := range sections {
		blocks = append(blocks, renderSectionBlock(section))
	}

	var builder strings.Builder
	err := reviewTemplate.Execute(&builder, map[string]interface{}{
		"Topic":      req.Topic,
		"Audience":   req.Audience,
		"Length":     req.Length,
		"Mode":       req.Mode,
		"Date":       now.Format("2006-01-02"),
		"Lang":       req.Lang,
		"Sections":   blocks,
		"References": references,
	})
	if err != nil {
		return "", err
	}
	return builder.String(), nil
}

// renderSectionBlock 渲染单个章节：标题、要点列表、软换行段落
func renderSectionBlock(section models.GeneratedSection) string {
	var builder strings.Builder
	builder.WriteString("## " + section.Title + "\n\n")
	for _, bullet := range section.Bullets {
		builder.WriteString("- " + bullet + "\n")
	}
	builder.WriteString("\n")
	builder.WriteString(utils.WrapParagraph(section.Paragraph, paragraphWrapWidth))
	return builder.String()
}
