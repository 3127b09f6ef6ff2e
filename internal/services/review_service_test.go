// internal/services/review_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/Corphon/ReviewForgeMCP/internal/errors"
	"github.com/Corphon/ReviewForgeMCP/internal/models"

	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/local"
)

// TestGenerateWithoutSources 测试无外部资料时的文档形态
func TestGenerateWithoutSources(t *testing.T) {
	s := NewReviewService()
	req := &models.ReviewRequest{Topic: "Test", Audience: "general", Length: 1500, Mode: "application", Lang: "en", LLMProvider: "local", LLMTimeout: 8}

	result, err := s.Generate(context.Background(), req, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("生成不应失败: %v", err)
	}

	if !strings.HasPrefix(result.Markdown, "# Test — Review\n") {
		t.Fatalf("文档头部不符:\n%s", result.Markdown)
	}
	if !strings.Contains(result.Markdown, "**未使用外部资料 / No external sources used.**") {
		t.Fatalf("无资料时应当输出双语提示:\n%s", result.Markdown)
	}
	if strings.Contains(result.Markdown, "[S") {
		t.Fatalf("无资料时不应出现引用标记:\n%s", result.Markdown)
	}
	if result.References != "" {
		t.Fatalf("无资料时参考文献列表应当为空: %q", result.References)
	}
	if result.SourceCount != 0 {
		t.Fatalf("SourceCount 应为 0: %d", result.SourceCount)
	}
}

// TestGenerateWithSource 测试单一文献时引用与参考文献的呈现
func TestGenerateWithSource(t *testing.T) {
	s := NewReviewService()
	req := &models.ReviewRequest{Topic: "AI", Audience: "student", Length: 1500, Mode: "timeline", Lang: "en", LLMProvider: "local", LLMTimeout: 8}

	docs := []models.SourceDocument{{Name: "paper.txt", Text: "neural networks improved machine translation quality"}}
	result, err := s.Generate(context.Background(), req, docs, nil, nil, nil)
	if err != nil {
		t.Fatalf("生成不应失败: %v", err)
	}

	if !strings.Contains(result.Markdown, "[S1]") {
		t.Fatalf("应当出现引用标记 [S1]:\n%s", result.Markdown)
	}
	if !strings.Contains(result.Markdown, "## References\n[S1] paper.txt") {
		t.Fatalf("参考文献列表不符:\n%s", result.Markdown)
	}
	if result.SourceCount != 1 {
		t.Fatalf("SourceCount 应为 1: %d", result.SourceCount)
	}
	// 未提供关键词时从文献自动抽取
	if len(result.Keywords) == 0 {
		t.Fatalf("应当自动抽取关键词")
	}
}

// TestGenerateFailingEqualsNil 测试失败后端与未配置后端产出一致的章节
func TestGenerateFailingEqualsNil(t *testing.T) {
	s := NewReviewService()
	req := &models.ReviewRequest{Topic: "Test", Audience: "general", Length: 1500, Mode: "application", Lang: "en", LLMProvider: "local", LLMTimeout: 8}

	withNil, err := s.Generate(context.Background(), req, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("生成不应失败: %v", err)
	}
	withFailing, err := s.Generate(context.Background(), req, nil, nil, &failingProvider{}, nil)
	if err != nil {
		t.Fatalf("生成不应失败: %v", err)
	}

	if len(withNil.Sections) != len(withFailing.Sections) {
		t.Fatalf("章节数量不一致: %d vs %d", len(withNil.Sections), len(withFailing.Sections))
	}
	for i := range withNil.Sections {
		if withNil.Sections[i].Paragraph != withFailing.Sections[i].Paragraph {
			t.Fatalf("章节 %d 段落不一致:\n%q\n%q", i, withNil.Sections[i].Paragraph, withFailing.Sections[i].Paragraph)
		}
	}
}

// TestGenerateCustomModeRequiresOutline 测试自定义模式缺少大纲时的校验
func TestGenerateCustomModeRequiresOutline(t *testing.T) {
	s := NewReviewService()
	req := &models.ReviewRequest{Topic: "Test", Audience: "general", Length: 1500, Mode: "custom", Lang: "en", LLMProvider: "local", LLMTimeout: 8}

	_, err := s.Generate(context.Background(), req, nil, nil, nil, nil)
	if !apperrors.IsValidationError(err) {
		t.Fatalf("应当返回校验错误: %v", err)
	}
}

// TestGenerateProgressCallback 测试进度回调按章节次序触发
func TestGenerateProgressCallback(t *testing.T) {
	s := NewReviewService()
	req := &models.ReviewRequest{Topic: "Test", Audience: "general", Length: 1500, Mode: "timeline", Lang: "zh", LLMProvider: "local", LLMTimeout: 8}

	var calls int
	var lastTotal int
	progress := func(index, total int, section models.GeneratedSection) {
		if index != calls {
			t.Fatalf("回调次序错乱: index=%d calls=%d", index, calls)
		}
		calls++
		lastTotal = total
	}

	result, err := s.Generate(context.Background(), req, nil, nil, nil, progress)
	if err != nil {
		t.Fatalf("生成不应失败: %v", err)
	}
	if calls != len(result.Sections) || lastTotal != len(result.Sections) {
		t.Fatalf("回调次数应当等于章节数: calls=%d total=%d sections=%d", calls, lastTotal, len(result.Sections))
	}
}

// TestGenerateFromRequestLocalProvider 测试完整请求入口：缺省填充、本地后端
func TestGenerateFromRequestLocalProvider(t *testing.T) {
	s := NewReviewService()
	req := &models.ReviewRequest{Topic: "多模态大模型"}

	result, err := s.GenerateFromRequest(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("生成不应失败: %v", err)
	}
	if req.Mode != models.ModeTimeline || req.Lang != "zh" || req.LLMProvider != models.ProviderLocal {
		t.Fatalf("缺省值未填充: %+v", req)
	}
	// 本地后端回显提示词末行
	if !strings.Contains(result.Markdown, "本段由本地规则生成") {
		t.Fatalf("本地后端输出缺失:\n%s", result.Markdown)
	}
}

// TestGenerateFromRequestRejectsBadRequest 测试非法请求在生成前被拦截
func TestGenerateFromRequestRejectsBadRequest(t *testing.T) {
	s := NewReviewService()

	cases := []*models.ReviewRequest{
		{},                                      // topic 缺失
		{Topic: "T", Audience: "alien"},         // 非法 audience
		{Topic: "T", Mode: "spiral"},            // 非法 mode
		{Topic: "T", Lang: "fr"},                // 非法 lang
		{Topic: "T", LLMProvider: "quantum"},    // 非法后端
		{Topic: "T", LLMTimeout: -1},            // 非法超时
		{Topic: "T", LLMProvider: "openai"},     // openai 缺少 token
		{Topic: "T", LLMProvider: "huggingface"}, // huggingface 缺少 endpoint
	}
	for i, req := range cases {
		_, err := s.GenerateFromRequest(context.Background(), req, nil)
		if !apperrors.IsValidationError(err) {
			t.Fatalf("用例 %d 应当返回校验错误: %v", i, err)
		}
	}
}

// TestRenderSectionBlock 测试单章节的渲染形态
func TestRenderSectionBlock(t *testing.T) {
	block := renderSectionBlock(models.GeneratedSection{
		Title:     "Applications",
		Bullets:   []string{"first", "second"},
		Paragraph: "short paragraph",
	})

	want := "## Applications\n\n- first\n- second\n\nshort paragraph"
	if block != want {
		t.Fatalf("章节渲染不符:\n got=%q\nwant=%q", block, want)
	}
}
