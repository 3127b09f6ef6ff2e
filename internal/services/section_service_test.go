// internal/services/section_service_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Corphon/ReviewForgeMCP/internal/llm"
)

// failingProvider 永远失败的生成后端
type failingProvider struct{}

func (p *failingProvider) Initialize(config map[string]string) error { return nil }
func (p *failingProvider) GetName() string                           { return "failing" }
func (p *failingProvider) GetSupportedModels() []string              { return nil }
func (p *failingProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return nil, errors.New("网络错误")
}

// emptyProvider 永远返回空文本的生成后端
type emptyProvider struct{ failingProvider }

func (p *emptyProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Text: ""}, nil
}

// panicProvider 直接 panic 的生成后端
type panicProvider struct{ failingProvider }

func (p *panicProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	panic("意外崩溃")
}

// echoProvider 原样返回固定文本的生成后端
type echoProvider struct{ failingProvider }

func (p *echoProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Text: "generated paragraph"}, nil
}

// TestBuildBulletsShape 测试要点的固定形态与语言分支
func TestBuildBulletsShape(t *testing.T) {
	s := NewSectionService()

	en := s.BuildBullets("Applications", "AI", []string{"a", "b", "c", "d"}, "[S1]", "en")
	if len(en) != 3 {
		t.Fatalf("应当产出三条要点: %v", en)
	}
	if en[0] != "Core focus: Applications within AI [S1]" {
		t.Fatalf("首条要点不符: %q", en[0])
	}
	if en[1] != "Key concepts: a, b, c" {
		t.Fatalf("关键词要点应当最多取前3个: %q", en[1])
	}

	zh := s.BuildBullets("应用", "人工智能", nil, "", "zh")
	if zh[0] != "核心议题：应用 与 人工智能" {
		t.Fatalf("中文要点不符: %q", zh[0])
	}
	if zh[1] != "关键概念：人工智能" {
		t.Fatalf("无关键词时应当回退到主题: %q", zh[1])
	}
}

// TestBuildPromptFields 测试提示词包含全部结构化字段
func TestBuildPromptFields(t *testing.T) {
	s := NewSectionService()

	prompt := s.BuildPrompt("Applications", "AI", "student", []string{"k1"}, "", "en")
	for _, want := range []string{"Section: Applications", "Topic: AI", "Audience: student", "Keywords: k1", "Language: English", "citation marker if provided: None"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("提示词缺少 %q:\n%s", want, prompt)
		}
	}

	prompt = s.BuildPrompt("应用", "人工智能", "researcher", nil, "[S2]", "zh")
	if !strings.Contains(prompt, "Language: Chinese") || !strings.Contains(prompt, "[S2]") {
		t.Fatalf("中文提示词字段不符:\n%s", prompt)
	}
}

// TestComposeParagraphFallback 测试兜底策略：
// 失败后端、空结果后端、panic后端、未配置后端，产出完全一致
func TestComposeParagraphFallback(t *testing.T) {
	s := NewSectionService()
	ctx := context.Background()

	want := s.FallbackParagraph("Applications", "Test", "general", nil, "", "en")

	cases := map[string]llm.Provider{
		"nil后端":    nil,
		"失败后端":     &failingProvider{},
		"空结果后端":    &emptyProvider{},
		"panic 后端": &panicProvider{},
	}
	for name, provider := range cases {
		got := s.ComposeParagraph(ctx, provider, "Applications", "Test", "general", nil, "", "en")
		if got != want {
			t.Fatalf("%s 应当产出兜底段落:\n got=%q\nwant=%q", name, got, want)
		}
	}
}

// TestComposeParagraphUsesBackendResult 测试后端成功时原样使用其输出
func TestComposeParagraphUsesBackendResult(t *testing.T) {
	s := NewSectionService()

	got := s.ComposeParagraph(context.Background(), &echoProvider{}, "Applications", "Test", "general", nil, "[S1]", "en")
	if got != "generated paragraph" {
		t.Fatalf("应当使用后端输出: %q", got)
	}
}

// TestFallbackParagraphCitation 测试兜底模板中的引用标记
func TestFallbackParagraphCitation(t *testing.T) {
	s := NewSectionService()

	withLabel := s.FallbackParagraph("Applications", "AI", "student", []string{"k1", "k2"}, "[S3]", "en")
	if !strings.Contains(withLabel, "([S3])") {
		t.Fatalf("兜底段落应当包含引用标记: %q", withLabel)
	}

	zh := s.FallbackParagraph("应用", "人工智能", "researcher", nil, "", "zh")
	if !strings.Contains(zh, "「应用」") {
		t.Fatalf("中文兜底段落不符: %q", zh)
	}
}
