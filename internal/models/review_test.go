// internal/models/review_test.go
package models

import (
	"testing"

	apperrors "github.com/Corphon/ReviewForgeMCP/internal/errors"
)

// TestApplyDefaults 测试缺省字段的填充
func TestApplyDefaults(t *testing.T) {
	req := &ReviewRequest{Topic: "T"}
	req.ApplyDefaults()

	if req.Audience != "general" || req.Length != 1500 || req.Mode != ModeTimeline ||
		req.Lang != "zh" || req.LLMProvider != ProviderLocal || req.LLMTimeout != 8 {
		t.Fatalf("缺省值不符: %+v", req)
	}

	// 已有值不被覆盖
	req = &ReviewRequest{Topic: "T", Audience: "student", Length: 800, Mode: ModeSchool, Lang: "en", LLMProvider: ProviderOpenAI, LLMTimeout: 3}
	req.ApplyDefaults()
	if req.Audience != "student" || req.Length != 800 || req.Mode != ModeSchool ||
		req.Lang != "en" || req.LLMProvider != ProviderOpenAI || req.LLMTimeout != 3 {
		t.Fatalf("已有值被覆盖: %+v", req)
	}
}

// TestValidate 测试请求校验规则
func TestValidate(t *testing.T) {
	valid := func() *ReviewRequest {
		return &ReviewRequest{Topic: "T", Audience: "general", Length: 1500, Mode: ModeTimeline, Lang: "zh", LLMProvider: ProviderLocal, LLMTimeout: 8}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("合法请求不应报错: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ReviewRequest)
	}{
		{"空主题", func(r *ReviewRequest) { r.Topic = "" }},
		{"非法读者", func(r *ReviewRequest) { r.Audience = "alien" }},
		{"非法模式", func(r *ReviewRequest) { r.Mode = "spiral" }},
		{"非法语言", func(r *ReviewRequest) { r.Lang = "fr" }},
		{"custom缺大纲", func(r *ReviewRequest) { r.Mode = ModeCustom; r.Outline = "" }},
		{"非法后端", func(r *ReviewRequest) { r.LLMProvider = "quantum" }},
		{"零超时", func(r *ReviewRequest) { r.LLMTimeout = 0 }},
		{"负超时", func(r *ReviewRequest) { r.LLMTimeout = -5 }},
	}
	for _, tc := range cases {
		req := valid()
		tc.mutate(req)
		if err := req.Validate(); !apperrors.IsValidationError(err) {
			t.Fatalf("%s 应当返回校验错误: %v", tc.name, err)
		}
	}

	// custom 模式带大纲合法
	req := valid()
	req.Mode = ModeCustom
	req.Outline = "A;B"
	if err := req.Validate(); err != nil {
		t.Fatalf("带大纲的 custom 模式不应报错: %v", err)
	}
}

// TestCitationMapLabels 测试引用表标签的提取顺序
func TestCitationMapLabels(t *testing.T) {
	m := CitationMap{{Label: "[S1]", Name: "a"}, {Label: "[S2]", Name: "b"}}
	labels := m.Labels()
	if len(labels) != 2 || labels[0] != "[S1]" || labels[1] != "[S2]" {
		t.Fatalf("标签顺序不符: %v", labels)
	}
	if got := CitationMap(nil).Labels(); len(got) != 0 {
		t.Fatalf("空引用表应当返回空标签: %v", got)
	}
}
