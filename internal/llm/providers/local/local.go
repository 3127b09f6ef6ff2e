// internal/llm/providers/local/local.go
package local

import (
	"context"
	"strings"

	"github.com/Corphon/ReviewForgeMCP/internal/llm"
)

func init() {
	llm.Register("local", func() llm.Provider {
		return &Provider{}
	})
}

// Provider 离线的确定性规则生成器，永不失败、不访问网络
type Provider struct{}

func (p *Provider) Initialize(config map[string]string) error {
	return nil
}

func (p *Provider) GetName() string {
	return "Local Rule"
}

func (p *Provider) GetSupportedModels() []string {
	return []string{"rule-based"}
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	// 确定性离线行为：取提示词最后一行作为回显片段
	snippet := req.Prompt
	if idx := strings.LastIndex(snippet, "\n"); idx >= 0 {
		snippet = snippet[idx+1:]
	}

	return &llm.CompletionResponse{
		Text:         snippet + " —— 本段由本地规则生成，无外部LLM调用。",
		ModelName:    "rule-based",
		ProviderName: p.GetName(),
	}, nil
}
