// internal/llm/providers/huggingface/huggingface.go
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Corphon/ReviewForgeMCP/internal/llm"
)

func init() {
	llm.Register("huggingface", func() llm.Provider {
		return &Provider{}
	})
}

// Provider Hugging Face Inference API 客户端（可指向公共推理端点）
type Provider struct {
	endpoint string
	token    string
	client   *http.Client
}

func (p *Provider) Initialize(config map[string]string) error {
	endpoint, exists := config["endpoint"]
	if !exists || endpoint == "" {
		return errors.New("huggingface 推理端点未提供")
	}

	p.endpoint = endpoint
	p.token = config["token"]

	timeout := 8
	if v, exists := config["timeout"]; exists && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeout = parsed
		}
	}
	p.client = &http.Client{Timeout: time.Duration(timeout) * time.Second}

	return nil
}

func (p *Provider) GetName() string {
	return "Hugging Face Inference"
}

func (p *Provider) GetSupportedModels() []string {
	// 模型由端点本身决定
	return []string{}
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	requestBody := map[string]interface{}{
		"inputs": req.Prompt,
		"parameters": map[string]interface{}{
			"max_new_tokens": req.MaxTokens,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface api错误(%d): %s", httpResp.StatusCode, string(body))
	}

	// 文本生成任务返回 [{"generated_text": "..."}]
	var generated []struct {
		GeneratedText string `json:"generated_text"`
	}
	text := string(body)
	if err := json.Unmarshal(body, &generated); err == nil && len(generated) > 0 && generated[0].GeneratedText != "" {
		text = generated[0].GeneratedText
	}

	return &llm.CompletionResponse{
		Text:         text,
		ProviderName: p.GetName(),
	}, nil
}
