// internal/llm/interface.go
package llm

import (
	"context"
	"errors"
	"strconv"

	apperrors "github.com/Corphon/ReviewForgeMCP/internal/errors"
	"github.com/Corphon/ReviewForgeMCP/internal/models"
)

// 错误定义
var ErrUnknownProvider = errors.New("未知的生成后端")

// 请求参数标准化
type CompletionRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	Model       string  `json:"model,omitempty"`
}

// 响应结构标准化
type CompletionResponse struct {
	Text         string `json:"text"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Provider 定义所有生成后端必须实现的接口
type Provider interface {
	// 初始化提供者，传入配置
	Initialize(config map[string]string) error

	// 获取提供者名称
	GetName() string

	// 获取支持的模型列表
	GetSupportedModels() []string

	// 文本生成：唯一会阻塞在外部 I/O 上的操作
	CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// 注册表和工厂函数类型
type ProviderFactory func() Provider

var providers = make(map[string]ProviderFactory)

// Register 注册提供者工厂
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// GetProvider 创建指定名称的提供者实例
func GetProvider(name string, config map[string]string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	err := provider.Initialize(config)
	return provider, err
}

// ListProviders 返回所有已注册的提供者名称
func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}

// BuildOptions 按请求构建提供者时的参数
type BuildOptions struct {
	Endpoint string
	Model    string
	Token    string
	Timeout  int // 秒
}

// Build 根据提供者标签构建生成后端
// 凭证/端点缺失属于配置错误，在任何生成开始前返回
func Build(provider string, opts BuildOptions) (Provider, error) {
	config := map[string]string{}
	if opts.Timeout > 0 {
		config["timeout"] = strconv.Itoa(opts.Timeout)
	}

	switch provider {
	case models.ProviderHuggingFace:
		if opts.Endpoint == "" {
			return nil, apperrors.NewValidationError("huggingface 后端必须提供 endpoint", nil)
		}
		config["endpoint"] = opts.Endpoint
		config["token"] = opts.Token
	case models.ProviderOpenAI:
		if opts.Token == "" {
			return nil, apperrors.NewValidationError("openai 后端必须提供 api key", nil)
		}
		config["api_key"] = opts.Token
		config["default_model"] = opts.Model
	case models.ProviderDeepSeek:
		if opts.Token == "" {
			return nil, apperrors.NewValidationError("deepseek 后端必须提供 api key", nil)
		}
		config["api_key"] = opts.Token
		config["default_model"] = opts.Model
		config["base_url"] = opts.Endpoint
	case models.ProviderLocal:
		// 本地规则后端无需配置
	default:
		return nil, apperrors.NewValidationError("未知的生成后端: "+provider, ErrUnknownProvider)
	}

	instance, err := GetProvider(provider, config)
	if err != nil {
		if apperrors.IsValidationError(err) {
			return nil, err
		}
		return nil, apperrors.NewValidationError("初始化生成后端失败", err)
	}
	return instance, nil
}

