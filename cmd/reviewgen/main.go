// cmd/reviewgen/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Corphon/ReviewForgeMCP/internal/config"
	apperrors "github.com/Corphon/ReviewForgeMCP/internal/errors"
	"github.com/Corphon/ReviewForgeMCP/internal/models"
	"github.com/Corphon/ReviewForgeMCP/internal/services"

	// 注册全部生成后端
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/deepseek"
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/huggingface"
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/local"
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/openai"
)

// sourceList 支持重复传入的 --sources 参数
type sourceList []string

func (s *sourceList) String() string {
	return strings.Join(*s, ",")
}

func (s *sourceList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var sources sourceList

	topic := flag.String("topic", "", "综述主题（必填）")
	audience := flag.String("audience", "general", "目标读者: researcher|student|industry|general")
	length := flag.Int("length", 1500, "目标词数（仅作提示）")
	mode := flag.String("mode", "timeline", "结构模式: timeline|school|application|custom")
	keywords := flag.String("keywords", "", "逗号分隔的关键词")
	outline := flag.String("outline", "", "自定义大纲（分号分隔，mode=custom 时必填）")
	lang := flag.String("lang", "zh", "输出语言: zh|en")
	output := flag.String("output", "", "Markdown 输出路径（缺省打印到stdout）")
	llmProvider := flag.String("llm", "local", "生成后端: local|huggingface|openai|deepseek")
	llmEndpoint := flag.String("llm-endpoint", "", "生成后端HTTP端点（huggingface/deepseek 可覆盖）")
	llmModel := flag.String("llm-model", "", "模型名称（按提供者而定）")
	llmToken := flag.String("llm-token", "", "生成后端 token/api key")
	llmTimeout := flag.Int("llm-timeout", 8, "生成后端请求超时（秒）")
	configPath := flag.String("config", "", "YAML 配置文件路径（提供 LLM 缺省值）")
	flag.Var(&sources, "sources", "源文本文件路径或 glob 模式（可重复）")
	flag.Parse()

	// 位置参数也作为源文件模式
	sources = append(sources, flag.Args()...)

	req := models.ReviewRequest{
		Topic:       *topic,
		Audience:    *audience,
		Length:      *length,
		Mode:        *mode,
		Keywords:    splitKeywords(*keywords),
		Outline:     *outline,
		Sources:     sources,
		Lang:        *lang,
		Output:      *output,
		LLMProvider: *llmProvider,
		LLMEndpoint: *llmEndpoint,
		LLMModel:    *llmModel,
		LLMToken:    *llmToken,
		LLMTimeout:  *llmTimeout,
	}

	// 可选配置文件补全未指定的LLM参数
	if *configPath != "" {
		cfg := &config.Config{}
		if err := config.MergeFile(cfg, *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
			os.Exit(1)
		}
		cfg.ApplyLLMDefaults(&req)
	}

	reviewService := services.NewReviewService()
	result, err := reviewService.GenerateFromRequest(context.Background(), &req, nil)
	if err != nil {
		if apperrors.IsValidationError(err) {
			fmt.Fprintf(os.Stderr, "配置错误: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "生成失败: %v\n", err)
		}
		os.Exit(1)
	}

	if req.Output != "" {
		if err := writeOutput(req.Output, result.Markdown); err != nil {
			fmt.Fprintf(os.Stderr, "写入输出文件失败: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println(result.Markdown)
}

// writeOutput 将文档写入指定路径，必要时创建父目录
func writeOutput(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// splitKeywords 解析逗号分隔的关键词
func splitKeywords(raw string) []string {
	var result []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
