// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Corphon/ReviewForgeMCP/internal/models"
)

// TestMergeFile 测试 YAML 配置文件的非空字段合并
func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewforge.yaml")
	content := `port: "9090"
llm:
  provider: deepseek
  token: sk-test
  timeout: 20
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg := &Config{
		Port:    "8080",
		DataDir: "data",
		LLM:     LLMDefaults{Provider: "local", Timeout: 8},
	}
	if err := MergeFile(cfg, path); err != nil {
		t.Fatalf("合并配置失败: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("port 应被覆盖: %s", cfg.Port)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("文件未提供的字段不应被清空: %s", cfg.DataDir)
	}
	if cfg.LLM.Provider != "deepseek" || cfg.LLM.Token != "sk-test" || cfg.LLM.Timeout != 20 {
		t.Fatalf("LLM 缺省值未合并: %+v", cfg.LLM)
	}
}

// TestMergeFileErrors 测试缺失文件与非法 YAML 的错误返回
func TestMergeFileErrors(t *testing.T) {
	cfg := &Config{}
	if err := MergeFile(cfg, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("缺失文件应当报错")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte(":\n  - ]["), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	if err := MergeFile(cfg, bad); err == nil {
		t.Fatalf("非法 YAML 应当报错")
	}
}

// TestApplyLLMDefaults 测试请求中未指定的 LLM 参数被补全
func TestApplyLLMDefaults(t *testing.T) {
	cfg := &Config{LLM: LLMDefaults{
		Provider: "openai",
		Endpoint: "https://example.invalid",
		Model:    "gpt-4o-mini",
		Token:    "sk-default",
		Timeout:  15,
	}}

	req := &models.ReviewRequest{Topic: "T"}
	cfg.ApplyLLMDefaults(req)
	if req.LLMProvider != "openai" || req.LLMModel != "gpt-4o-mini" ||
		req.LLMToken != "sk-default" || req.LLMTimeout != 15 {
		t.Fatalf("缺省值未补全: %+v", req)
	}

	// 请求已指定的字段不被覆盖
	req = &models.ReviewRequest{Topic: "T", LLMProvider: "local", LLMTimeout: 3}
	cfg.ApplyLLMDefaults(req)
	if req.LLMProvider != "local" || req.LLMTimeout != 3 {
		t.Fatalf("已有值被覆盖: %+v", req)
	}
}
