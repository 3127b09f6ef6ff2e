// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Corphon/ReviewForgeMCP/internal/models"
)

// Config 存储服务端应用配置
type Config struct {
	Port         string `yaml:"port"`
	DataDir      string `yaml:"data_dir"`
	StaticDir    string `yaml:"static_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	LogDir       string `yaml:"log_dir"`
	DebugMode    bool   `yaml:"debug_mode"`

	// LLM 缺省配置：请求未指定时使用
	LLM LLMDefaults `yaml:"llm"`
}

// LLMDefaults 生成后端的缺省参数
type LLMDefaults struct {
	Provider string `yaml:"provider"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	Token    string `yaml:"token"`
	Timeout  int    `yaml:"timeout"` // 秒
}

// Load 从环境变量加载配置，并可选地叠加 YAML 配置文件
func Load() (*Config, error) {
	// 尝试加载.env文件（可选）
	godotenv.Load()

	config := &Config{
		Port:         getEnv("PORT", "8080"),
		DataDir:      getEnvPath("DATA_DIR", "data"),
		StaticDir:    getEnvPath("STATIC_DIR", "static"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),
		LogDir:       getEnvPath("LOG_DIR", "logs"),
		DebugMode:    getEnvBool("DEBUG_MODE", true),
		LLM: LLMDefaults{
			Provider: getEnv("LLM_PROVIDER", models.ProviderLocal),
			Endpoint: getEnv("LLM_ENDPOINT", ""),
			Model:    getEnv("LLM_MODEL", ""),
			Token:    getEnv("LLM_TOKEN", ""),
			Timeout:  getEnvInt("LLM_TIMEOUT", 8),
		},
	}

	// YAML 配置文件优先于环境变量
	configFile := getEnv("REVIEWFORGE_CONFIG", "reviewforge.yaml")
	if _, err := os.Stat(configFile); err == nil {
		if err := MergeFile(config, configFile); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// MergeFile 将 YAML 配置文件中的非空字段合并进 config
func MergeFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取配置文件失败 %s: %w", path, err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("解析配置文件失败 %s: %w", path, err)
	}

	if fileConfig.Port != "" {
		config.Port = fileConfig.Port
	}
	if fileConfig.DataDir != "" {
		config.DataDir = fileConfig.DataDir
	}
	if fileConfig.StaticDir != "" {
		config.StaticDir = fileConfig.StaticDir
	}
	if fileConfig.TemplatesDir != "" {
		config.TemplatesDir = fileConfig.TemplatesDir
	}
	if fileConfig.LogDir != "" {
		config.LogDir = fileConfig.LogDir
	}
	if fileConfig.LLM.Provider != "" {
		config.LLM.Provider = fileConfig.LLM.Provider
	}
	if fileConfig.LLM.Endpoint != "" {
		config.LLM.Endpoint = fileConfig.LLM.Endpoint
	}
	if fileConfig.LLM.Model != "" {
		config.LLM.Model = fileConfig.LLM.Model
	}
	if fileConfig.LLM.Token != "" {
		config.LLM.Token = fileConfig.LLM.Token
	}
	if fileConfig.LLM.Timeout > 0 {
		config.LLM.Timeout = fileConfig.LLM.Timeout
	}

	return nil
}

// ApplyLLMDefaults 用配置缺省值补全请求中未指定的LLM参数
func (c *Config) ApplyLLMDefaults(req *models.ReviewRequest) {
	if req.LLMProvider == "" {
		req.LLMProvider = c.LLM.Provider
	}
	if req.LLMEndpoint == "" {
		req.LLMEndpoint = c.LLM.Endpoint
	}
	if req.LLMModel == "" {
		req.LLMModel = c.LLM.Model
	}
	if req.LLMToken == "" {
		req.LLMToken = c.LLM.Token
	}
	if req.LLMTimeout == 0 {
		req.LLMTimeout = c.LLM.Timeout
	}
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath 获取环境变量表示的路径，如果不存在则返回默认值
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	// 确保目录存在
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("警告: 创建目录失败 %s: %v\n", path, err)
		}
	}

	return path
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt 获取整数类型环境变量
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
