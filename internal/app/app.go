// internal/app/app.go
package app

import (
	"fmt"
	"path/filepath"

	"github.com/Corphon/ReviewForgeMCP/internal/config"
	"github.com/Corphon/ReviewForgeMCP/internal/di"
	"github.com/Corphon/ReviewForgeMCP/internal/services"
	"github.com/Corphon/ReviewForgeMCP/internal/storage"
	"github.com/Corphon/ReviewForgeMCP/internal/utils"

	// 注册全部生成后端
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/deepseek"
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/huggingface"
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/local"
	_ "github.com/Corphon/ReviewForgeMCP/internal/llm/providers/openai"
)

// InitServices 按依赖顺序初始化所有服务并注册到容器
func InitServices(cfg *config.Config) error {
	container := di.GetContainer()

	// 日志系统
	logFile := filepath.Join(cfg.LogDir, "server.log")
	if err := utils.InitLogger(logFile); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	// 导出存储
	store, err := storage.NewExportStore(filepath.Join(cfg.DataDir, "exports"))
	if err != nil {
		return fmt.Errorf("初始化导出存储失败: %w", err)
	}

	container.Register("config", cfg)
	container.Register("store", store)
	container.Register("review", services.NewReviewService())

	return nil
}

// HealthCheck 检查关键服务是否已注册
func HealthCheck() error {
	container := di.GetContainer()

	criticalServices := []string{"config", "store", "review"}
	for _, serviceName := range criticalServices {
		if service := container.Get(serviceName); service == nil {
			return fmt.Errorf("关键服务未注册: %s", serviceName)
		}
	}
	return nil
}
