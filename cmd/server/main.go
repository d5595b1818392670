// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"uigen-go/internal/config"
	"uigen-go/internal/handler"
	"uigen-go/internal/middleware"
	"uigen-go/internal/prompt"
	"uigen-go/internal/registry"
	"uigen-go/internal/repository"
	"uigen-go/internal/service"
	"uigen-go/pkg/database"
	"uigen-go/pkg/kafka"
	"uigen-go/pkg/llm"
	"uigen-go/pkg/log"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 没有补全服务的 key 无法工作，这是唯一的致命配置错误
	if err := cfg.Validate(); err != nil {
		log.Fatal("配置校验失败", err)
	}

	// 3. 初始化数据库、Redis 和 Kafka，全部允许缺省
	database.InitDB(cfg.Database.URL)
	defer database.Close()
	database.InitRedis(cfg.Database.Redis)
	publisher := kafka.NewProducer(cfg.Kafka)
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Warnf("关闭 Kafka 生产者失败: %v", err)
			}
		}()
	}

	// 4. 组件目录与 system prompt，启动时构建一次
	reg := registry.Default()
	systemPrompt := prompt.Build(reg)
	sources := registry.LoadSources(cfg.Workspace.ComponentDir)
	log.Infof("组件目录加载完成: %d 个组件, %d 个源码文件", reg.Len(), len(sources))

	// 5. 初始化 Repository 和 Service (依赖注入)
	versionRepo := repository.NewVersionRepository(database.DB)
	versionCache := repository.NewVersionCache(database.RDB, cfg.Database.Redis.TTL)
	llmClient := llm.NewClient(cfg.LLM, llm.WithReferer(cfg.Server.BaseURL))
	generationService := service.NewGenerationService(llmClient, systemPrompt, llm.ParamsFromConfig(cfg.LLM.Generation))
	versionService := service.NewVersionService(versionRepo, versionCache, publisher, cfg.Versions)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	handler.RegisterRoutes(r, handler.Handlers{
		Generation: handler.NewGenerationHandler(generationService),
		Version:    handler.NewVersionHandler(versionService, sources),
		Registry:   handler.NewRegistryHandler(reg),
		Workspace:  handler.NewWorkspaceHandler(generationService, versionService, sources),
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
