package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/codec"
	"github.com/johnqing-424/WeChat-XML/internal/config"
	"github.com/johnqing-424/WeChat-XML/internal/observability"
	"github.com/johnqing-424/WeChat-XML/internal/ragflow"
	"github.com/johnqing-424/WeChat-XML/internal/store"
	"github.com/johnqing-424/WeChat-XML/internal/wechat"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径，为空时自动查找 config.yml")
	flag.Parse()

	// 获取配置
	cfg := config.GetConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.Codec.Location()
	if err != nil {
		logger.Fatal("加载时区失败", zap.String("timezone", cfg.Codec.Timezone), zap.Error(err))
	}
	xmlCodec := codec.New(codec.WithLocation(loc), codec.WithLogger(logger.Named("codec")))

	cache := store.New(cfg.Cache, logger)
	defer cache.Close()

	// 未启用 RAGFlow 时原样回显文本消息
	var rag wechat.Asker
	if cfg.RagFlow.Enabled {
		rag = ragflow.NewClient(cfg.RagFlow, logger.Named("ragflow"))
		logger.Info("已启用 RAGFlow", zap.String("base_url", cfg.RagFlow.BaseURL))
	}
	responder := wechat.NewResponder(cfg.WeChat.Welcome, rag, logger)
	handler := wechat.NewHandler(cfg, xmlCodec, cache, responder, logger.Named("wechat"))

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), observability.RequestID(), observability.RequestLogger(logger))

	if cfg.Metrics.Enabled {
		observability.RegisterMetrics()
		r.Use(observability.RequestMetrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 微信 Token 验证（GET 请求）和用户消息（POST 请求）
	handler.Register(r, cfg.Server.Path)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr), zap.String("path", cfg.Server.Path))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP 服务器关闭失败", zap.Error(err))
	}
	logger.Info("服务器已安全关闭")
}
