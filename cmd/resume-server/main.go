package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"resume-extract-go/internal/api/handler"
	"resume-extract-go/internal/api/router"
	"resume-extract-go/internal/cache"
	"resume-extract-go/internal/config"
	"resume-extract-go/internal/constants"
	appCoreLogger "resume-extract-go/internal/logger"
	"resume-extract-go/internal/pipeline"
	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/tracing"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("加载配置失败")
	}
	initLogger(cfg)
	glog.Infof("%s %s 配置加载成功", constants.ServiceName, constants.Version)

	ctx := context.Background()

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = constants.ServiceName
	}
	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}

	resultCache, err := cache.New(cfg)
	if err != nil {
		glog.Fatalf("初始化结果缓存失败: %v", err)
	}
	glog.Infof("结果缓存初始化成功 (type=%s)", cfg.Cache.Type)

	opts := []handler.Option{
		handler.WithCache(resultCache, config.GetDuration(cfg.Cache.TTL, constants.DefaultCacheTTL)),
		handler.WithMaxBytes(cfg.Loader.MaxFileSizeBytes()),
		handler.WithLogger(appCoreLogger.Logger),
	}
	if cfg.MinIO.Enabled {
		store, err := storage.NewMinIO(ctx, &cfg.MinIO, appCoreLogger.Logger)
		if err != nil {
			glog.Fatalf("初始化MinIO失败: %v", err)
		}
		opts = append(opts, handler.WithRunSink(store))
		glog.Info("MinIO运行记录存储初始化成功")
	}

	p := pipeline.FromConfig(cfg, appCoreLogger.Logger)
	extractHandler := handler.NewExtractHandler(p, opts...)

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		tracer,
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithReadTimeout(config.GetDuration(cfg.Server.RequestTimeout, 30*time.Second)),
		// multipart 头部需要额外空间
		server.WithMaxRequestBodySize(int(cfg.Loader.MaxFileSizeBytes())+1<<20),
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg), router.AccessLog())

	router.RegisterRoutes(h, extractHandler, cfg.Auth.Keys)
	if len(cfg.Auth.Keys) == 0 {
		glog.Warn("未配置 API Key，抽取接口不做鉴权")
	}

	go func() {
		glog.Infof("服务启动于 %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Errorf("服务运行出错: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if err := resultCache.Close(); err != nil {
		glog.Warnf("关闭结果缓存失败: %v", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		glog.Warnf("关闭链路追踪失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化应用日志，并让 Hertz 使用同一个 zerolog 实例
func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	if cfg.Logger.Level == "debug" {
		glog.SetLevel(glog.LevelDebug)
	} else {
		glog.SetLevel(glog.LevelInfo)
	}
}
