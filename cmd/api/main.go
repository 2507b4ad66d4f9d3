package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/cache"
	"github.com/cleberrangel/gantt-timeline-api/internal/config"
	"github.com/cleberrangel/gantt-timeline-api/internal/handler"
	"github.com/cleberrangel/gantt-timeline-api/internal/logger"
	"github.com/cleberrangel/gantt-timeline-api/internal/metrics"
	"github.com/cleberrangel/gantt-timeline-api/internal/middleware"
	"github.com/cleberrangel/gantt-timeline-api/internal/service"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Bool("log_json", cfg.LogJSON).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Gantt Timeline API iniciando")

	// Inicializa dependências
	metrics.Init()
	appMetrics := metrics.Get()

	var timelineCache *cache.Cache
	if cfg.CacheTTL > 0 {
		timelineCache = cache.NewCache(cfg.CacheTTL, cache.WithMaxItems(cfg.CacheMaxItems))
		defer timelineCache.Stop()
	}

	timelineService := service.NewTimelineService(timelineCache, appMetrics)
	importService := service.NewImportService(cfg.MaxUploadBytes)
	excelGenerator := service.NewExcelGenerator(cfg.TrackColumns)

	rateLimiter := middleware.NewClientRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	timelineHandler := handler.NewTimelineHandler(timelineService, importService, excelGenerator, appMetrics)
	healthHandler := handler.NewHealthHandler(timelineCache, appMetrics, handler.HealthConfig{
		Version:   Version,
		MaxHeapMB: cfg.MaxHeapMB,
	}).WithRateLimiter(rateLimiter)

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	// Inicializa router
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(middleware.RequestID()) // Request ID + logging estruturado
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware(appMetrics))

	// Health check e métricas (públicos)
	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/health/live", healthHandler.LivenessCheck)
	r.GET("/metrics", healthHandler.GetMetrics)
	r.GET("/metrics/endpoints", healthHandler.GetEndpointMetrics)

	// Debug memory endpoint (público)
	r.GET("/debug/memory", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, gin.H{
			"alloc_mb":      m.Alloc / 1024 / 1024,
			"sys_mb":        m.Sys / 1024 / 1024,
			"heap_alloc_mb": m.HeapAlloc / 1024 / 1024,
			"heap_inuse_mb": m.HeapInuse / 1024 / 1024,
			"heap_objects":  m.HeapObjects,
			"goroutines":    runtime.NumGoroutine(),
			"gc_runs":       m.NumGC,
		})
	})

	// Grupo de rotas protegidas
	api := r.Group("/api/v1")
	api.Use(middleware.BearerAuth(middleware.AuthConfig{
		TokenAPI: cfg.TokenAPI,
	}))
	api.Use(middleware.RateLimitWith(rateLimiter, appMetrics))
	api.Use(middleware.AuditMiddleware("/api/v1/timeline"))
	{
		api.POST("/timeline", timelineHandler.BuildTimeline)
		api.POST("/timeline/export", timelineHandler.ExportTimeline)
		api.POST("/timeline/import", timelineHandler.ImportTimeline)
		api.DELETE("/timeline/cache", timelineHandler.FlushCache)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Servidor iniciando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
			os.Exit(1)
		}
	}()

	// Aguarda sinal de encerramento
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Encerrando servidor")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Erro ao encerrar servidor")
	}
}
