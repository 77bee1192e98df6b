package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/varrock/clanhall-api/api/swagger"
	"github.com/varrock/clanhall-api/internal/gateway"
	"github.com/varrock/clanhall-api/internal/handler"
	"github.com/varrock/clanhall-api/internal/middleware"
	"github.com/varrock/clanhall-api/internal/notify"
	"github.com/varrock/clanhall-api/internal/repository"
	"github.com/varrock/clanhall-api/internal/scheduler"
	"github.com/varrock/clanhall-api/internal/service"
	"github.com/varrock/clanhall-api/internal/store"
	"github.com/varrock/clanhall-api/pkg/cache"
	"github.com/varrock/clanhall-api/pkg/config"
	"github.com/varrock/clanhall-api/pkg/logger"
	corsmiddleware "github.com/varrock/clanhall-api/pkg/middleware/cors"
	reqidmiddleware "github.com/varrock/clanhall-api/pkg/middleware/requestid"

	"go.uber.org/zap"
)

// @title Clanhall API
// @version 0.1.0
// @description Backend for the OSRS clan dashboard
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	// Redis is optional: without it the API serves uncached responses.
	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr)

	events := store.NewEventStore()
	drops := store.NewDropStore()
	feed := store.NewFeedStore()

	var notifier notify.Notifier
	if cfg.Notifications.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notifications.WebhookURL, logr)
	} else {
		notifier = notify.NewLogNotifier(logr)
	}
	dispatcher := notify.NewDispatcher(notifier, notify.DispatcherConfig{
		Workers:    cfg.Reminders.WorkerConcurrency,
		BufferSize: cfg.Reminders.QueueBuffer,
	}, logr)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	reminders := scheduler.New(dispatcher, scheduler.Config{
		Title:   cfg.Notifications.Title,
		IconURL: cfg.Notifications.IconURL,
		OnFired: metrics.RecordReminderFired,
	}, logr)
	defer reminders.Stop()

	womClient := gateway.NewWOMClient(cfg.WOM.BaseURL, logr)
	geminiClient, err := gateway.NewGeminiClient(ctx, cfg.Gemini, logr)
	if err != nil {
		logr.Fatal("failed to init gemini client", zap.Error(err))
	}

	eventSvc := service.NewEventService(events, feed, reminders, nil, cfg.Clan.CurrentUser, logr)
	dropSvc := service.NewDropService(drops, feed, geminiClient, nil, logr)
	hiscoresSvc := service.NewHiscoresService(geminiClient, cacheSvc, metrics, cfg.Gemini.CacheTTL, logr)
	gearSvc := service.NewGearService(geminiClient, cacheSvc, metrics, cfg.Gemini.CacheTTL, logr)
	groupSvc := service.NewGroupService(womClient, cacheSvc, metrics, cfg.WOM.GroupID, cfg.WOM.CacheTTL, logr)
	dashboardSvc := service.NewDashboardService(events, drops, feed, groupSvc, cacheSvc, cfg.Clan, cfg.Dashboard, logr)

	if cfg.Seed.Enabled {
		service.SeedDemoData(events, drops, feed, logr)
		if armed := reminders.ArmAll(ctx, events.List()); armed > 0 {
			logr.Info("armed reminders for seeded events", zap.Int("count", armed))
		}
	}

	var refresher *service.StatsRefresher
	if cfg.StatsRefresh.Enabled {
		refresher = service.NewStatsRefresher(groupSvc, cfg.StatsRefresh.Schedule, logr)
		if err := refresher.Start(); err != nil {
			logr.Fatal("failed to start stats refresher", zap.Error(err))
		}
		defer refresher.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	eventHandler := handler.NewEventHandler(eventSvc)
	dropHandler := handler.NewDropHandler(dropSvc)
	feedHandler := handler.NewFeedHandler(feed)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	hiscoresHandler := handler.NewHiscoresHandler(hiscoresSvc)
	gearHandler := handler.NewGearHandler(gearSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/dashboard", dashboardHandler.Summary)

		api.GET("/events", eventHandler.List)
		api.POST("/events", eventHandler.Create)
		api.GET("/events/calendar.ics", eventHandler.Calendar)
		api.POST("/events/:id/signup", eventHandler.ToggleSignup)
		api.PUT("/events/:id/reminder", eventHandler.SetReminder)

		api.GET("/drops", dropHandler.List)
		api.POST("/drops", dropHandler.Log)

		api.GET("/feed", feedHandler.List)

		api.GET("/hiscores/:rsn", hiscoresHandler.Lookup)
		api.GET("/gear/:boss", gearHandler.Lookup)

		api.GET("/group", groupHandler.Group)
		api.GET("/group/members.csv", groupHandler.MembersCSV)
		api.GET("/group/competitions", groupHandler.Competitions)
		api.GET("/group/competitions/:id", groupHandler.Competition)
		api.GET("/group/competitions/:id/standings.pdf", groupHandler.CompetitionPDF)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown", zap.Error(err))
	}
}
