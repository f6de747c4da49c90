package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"task-tracker/internal/admin"
	"task-tracker/internal/api"
	"task-tracker/internal/cache"
	"task-tracker/internal/config"
	"task-tracker/internal/logger"
	"task-tracker/internal/notify"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logr.Sync()

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseURL, logr)
	if err != nil {
		logr.Fatalw("db", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logr.Fatalw("db handle", "error", err)
	}
	defer sqlDB.Close()

	var statsCache service.StatsCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logr.Fatalw("redis", "error", err)
		}
		defer client.Close()
		statsCache = cache.NewStatsCache(client, cfg.StatsCacheTTL, logr)
		logr.Infow("stats cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.StatsCacheTTL)
	}

	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	categorySvc := service.NewCategoryService(categoryRepo, taskRepo)
	taskSvc := service.NewTaskService(taskRepo, categoryRepo, statsCache)
	digestSvc := service.NewDigestService(taskSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(taskSvc, categorySvc, api.Options{
		Logger:    logr,
		StaticDir: cfg.StaticDir,
		Ping:      sqlDB.PingContext,
	})

	servers := []*http.Server{{Addr: cfg.HTTPAddr, Handler: router}}
	if cfg.AdminAddr != "" {
		servers = append(servers, &http.Server{
			Addr:    cfg.AdminAddr,
			Handler: admin.NewRouter(prometheus.DefaultGatherer, sqlDB.PingContext),
		})
	}
	for _, srv := range servers {
		go func(srv *http.Server) {
			logr.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logr.Fatalw("server stopped with error", "addr", srv.Addr, "error", err)
			}
		}(srv)
	}

	if cfg.DigestEnabled() {
		scheduler, err := startDigest(cfg, digestSvc, logr)
		if err != nil {
			logr.Fatalw("schedule digest", "error", err)
		}
		defer scheduler.Stop()
	}

	logr.Info("Task tracker started.")
	<-ctx.Done()
	logr.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Errorw("shutdown", "addr", srv.Addr, "error", err)
		}
	}
	logr.Info("Shutdown complete.")
}

func startDigest(cfg config.Config, digestSvc *service.DigestService, logr *zap.SugaredLogger) (*service.SchedulerService, error) {
	var notifier service.Notifier = notify.NewLog(logr)
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, logr)
		if err != nil {
			return nil, err
		}
		notifier = tg
	}

	job := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := digestSvc.Send(jobCtx, notifier, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			logr.Errorw("digest", "error", err)
		}
	}

	scheduler := service.NewSchedulerService(time.UTC)
	var err error
	if cfg.DigestTime != "" {
		_, err = scheduler.ScheduleDaily(cfg.DigestTime, job)
	} else {
		_, err = scheduler.ScheduleInterval(cfg.DigestInterval, job)
	}
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
