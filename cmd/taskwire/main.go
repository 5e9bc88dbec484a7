package main

import (
	"context"
	"log"
	"os"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskwire/client/internal/config"
	"github.com/taskwire/client/internal/localstore"
	"github.com/taskwire/client/internal/services"
	"github.com/taskwire/client/internal/services/lifecycle"
	"github.com/taskwire/client/pkg/bus"
	"github.com/taskwire/client/pkg/logger"
	"github.com/taskwire/client/repository"
	"github.com/taskwire/client/repository/rest"
	"github.com/taskwire/client/usecase/chat"
	"github.com/taskwire/client/usecase/session"
	"github.com/taskwire/client/usecase/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Shutdown.Timeout, zapLogger)
	manager.Listen(cancel)

	store, err := localstore.Open(cfg.Store.Path)
	if err != nil {
		zapLogger.Fatal("failed to open local store", zap.Error(err))
	}
	manager.Register("localstore", func(ctx context.Context) error {
		return store.Close()
	})

	events := bus.New(zapLogger)

	restClient := rest.NewClient(cfg.API.BaseURL, &fasthttp.Client{Name: cfg.AppName}, cfg.API.RequestTimeout, zapLogger)
	authGateway := rest.NewAuthGateway(restClient)
	taskGateway := rest.NewTaskGateway(restClient)
	activityGateway := rest.NewActivityGateway(restClient)

	tokenStore := localstore.NewTokenStore(store)

	sessionMgr := session.New(tokenStore, authGateway, events, zapLogger)
	manager.Register("session", func(ctx context.Context) error {
		sessionMgr.Close()
		return nil
	})
	sessionMgr.Initialize(appCtx)

	taskMgr := tasks.New(taskGateway, sessionMgr, events, zapLogger)
	manager.Register("tasks", func(ctx context.Context) error {
		taskMgr.Close()
		return nil
	})

	stats := services.NewStatsWidget(taskGateway, sessionMgr, events, zapLogger)
	manager.Register("stats", func(ctx context.Context) error {
		stats.Close()
		return nil
	})

	feed := services.NewActivityFeed(store, activityGateway, sessionMgr, events, zapLogger)
	manager.Register("activity_feed", func(ctx context.Context) error {
		feed.Close()
		return nil
	})

	watchdog := services.NewTokenWatchdog(tokenStore, events, cfg.Watchdog.Interval, zapLogger)
	watchdog.Start()
	manager.Register("token_watchdog", func(ctx context.Context) error {
		watchdog.Stop(ctx)
		return nil
	})

	if email, password := os.Getenv("TASKWIRE_EMAIL"), os.Getenv("TASKWIRE_PASSWORD"); !sessionMgr.IsAuthenticated() && email != "" {
		if sessionMgr.Login(appCtx, email, password) {
			zapLogger.Info("logged in", zap.String("email", email))
		} else {
			zapLogger.Warn("login failed", zap.String("email", email))
		}
	}

	if sessionMgr.IsAuthenticated() {
		user := sessionMgr.User()
		zapLogger.Info("session ready", zap.String("email", user.Email))

		feed.Seed(appCtx)
		taskMgr.Fetch(appCtx, repository.TaskFilter{})
		stats.Refresh(appCtx)

		counts := stats.Stats()
		zapLogger.Info("task summary",
			zap.Int("total", counts.Total),
			zap.Int("completed", counts.Completed),
			zap.Int("pending", counts.Pending),
			zap.Int("recent_activities", len(feed.Recent())))

		if msg := os.Getenv("TASKWIRE_CHAT_MESSAGE"); msg != "" {
			assistant := chat.New(rest.NewChatGateway(restClient), store, sessionMgr, events, zapLogger)
			if reply, chatErr := assistant.Send(appCtx, msg); chatErr == nil {
				zapLogger.Info("assistant reply", zap.String("reply", reply))
			} else {
				zapLogger.Warn("chat failed", zap.String("error", chatErr.Message))
			}
		}
	} else {
		zapLogger.Info("no session; set TASKWIRE_EMAIL and TASKWIRE_PASSWORD to log in")
	}

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("shutdown error", zap.Error(err))
	}
}
