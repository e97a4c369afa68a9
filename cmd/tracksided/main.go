// Package main provides the entry point for the venue daemon.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/broadcast"
	"github.com/yourusername/trackside/internal/config"
	"github.com/yourusername/trackside/internal/database"
	"github.com/yourusername/trackside/internal/engine"
	"github.com/yourusername/trackside/internal/funds"
	"github.com/yourusername/trackside/internal/logger"
	"github.com/yourusername/trackside/internal/models"
	"github.com/yourusername/trackside/internal/notify"
	"github.com/yourusername/trackside/internal/repository"
	"github.com/yourusername/trackside/internal/schedule"
	"github.com/yourusername/trackside/internal/scheduler"
	"github.com/yourusername/trackside/internal/server"
)

func main() {
	configPath := os.Getenv("TRACKSIDE_CONFIG")
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Trackside daemon starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional snapshot store
	var (
		db        *database.DB
		snapshots *repository.SnapshotRepository
	)
	if cfg.Database.Enabled {
		db, err = database.NewDB(ctx, cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		snapshots = repository.NewSnapshotRepository(db)
		if err := snapshots.EnsureSchema(ctx); err != nil {
			appLog.WithError(err).Fatal("Failed to prepare snapshot schema")
		}
		appLog.Info("Snapshot store ready")
	}

	// Reputation sink: webhook when configured, otherwise a local log sink
	var reputation engine.ReputationSink
	if cfg.Notify.WebhookURL != "" {
		reputation = notify.NewWebhookSink(&cfg.Notify, appLog)
		appLog.WithField("webhook_url", cfg.Notify.WebhookURL).Info("Webhook notifications enabled")
	} else {
		reputation = logSink{logger: appLog}
	}

	clock := engine.NewWallClock(cfg.Clock.MinutesPerDay)
	purse := funds.NewPurse(500, 50)
	eng := engine.New(cfg, clock, purse, engine.NopMarketEvents{}, reputation, appLog)

	if snapshots != nil {
		snap, err := snapshots.Load(ctx)
		switch {
		case err == nil:
			eng.Restore(snap)
			appLog.WithField("day_index", snap.DayIndex).Info("Restored engine snapshot")
		case errors.Is(err, models.ErrNoSnapshot):
			appLog.Info("No snapshot found, starting fresh")
		default:
			appLog.WithError(err).Fatal("Failed to load snapshot")
		}
	}

	hub := broadcast.NewHub(appLog)
	go hub.Run(ctx)
	eng.SetResultListener(hub.Broadcast)

	var engineMu sync.Mutex

	history := schedule.NewCardCache(schedule.NewGenerator(&cfg.Racing, appLog), 0)
	srvCfg := server.Config{
		Port:    cfg.Server.Port,
		Logger:  appLog,
		View:    eng,
		EngineL: &engineMu,
		History: history,
		Hub:     hub,
	}
	if db != nil {
		srvCfg.DB = db
	}
	srv := server.NewServer(srvCfg)
	if err := srv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start status server")
	}

	jobs := scheduler.NewScheduler(appLog)
	if err := jobs.AddJob("engine-tick", cfg.Scheduler.TickSpec, func() {
		engineMu.Lock()
		eng.Update(1)
		engineMu.Unlock()
	}); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule engine tick")
	}
	if snapshots != nil {
		if err := jobs.AddJob("snapshot-save", cfg.Scheduler.SnapshotSpec, func() {
			engineMu.Lock()
			snap := eng.Snapshot()
			engineMu.Unlock()
			if err := snapshots.Save(context.Background(), snap); err != nil {
				appLog.WithError(err).Error("Failed to save snapshot")
			}
		}); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule snapshot save")
		}
	}

	jobs.Start()
	srv.SetReady(true)
	appLog.Info("Trackside daemon running")

	<-ctx.Done()
	appLog.Info("Shutting down")
	jobs.Stop()

	if snapshots != nil {
		engineMu.Lock()
		snap := eng.Snapshot()
		engineMu.Unlock()
		if err := snapshots.Save(context.Background(), snap); err != nil {
			appLog.WithError(err).Error("Failed to save final snapshot")
		}
	}
}

// logSink is the standalone fallback for the reputation side channel
type logSink struct {
	logger *logrus.Logger
}

func (s logSink) OnSubstituteCurrencyUsed(penalty int) {
	s.logger.WithField("penalty", penalty).Info("Scrip payment noticed")
}

func (s logSink) OnNotableWin(seedNPC, message string) {
	s.logger.WithFields(logrus.Fields{"seed_npc": seedNPC, "message": message}).Info("Notable win")
}

func (s logSink) OnAchievementProgress(tag string) {
	s.logger.WithField("tag", tag).Debug("Achievement progress")
}
