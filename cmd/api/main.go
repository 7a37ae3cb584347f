package main

import (
	"context"
	"flag"
	"os"
	"time"

	"streamhub/proj/internal/api/tasks"
	"streamhub/proj/internal/config"
	"streamhub/proj/internal/events"
	"streamhub/proj/internal/lib/logger"
	"streamhub/proj/internal/services"
	"streamhub/proj/internal/storage/memory"
	"streamhub/proj/internal/storage/postgres"
	"streamhub/proj/internal/storage/postgres/models"
	"streamhub/proj/internal/telemetry"
)

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	if cfg.Tracing.Enabled {
		shutdownTracer, err := telemetry.InitTracer("streamhub-api", version)
		if err != nil {
			log.Error("failed to init tracer", "errMsg", err.Error())
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownTracer(ctx)
		}()
	}

	var storage services.Storage
	if cfg.DB.Dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
		if err != nil {
			log.Error("failed to connect to database", "errMsg", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connection established")
		storage = services.FromPostgres(models.New(db))
	} else {
		log.Warn("no database dsn configured, using in-memory storage")
		storage = services.FromMemory(memory.New())
	}

	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.QueueSize)
	bgTasks.Run()
	publisher := events.New(log, cfg.NATS.URL)

	app := NewApplication(cfg, log, storage, bgTasks, publisher)
	if err := app.serve(); err != nil {
		log.Error("shutting down the server", "reason", err.Error())
		os.Exit(1)
	}
}
