package main

import (
	"log/slog"

	"streamhub/proj/internal/api/tasks"
	"streamhub/proj/internal/config"
	"streamhub/proj/internal/events"
	"streamhub/proj/internal/lib/validator"
	"streamhub/proj/internal/metrics"
	"streamhub/proj/internal/services"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	Services  *services.Services
	validator *govalidator.Validate
	decoder   *schema.Decoder
	metrics   *metrics.Metrics
	tasks     *tasks.BackgroundTasks
	publisher events.Publisher
}

func NewApplication(
	cfg *config.Config,
	log *slog.Logger,
	storage services.Storage,
	bgTasks *tasks.BackgroundTasks,
	publisher events.Publisher,
) *Application {
	m := metrics.New()
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: validator.New(),
		decoder:   decoder,
		metrics:   m,
		tasks:     bgTasks,
		publisher: publisher,
		Services:  services.New(log, cfg, storage, bgTasks, publisher, m),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
