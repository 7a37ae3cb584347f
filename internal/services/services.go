package services

import (
	"log/slog"

	"streamhub/proj/internal/config"
	"streamhub/proj/internal/mails"
	"streamhub/proj/internal/services/accounts"
	"streamhub/proj/internal/services/auth"
	"streamhub/proj/internal/services/catalog"
	"streamhub/proj/internal/services/stats"
	"streamhub/proj/internal/services/tracker"
	"streamhub/proj/internal/storage/memory"
	pgmodels "streamhub/proj/internal/storage/postgres/models"
)

type AccountStore interface {
	accounts.AccountStorage
	tracker.ProgressStorage
	stats.AccountCounter
}

type ContentStore interface {
	catalog.ContentStorage
	tracker.ContentCounter
	stats.ContentStats
}

type ViewLogStore interface {
	tracker.ViewLogAppender
	stats.ViewLogReader
}

// Storage bundles the stores every service reads from, whatever the backend.
type Storage struct {
	Accounts AccountStore
	Contents ContentStore
	ViewLogs ViewLogStore
}

func FromMemory(m *memory.Storage) Storage {
	return Storage{Accounts: m.Accounts, Contents: m.Contents, ViewLogs: m.ViewLogs}
}

func FromPostgres(m *pgmodels.Models) Storage {
	return Storage{Accounts: m.Account, Contents: m.Content, ViewLogs: m.ViewLog}
}

type Services struct {
	Tokens   *auth.TokenManager
	Accounts *accounts.Directory
	Catalog  *catalog.Catalog
	Tracker  *tracker.Tracker
	Stats    *stats.Aggregator
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	storage Storage,
	taskExecutor accounts.TaskExecutor,
	publisher tracker.Publisher,
	metrics tracker.Metrics,
) *Services {
	var mailer accounts.MailProvider = mails.Noop{Log: log}
	if cfg.SMTP.Host != "" {
		mailer = mails.New(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Timeout,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.Sender,
			cfg.SMTP.RetriesCount,
		)
	}
	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	return &Services{
		Tokens: tokens,
		Accounts: accounts.New(
			log,
			storage.Accounts,
			auth.NewBcryptHasher(cfg.Auth.BcryptCost),
			tokens,
			mailer,
			taskExecutor,
			cfg.Auth.OwnerEmail,
		),
		Catalog: catalog.New(log, storage.Contents),
		Tracker: tracker.New(log, storage.Contents, storage.ViewLogs, storage.Accounts, publisher, metrics),
		Stats:   stats.New(log, storage.Accounts, storage.Contents, storage.ViewLogs),
	}
}
