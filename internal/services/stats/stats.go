package stats

import (
	"context"
	"fmt"
	"log/slog"

	"streamhub/proj/internal/domain/errs"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"

	"golang.org/x/sync/errgroup"
)

const (
	TopContentLimit  = 10
	RecentViewsLimit = 100
)

var ErrInsufficientRole = errs.New(errs.ErrUnauthorized, "insufficient role for this action")

type AccountCounter interface {
	Count(ctx context.Context) (int64, error)
}

type ContentStats interface {
	Count(ctx context.Context) (int64, error)
	SumViews(ctx context.Context) (int64, error)
	Top(ctx context.Context, n int) ([]models.Content, error)
}

type ViewLogReader interface {
	Recent(ctx context.Context, n int) ([]models.ViewLogEntry, error)
}

// Aggregator recomputes every figure on each call.
type Aggregator struct {
	log      *slog.Logger
	accounts AccountCounter
	contents ContentStats
	viewLogs ViewLogReader
}

func New(log *slog.Logger, accounts AccountCounter, contents ContentStats, viewLogs ViewLogReader) *Aggregator {
	return &Aggregator{log: log, accounts: accounts, contents: contents, viewLogs: viewLogs}
}

func (a *Aggregator) Get(ctx context.Context, actor *models.Principal) (*models.Stats, error) {
	const op = "stats.Aggregator.Get"
	log := a.log.With("op", op)
	if actor == nil || !rbac.HasPermission(actor.Role, rbac.StatsReadRole) {
		return nil, ErrInsufficientRole
	}
	return a.compute(ctx, log)
}

// Compute skips the role check. Used by operator tooling only.
func (a *Aggregator) Compute(ctx context.Context) (*models.Stats, error) {
	return a.compute(ctx, a.log.With("op", "stats.Aggregator.Compute"))
}

func (a *Aggregator) compute(ctx context.Context, log *slog.Logger) (*models.Stats, error) {
	var s models.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.TotalUsers, err = a.accounts.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		s.TotalContent, err = a.contents.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		s.TotalViews, err = a.contents.SumViews(gctx)
		return
	})
	g.Go(func() (err error) {
		s.TopContent, err = a.contents.Top(gctx, TopContentLimit)
		return
	})
	g.Go(func() (err error) {
		s.RecentViews, err = a.viewLogs.Recent(gctx, RecentViewsLimit)
		return
	})
	if err := g.Wait(); err != nil {
		log.Error("Error computing stats", "errMsg", err.Error())
		return nil, fmt.Errorf("stats: %w", err)
	}
	if s.TopContent == nil {
		s.TopContent = []models.Content{}
	}
	if s.RecentViews == nil {
		s.RecentViews = []models.ViewLogEntry{}
	}
	return &s, nil
}
