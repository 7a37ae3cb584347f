package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"streamhub/proj/internal/domain/errs"
	"streamhub/proj/internal/domain/filters"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"
	"streamhub/proj/internal/storage"

	"github.com/google/uuid"
)

type ContentStorage interface {
	Insert(ctx context.Context, content *models.Content) error
	Get(ctx context.Context, id string) (*models.Content, error)
	List(ctx context.Context, f filters.ContentFilters) ([]models.Content, error)
	Update(ctx context.Context, content *models.Content) error
	Delete(ctx context.Context, id string) error
}

// Catalog is public read, admin gated write.
type Catalog struct {
	log     *slog.Logger
	storage ContentStorage
	now     func() time.Time
}

func New(log *slog.Logger, storage ContentStorage) *Catalog {
	return &Catalog{
		log:     log,
		storage: storage,
		now:     time.Now,
	}
}

func authorizeWrite(actor *models.Principal) error {
	if actor == nil || !rbac.HasPermission(actor.Role, rbac.ContentWriteRole) {
		return ErrInsufficientRole
	}
	return nil
}

// prepareSeasons assigns ids to episodes that have none and rejects duplicate
// ids. Episode numbers are not checked.
func prepareSeasons(c *models.Content) error {
	for si := range c.Seasons {
		if c.Seasons[si].Episodes == nil {
			c.Seasons[si].Episodes = []models.Episode{}
		}
		for ei := range c.Seasons[si].Episodes {
			if c.Seasons[si].Episodes[ei].ID == "" {
				c.Seasons[si].Episodes[ei].ID = uuid.NewString()
			}
		}
	}
	if err := c.IndexEpisodes(); err != nil {
		if errors.Is(err, models.ErrDuplicateEpisodeID) {
			return errs.NewValidation("seasons", "Episode ids must be unique within a content")
		}
		return err
	}
	return nil
}

func (s *Catalog) Create(ctx context.Context, actor *models.Principal, content *models.Content) (*models.Content, error) {
	const op = "catalog.Catalog.Create"
	log := s.log.With("op", op, "title", content.Title)
	if err := authorizeWrite(actor); err != nil {
		return nil, err
	}
	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	if err := prepareSeasons(content); err != nil {
		return nil, err
	}
	if content.Genres == nil {
		content.Genres = []string{}
	}
	now := s.now().UTC()
	content.Views = 0
	for si := range content.Seasons {
		for ei := range content.Seasons[si].Episodes {
			content.Seasons[si].Episodes[ei].Views = 0
		}
	}
	content.CreatedBy = actor.AccountID
	content.CreatedAt = now
	content.UpdatedAt = now
	if err := s.storage.Insert(ctx, content); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("content already exists")
			return nil, ErrContentAlreadyExists
		}
		log.Error("Error inserting content", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("content created", "id", content.ID, "by", actor.AccountID)
	return content, nil
}

func (s *Catalog) Get(ctx context.Context, id string) (*models.Content, error) {
	const op = "catalog.Catalog.Get"
	log := s.log.With("op", op, "id", id)
	content, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("content not found")
			return nil, ErrContentNotFound
		}
		log.Error("Error getting content", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return content, nil
}

func (s *Catalog) List(ctx context.Context, f filters.ContentFilters) ([]models.Content, error) {
	const op = "catalog.Catalog.List"
	log := s.log.With("op", op)
	list, err := s.storage.List(ctx, f)
	if err != nil {
		log.Error("Error listing content", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Update merges the supplied fields and bumps updatedAt. View counters are
// kept by the storage.
func (s *Catalog) Update(ctx context.Context, actor *models.Principal, id string, patch models.ContentPatch) (*models.Content, error) {
	const op = "catalog.Catalog.Update"
	log := s.log.With("op", op, "id", id)
	if err := authorizeWrite(actor); err != nil {
		return nil, err
	}
	content, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(content)
	if patch.Seasons != nil {
		if err := prepareSeasons(content); err != nil {
			return nil, err
		}
	}
	if content.Genres == nil {
		content.Genres = []string{}
	}
	content.UpdatedAt = s.now().UTC()
	if err := s.storage.Update(ctx, content); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		log.Error("Error updating content", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("content updated", "by", actor.AccountID)
	return s.Get(ctx, id)
}

func (s *Catalog) Delete(ctx context.Context, actor *models.Principal, id string) error {
	const op = "catalog.Catalog.Delete"
	log := s.log.With("op", op, "id", id)
	if err := authorizeWrite(actor); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrContentNotFound
		}
		log.Error("Error deleting content", "errMsg", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("content deleted", "by", actor.AccountID)
	return nil
}
