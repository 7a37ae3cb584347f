package models

import (
	"context"
	"fmt"

	"streamhub/proj/internal/domain/filters"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/storage"
	"streamhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContentModel struct {
	DB *pgxpool.Pool
}

const contentColumns = `id, type, title, description, thumbnail, banner, trailer, video_url, server_type,
	genres, release_year, rating, duration, views, trending, featured, created_by, created_at, updated_at`

const episodeColumns = `content_id, season_position, id, episode_number, title, description, thumbnail,
	video_url, server_type, duration, views, release_date, intro_start, intro_end`

func (m *ContentModel) Insert(ctx context.Context, content *models.Content) error {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return postgres.MapError(err)
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(
		ctx,
		`INSERT INTO contents (`+contentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		content.ID,
		content.Type,
		content.Title,
		content.Description,
		content.Thumbnail,
		content.Banner,
		content.Trailer,
		content.VideoURL,
		content.ServerType,
		nonNil(content.Genres),
		content.ReleaseYear,
		content.Rating,
		content.Duration,
		content.Views,
		content.Trending,
		content.Featured,
		content.CreatedBy,
		content.CreatedAt,
		content.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	if err := insertSeasons(ctx, tx, content.ID, content.Seasons, nil); err != nil {
		return err
	}
	return postgres.MapError(tx.Commit(ctx))
}

// insertSeasons writes the season tree of a content. When views is not nil the
// counters it holds override the ones carried by the episodes.
func insertSeasons(ctx context.Context, q querier, contentID string, seasons []models.Season, views map[string]int64) error {
	for si, s := range seasons {
		_, err := q.Exec(
			ctx,
			`INSERT INTO seasons (content_id, position, season_number) VALUES ($1, $2, $3)`,
			contentID, si, s.SeasonNumber,
		)
		if err != nil {
			return postgres.MapError(err)
		}
		for ei, ep := range s.Episodes {
			epViews := ep.Views
			if views != nil {
				epViews = views[ep.ID]
			}
			_, err := q.Exec(
				ctx,
				`INSERT INTO episodes (content_id, season_position, position, id, episode_number, title,
				description, thumbnail, video_url, server_type, duration, views, release_date, intro_start, intro_end)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
				contentID, si, ei, ep.ID, ep.EpisodeNumber, ep.Title,
				ep.Description, ep.Thumbnail, ep.VideoURL, ep.ServerType, ep.Duration, epViews,
				ep.ReleaseDate, ep.IntroStart, ep.IntroEnd,
			)
			if err != nil {
				return postgres.MapError(err)
			}
		}
	}
	return nil
}

func (m *ContentModel) Get(ctx context.Context, id string) (*models.Content, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = $1`, id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	content, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Content])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	contents := []models.Content{content}
	if err := loadSeasons(ctx, m.DB, contents); err != nil {
		return nil, err
	}
	return &contents[0], nil
}

func (m *ContentModel) List(ctx context.Context, f filters.ContentFilters) ([]models.Content, error) {
	query := fmt.Sprintf(`
	SELECT `+contentColumns+` FROM contents
	WHERE ($1 = false OR featured)
	AND ($2 = false OR trending)
	AND ($3 = false OR type = 'SERIES')
	AND ($4 = '' OR position(lower($4) in lower(title)) > 0)
	ORDER BY %s DESC, id ASC
	LIMIT $5`, f.SortColumn())
	rows, err := m.DB.Query(ctx, query, f.Featured, f.Trending, f.NewEpisodes, f.Search, f.EffectiveLimit())
	if err != nil {
		return nil, postgres.MapError(err)
	}
	contents, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Content])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	if err := loadSeasons(ctx, m.DB, contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// Update rewrites every column except the counters and ownership. The season
// tree is replaced, keeping the stored views of episodes whose id survives.
func (m *ContentModel) Update(ctx context.Context, content *models.Content) error {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return postgres.MapError(err)
	}
	defer tx.Rollback(ctx)

	status, err := tx.Exec(
		ctx,
		`UPDATE contents SET type = $1, title = $2, description = $3, thumbnail = $4, banner = $5,
		trailer = $6, video_url = $7, server_type = $8, genres = $9, release_year = $10, rating = $11,
		duration = $12, trending = $13, featured = $14, updated_at = $15
		WHERE id = $16`,
		content.Type,
		content.Title,
		content.Description,
		content.Thumbnail,
		content.Banner,
		content.Trailer,
		content.VideoURL,
		content.ServerType,
		nonNil(content.Genres),
		content.ReleaseYear,
		content.Rating,
		content.Duration,
		content.Trending,
		content.Featured,
		content.UpdatedAt,
		content.ID,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	rows, err := tx.Query(ctx, `SELECT id, views FROM episodes WHERE content_id = $1 FOR UPDATE`, content.ID)
	if err != nil {
		return postgres.MapError(err)
	}
	views := make(map[string]int64)
	var (
		epID    string
		epViews int64
	)
	_, err = pgx.ForEachRow(rows, []any{&epID, &epViews}, func() error {
		views[epID] = epViews
		return nil
	})
	if err != nil {
		return postgres.MapError(err)
	}

	// episodes go with their seasons
	if _, err := tx.Exec(ctx, `DELETE FROM seasons WHERE content_id = $1`, content.ID); err != nil {
		return postgres.MapError(err)
	}
	if err := insertSeasons(ctx, tx, content.ID, content.Seasons, views); err != nil {
		return err
	}
	return postgres.MapError(tx.Commit(ctx))
}

func (m *ContentModel) Delete(ctx context.Context, id string) error {
	status, err := m.DB.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *ContentModel) IncrementViews(ctx context.Context, id string) error {
	status, err := m.DB.Exec(ctx, `UPDATE contents SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *ContentModel) IncrementEpisodeViews(ctx context.Context, contentID, episodeID string) (bool, error) {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE episodes SET views = views + 1 WHERE content_id = $1 AND id = $2`,
		contentID, episodeID,
	)
	if err != nil {
		return false, postgres.MapError(err)
	}
	return status.RowsAffected() > 0, nil
}

func (m *ContentModel) Count(ctx context.Context) (int64, error) {
	var n int64
	err := m.DB.QueryRow(ctx, `SELECT count(*) FROM contents`).Scan(&n)
	return n, postgres.MapError(err)
}

func (m *ContentModel) SumViews(ctx context.Context) (int64, error) {
	var n int64
	err := m.DB.QueryRow(ctx, `SELECT COALESCE(SUM(views), 0)::BIGINT FROM contents`).Scan(&n)
	return n, postgres.MapError(err)
}

func (m *ContentModel) Top(ctx context.Context, n int) ([]models.Content, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+contentColumns+` FROM contents ORDER BY views DESC, id ASC LIMIT $1`, n)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	contents, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Content])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return contents, nil
}

func loadSeasons(ctx context.Context, q querier, contents []models.Content) error {
	if len(contents) == 0 {
		return nil
	}
	ids := make([]string, len(contents))
	index := make(map[string]int, len(contents))
	for i, c := range contents {
		ids[i] = c.ID
		index[c.ID] = i
	}

	rows, err := q.Query(
		ctx,
		`SELECT content_id, season_number FROM seasons WHERE content_id = ANY($1) ORDER BY content_id, position`,
		ids,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	var (
		contentID    string
		seasonNumber int
	)
	_, err = pgx.ForEachRow(rows, []any{&contentID, &seasonNumber}, func() error {
		c := &contents[index[contentID]]
		c.Seasons = append(c.Seasons, models.Season{SeasonNumber: seasonNumber, Episodes: []models.Episode{}})
		return nil
	})
	if err != nil {
		return postgres.MapError(err)
	}

	type episodeRow struct {
		ContentID      string `db:"content_id"`
		SeasonPosition int    `db:"season_position"`
		models.Episode
	}
	rows, err = q.Query(
		ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE content_id = ANY($1)
		ORDER BY content_id, season_position, position`,
		ids,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	episodes, err := pgx.CollectRows(rows, pgx.RowToStructByName[episodeRow])
	if err != nil {
		return postgres.MapError(err)
	}
	for _, row := range episodes {
		c := &contents[index[row.ContentID]]
		if row.SeasonPosition < len(c.Seasons) {
			s := &c.Seasons[row.SeasonPosition]
			s.Episodes = append(s.Episodes, row.Episode)
		}
	}
	return nil
}
