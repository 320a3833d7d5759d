package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/pkg/database"
)

type TitleGenreRepository interface {
	// Bridge table operations
	DeleteByTitleID(ctx context.Context, titleID int64) error
	FindByTitleID(ctx context.Context, titleID int64) ([]*entity.TitleGenre, error)

	// Batch operations
	CreateBatch(ctx context.Context, titleID int64, genreIDs []int64) error
	ReplaceForTitle(ctx context.Context, titleID int64, genreIDs []int64) error
}

type titleGenreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleGenreRepository(db database.PgxIface, log *zap.Logger) TitleGenreRepository {
	return &titleGenreRepository{
		db:  db,
		log: log.With(zap.String("repository", "title_genre")),
	}
}

func (r *titleGenreRepository) DeleteByTitleID(ctx context.Context, titleID int64) error {
	query := `DELETE FROM title_genres WHERE title_id = $1`

	_, err := r.db.Exec(ctx, query, titleID)
	if err != nil {
		r.log.Error("Failed to delete title_genres by title ID",
			zap.Error(err),
			zap.Int64("title_id", titleID),
		)
		return fmt.Errorf("delete title_genres for title %d: %w", titleID, err)
	}

	return nil
}

func (r *titleGenreRepository) FindByTitleID(ctx context.Context, titleID int64) ([]*entity.TitleGenre, error) {
	query := `SELECT title_id, genre_id FROM title_genres WHERE title_id = $1 ORDER BY genre_id`

	rows, err := r.db.Query(ctx, query, titleID)
	if err != nil {
		r.log.Error("Failed to find title_genres",
			zap.Error(err),
			zap.Int64("title_id", titleID),
		)
		return nil, fmt.Errorf("find title_genres for title %d: %w", titleID, err)
	}
	defer rows.Close()

	var links []*entity.TitleGenre
	for rows.Next() {
		var link entity.TitleGenre
		if err := rows.Scan(&link.TitleID, &link.GenreID); err != nil {
			r.log.Error("Failed to scan title_genre row", zap.Error(err))
			return nil, fmt.Errorf("scan title_genre: %w", err)
		}
		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate title_genre rows: %w", err)
	}

	return links, nil
}

// CreateBatch links a title to genres in a single statement; existing links are kept.
func (r *titleGenreRepository) CreateBatch(ctx context.Context, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO title_genres (title_id, genre_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, titleID, genreIDs)
	if err != nil {
		r.log.Error("Failed to batch create title_genres",
			zap.Error(err),
			zap.Int64("title_id", titleID),
			zap.Int("count", len(genreIDs)),
		)
		return fmt.Errorf("batch create title_genres for title %d: %w", titleID, err)
	}

	r.log.Debug("Batch created title_genres", zap.Int64("title_id", titleID), zap.Int("count", len(genreIDs)))
	return nil
}

// ReplaceForTitle swaps the genre set of a title inside one transaction.
func (r *titleGenreRepository) ReplaceForTitle(ctx context.Context, titleID int64, genreIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace title_genres: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		r.log.Error("Failed to clear title_genres", zap.Error(err), zap.Int64("title_id", titleID))
		return fmt.Errorf("clear title_genres for title %d: %w", titleID, err)
	}

	if len(genreIDs) > 0 {
		query := `INSERT INTO title_genres (title_id, genre_id) SELECT $1, unnest($2::bigint[])`
		if _, err := tx.Exec(ctx, query, titleID, genreIDs); err != nil {
			r.log.Error("Failed to insert title_genres", zap.Error(err), zap.Int64("title_id", titleID))
			return fmt.Errorf("insert title_genres for title %d: %w", titleID, err)
		}
	}

	return tx.Commit(ctx)
}
