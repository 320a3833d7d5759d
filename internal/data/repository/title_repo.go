package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/pkg/database"
)

// TitleFilter narrows title listings. Zero values are ignored.
type TitleFilter struct {
	Name         string
	Year         *int
	CategorySlug string
	GenreSlug    string
}

type TitleRepository interface {
	// CRUD Title
	Create(ctx context.Context, title *entity.Title) error
	FindByID(ctx context.Context, id int64) (*entity.Title, error)
	Update(ctx context.Context, title *entity.Title) error
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)

	// RecomputeRating stores the mean review score of the title and returns it.
	// A title without reviews gets a NULL rating.
	RecomputeRating(ctx context.Context, titleID int64) (*float64, error)
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title) error {
	query := `
		INSERT INTO titles (name, year, description, category_id, rating,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.Rating,
		title.CreatedAt,
		title.UpdatedAt,
	).Scan(&title.ID)

	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("failed to create title: %w", err)
	}

	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*entity.Title, error) {
	query := `
		SELECT id, name, year, description, category_id, rating,
		       created_at, updated_at
		FROM titles
		WHERE id = $1
	`

	var title entity.Title
	err := r.db.QueryRow(ctx, query, id).Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.Rating,
		&title.CreatedAt,
		&title.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.Int64("title_id", id),
		)
		return nil, fmt.Errorf("failed to find title: %w", err)
	}

	return &title, nil
}

// whereClause renders filter as SQL conditions starting at placeholder $1.
func (f TitleFilter) whereClause() (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(" WHERE TRUE")

	if f.Name != "" {
		args = append(args, f.Name)
		fmt.Fprintf(&sb, " AND t.name ILIKE '%%' || $%d || '%%'", len(args))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		fmt.Fprintf(&sb, " AND t.year = $%d", len(args))
	}
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		fmt.Fprintf(&sb, " AND EXISTS (SELECT 1 FROM categories c WHERE c.id = t.category_id AND c.slug = $%d)", len(args))
	}
	if f.GenreSlug != "" {
		args = append(args, f.GenreSlug)
		fmt.Fprintf(&sb, ` AND EXISTS (SELECT 1 FROM title_genres tg
			INNER JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $%d)`, len(args))
	}

	return sb.String(), args
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error) {
	where, args := filter.whereClause()

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT t.id, t.name, t.year, t.description, t.category_id, t.rating,
		       t.created_at, t.updated_at
		FROM titles t
	`)
	queryBuilder.WriteString(where)
	fmt.Fprintf(&queryBuilder, " ORDER BY t.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all titles",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("failed to find titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		var title entity.Title
		err := rows.Scan(
			&title.ID,
			&title.Name,
			&title.Year,
			&title.Description,
			&title.CategoryID,
			&title.Rating,
			&title.CreatedAt,
			&title.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, &title)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	r.log.Debug("Titles found",
		zap.Int("count", len(titles)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	where, args := filter.whereClause()
	query := `SELECT COUNT(*) FROM titles t` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count titles", zap.Error(err))
		return 0, fmt.Errorf("failed to count titles: %w", err)
	}

	return total, nil
}

// Update writes the editable columns; rating is owned by RecomputeRating.
func (r *titleRepository) Update(ctx context.Context, title *entity.Title) error {
	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5,
		    updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.Int64("title_id", title.ID),
		)
		return fmt.Errorf("failed to update title: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("title %d not found", title.ID)
	}

	return nil
}

// Delete removes the title together with its reviews, comments and genre links.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.Int64("title_id", id),
		)
		return fmt.Errorf("failed to delete title: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("title %d not found", id)
	}

	r.log.Info("Title deleted", zap.Int64("title_id", id))
	return nil
}

func (r *titleRepository) RecomputeRating(ctx context.Context, titleID int64) (*float64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin rating tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// serialize concurrent recomputes of the same title
	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM titles WHERE id = $1 FOR UPDATE`, titleID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock title", zap.Error(err), zap.Int64("title_id", titleID))
		return nil, fmt.Errorf("lock title %d: %w", titleID, err)
	}

	var rating *float64
	err = tx.QueryRow(ctx, `SELECT AVG(score)::float8 FROM reviews WHERE title_id = $1`, titleID).Scan(&rating)
	if err != nil {
		r.log.Error("Failed to aggregate scores", zap.Error(err), zap.Int64("title_id", titleID))
		return nil, fmt.Errorf("aggregate scores of title %d: %w", titleID, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE titles SET rating = $2 WHERE id = $1`, titleID, rating); err != nil {
		r.log.Error("Failed to update title rating",
			zap.Error(err),
			zap.Int64("title_id", titleID),
			zap.Float64p("rating", rating),
		)
		return nil, fmt.Errorf("update rating of title %d: %w", titleID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit rating tx: %w", err)
	}

	return rating, nil
}
