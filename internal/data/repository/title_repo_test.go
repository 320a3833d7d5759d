package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTitleFilterWhereClause(t *testing.T) {
	year := 1972

	tests := []struct {
		name     string
		filter   TitleFilter
		wantSQL  []string
		wantArgs []any
	}{
		{
			name:    "empty",
			filter:  TitleFilter{},
			wantSQL: []string{" WHERE TRUE"},
		},
		{
			name:   "all filters",
			filter: TitleFilter{Name: "sol", Year: &year, CategorySlug: "films", GenreSlug: "drama"},
			wantSQL: []string{
				"t.name ILIKE '%' || $1 || '%'",
				"t.year = $2",
				"c.slug = $3",
				"g.slug = $4",
			},
			wantArgs: []any{"sol", 1972, "films", "drama"},
		},
		{
			name:     "gaps keep placeholders dense",
			filter:   TitleFilter{Year: &year, GenreSlug: "drama"},
			wantSQL:  []string{"t.year = $1", "g.slug = $2"},
			wantArgs: []any{1972, "drama"},
		},
		{
			name:     "category only",
			filter:   TitleFilter{CategorySlug: "books"},
			wantSQL:  []string{"c.slug = $1"},
			wantArgs: []any{"books"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.whereClause()
			for _, fragment := range tt.wantSQL {
				assert.Contains(t, where, fragment)
			}
			assert.Equal(t, tt.wantArgs, args)
			assert.NotContains(t, where, fmt.Sprintf("$%d", len(args)+1))
		})
	}
}

func TestTitleFindAllAppendsPaging(t *testing.T) {
	mock := newMockDB(t)
	repo := NewTitleRepository(mock, zap.NewNop())
	year := 1972
	description := "Ocean planet"
	categoryID := int64(2)

	rows := pgxmock.NewRows([]string{
		"id", "name", "year", "description", "category_id", "rating", "created_at", "updated_at",
	}).AddRow(int64(1), "Solaris", &year, &description, &categoryID, nil, testNow, testNow)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY t.id LIMIT $3 OFFSET $4`)).
		WithArgs(1972, "drama", 10, 20).
		WillReturnRows(rows)

	titles, err := repo.FindAll(context.Background(), TitleFilter{Year: &year, GenreSlug: "drama"}, 10, 20)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Solaris", titles[0].Name)
	assert.Equal(t, 1972, *titles[0].Year)
	assert.Equal(t, int64(2), *titles[0].CategoryID)
	assert.Nil(t, titles[0].Rating)
}

func TestTitleCountAllUsesFilterArgs(t *testing.T) {
	mock := newMockDB(t)
	repo := NewTitleRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM titles t WHERE TRUE AND t.name ILIKE '%' || $1 || '%'`)).
		WithArgs("sol").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	total, err := repo.CountAll(context.Background(), TitleFilter{Name: "sol"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

const (
	lockTitleSQL   = `SELECT id FROM titles WHERE id = $1 FOR UPDATE`
	avgScoreSQL    = `SELECT AVG(score)::float8 FROM reviews WHERE title_id = $1`
	storeRatingSQL = `UPDATE titles SET rating = $2 WHERE id = $1`
)

func TestRecomputeRatingStoresMean(t *testing.T) {
	mock := newMockDB(t)
	repo := NewTitleRepository(mock, zap.NewNop())
	mean := 7.5

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockTitleSQL)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectQuery(regexp.QuoteMeta(avgScoreSQL)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(&mean))
	mock.ExpectExec(regexp.QuoteMeta(storeRatingSQL)).
		WithArgs(int64(9), &mean).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	rating, err := repo.RecomputeRating(context.Background(), 9)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.InDelta(t, 7.5, *rating, 1e-9)
}

func TestRecomputeRatingWithoutReviewsStoresNull(t *testing.T) {
	mock := newMockDB(t)
	repo := NewTitleRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockTitleSQL)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectQuery(regexp.QuoteMeta(avgScoreSQL)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta(storeRatingSQL)).
		WithArgs(int64(9), (*float64)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	rating, err := repo.RecomputeRating(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, rating)
}

func TestRecomputeRatingMissingTitle(t *testing.T) {
	mock := newMockDB(t)
	repo := NewTitleRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockTitleSQL)).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	rating, err := repo.RecomputeRating(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, rating)
}

func TestRecomputeRatingRollsBackOnWriteFailure(t *testing.T) {
	mock := newMockDB(t)
	repo := NewTitleRepository(mock, zap.NewNop())
	mean := 4.0
	boom := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockTitleSQL)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectQuery(regexp.QuoteMeta(avgScoreSQL)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(&mean))
	mock.ExpectExec(regexp.QuoteMeta(storeRatingSQL)).
		WithArgs(int64(9), &mean).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.RecomputeRating(context.Background(), 9)
	assert.ErrorIs(t, err, boom)
}

func TestReplaceTitleGenresInTransaction(t *testing.T) {
	mock := newMockDB(t)
	repo := NewTitleGenreRepository(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM title_genres WHERE title_id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO title_genres (title_id, genre_id) SELECT $1, unnest($2::bigint[])`)).
		WithArgs(int64(5), []int64{1, 2}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceForTitle(context.Background(), 5, []int64{1, 2}))
}
