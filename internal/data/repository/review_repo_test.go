package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
)

func newReview() *entity.Review {
	return &entity.Review{TitleID: 1, AuthorID: 2, Text: "Great", Score: 9, PubDate: testNow}
}

func TestReviewCreate(t *testing.T) {
	mock := newMockDB(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews (title_id, author_id, text, score, pub_date)`)).
		WithArgs(int64(1), int64(2), "Great", 9, testNow).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	review := newReview()
	require.NoError(t, repo.Create(context.Background(), review))
	assert.Equal(t, int64(11), review.ID)
}

func TestReviewCreateSecondByAuthorIsDuplicate(t *testing.T) {
	mock := newMockDB(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs(int64(1), int64(2), "Great", 9, testNow).
		WillReturnError(uniqueViolationErr("reviews_title_id_author_id_key"))

	err := repo.Create(context.Background(), newReview())
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestReviewFindByTitleAndAuthor(t *testing.T) {
	mock := newMockDB(t)
	repo := NewReviewRepository(mock, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE r.title_id = $1 AND r.author_id = $2`)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title_id", "author_id", "username", "text", "score", "pub_date",
		}).AddRow(int64(11), int64(1), int64(2), "alice", "Great", 9, testNow))

	review, err := repo.FindByTitleAndAuthor(context.Background(), 1, 2)
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, "alice", review.Author)
	assert.Equal(t, 9, review.Score)
}
