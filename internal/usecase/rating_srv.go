package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/repository"
)

// RatingAggregator keeps a title's stored rating equal to the mean score of
// its reviews, or null when it has none.
type RatingAggregator interface {
	Recompute(ctx context.Context, titleID int64)
}

type ratingAggregator struct {
	titleRepo repository.TitleRepository
	log       *zap.Logger
}

func NewRatingAggregator(titleRepo repository.TitleRepository, log *zap.Logger) RatingAggregator {
	return &ratingAggregator{
		titleRepo: titleRepo,
		log:       log.With(zap.String("service", "rating")),
	}
}

// Recompute logs failures instead of returning them; the review write that
// triggered it has already been committed.
func (a *ratingAggregator) Recompute(ctx context.Context, titleID int64) {
	rating, err := a.titleRepo.RecomputeRating(ctx, titleID)
	if err != nil {
		a.log.Warn("Failed to recompute title rating",
			zap.Error(err),
			zap.Int64("title_id", titleID),
		)
		return
	}

	a.log.Debug("Title rating recomputed",
		zap.Int64("title_id", titleID),
		zap.Float64p("rating", rating),
	)
}
