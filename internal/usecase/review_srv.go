package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/data/repository"
	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/dto/response"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

type ReviewService interface {
	// Public endpoints
	GetTitleReviews(ctx context.Context, titleID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID int64) (*response.ReviewResponse, error)

	// Authenticated endpoints
	CreateReview(ctx context.Context, actor Actor, titleID int64, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor Actor, titleID, reviewID int64, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor Actor, titleID, reviewID int64) error
}

type reviewService struct {
	repo   *repository.Repository
	rating RatingAggregator
	log    *zap.Logger
}

func NewReviewService(repo *repository.Repository, rating RatingAggregator, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:   repo,
		rating: rating,
		log:    log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	req.Normalize()

	reviews, err := s.repo.Review.FindByTitleID(ctx, titleID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get title reviews",
			zap.Error(err),
			zap.Int64("title_id", titleID),
			zap.Int("page", req.Page),
		)
		return nil, fmt.Errorf("get title reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("count title reviews: %w", err)
	}

	data := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		data[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, titleID int64, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByTitleAndAuthor(ctx, titleID, actor.ID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("title %d by user %d: %w", titleID, actor.ID, ErrAlreadyReviewed)
	}

	review := &entity.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     utils.SanitizeText(req.Text),
		Score:    req.Score,
		PubDate:  time.Now(),
	}
	if review.Text == "" {
		return nil, newValidationError("text", "This field is required")
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		// a concurrent create for the same pair lost the race on the unique constraint
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("title %d by user %d: %w", titleID, actor.ID, ErrAlreadyReviewed)
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("user_id", actor.ID),
			zap.Int64("title_id", titleID),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.rating.Recompute(ctx, titleID)

	s.log.Info("Review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("user_id", actor.ID),
		zap.Int64("title_id", titleID),
		zap.Int("score", review.Score),
	)

	return s.reload(ctx, review)
}

func (s *reviewService) UpdateReview(ctx context.Context, actor Actor, titleID, reviewID int64, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update review validation failed", zap.Error(err))
		return nil, err
	}

	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !CanEditContent(actor, review.AuthorID) {
		s.log.Warn("Review update denied",
			zap.Int64("review_id", reviewID),
			zap.Int64("user_id", actor.ID),
		)
		return nil, fmt.Errorf("update review %d: %w", reviewID, ErrForbidden)
	}

	if req.Text != nil {
		review.Text = utils.SanitizeText(*req.Text)
		if review.Text == "" {
			return nil, newValidationError("text", "This field may not be blank")
		}
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.Int64("review_id", reviewID))
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.rating.Recompute(ctx, titleID)

	s.log.Info("Review updated",
		zap.Int64("review_id", reviewID),
		zap.Int64("user_id", actor.ID),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, titleID, reviewID int64) error {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !CanEditContent(actor, review.AuthorID) {
		s.log.Warn("Review delete denied",
			zap.Int64("review_id", reviewID),
			zap.Int64("user_id", actor.ID),
		)
		return fmt.Errorf("delete review %d: %w", reviewID, ErrForbidden)
	}

	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.Int64("review_id", reviewID))
		return fmt.Errorf("delete review: %w", err)
	}

	s.rating.Recompute(ctx, titleID)

	s.log.Info("Review deleted", zap.Int64("review_id", reviewID), zap.Int64("user_id", actor.ID))
	return nil
}

func (s *reviewService) ensureTitle(ctx context.Context, titleID int64) error {
	title, err := s.repo.Title.FindByID(ctx, titleID)
	if err != nil {
		return fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return fmt.Errorf("title %d: %w", titleID, ErrNotFound)
	}
	return nil
}

// findReview loads a review and checks it belongs to titleID.
func (s *reviewService) findReview(ctx context.Context, titleID, reviewID int64) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil || review.TitleID != titleID {
		return nil, fmt.Errorf("review %d of title %d: %w", reviewID, titleID, ErrNotFound)
	}
	return review, nil
}

// reload re-reads a freshly written review to pick up the author name.
func (s *reviewService) reload(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	stored, err := s.repo.Review.FindByID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}
	if stored == nil {
		stored = review
	}

	resp := response.ReviewToResponse(stored)
	return &resp, nil
}
