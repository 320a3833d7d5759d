package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/data/repository"
	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/dto/response"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

type CommentService interface {
	GetReviewComments(ctx context.Context, titleID, reviewID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, actor Actor, titleID, reviewID int64, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, actor Actor, titleID, reviewID, commentID int64, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, actor Actor, titleID, reviewID, commentID int64) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) GetReviewComments(ctx context.Context, titleID, reviewID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	req.Normalize()

	comments, err := s.repo.Comment.FindByReviewID(ctx, reviewID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get review comments", zap.Error(err), zap.Int64("review_id", reviewID))
		return nil, fmt.Errorf("get review comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("count review comments: %w", err)
	}

	data := make([]response.CommentResponse, len(comments))
	for i, comment := range comments {
		data[i] = response.CommentToResponse(comment)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor Actor, titleID, reviewID int64, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create comment validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     utils.SanitizeText(req.Text),
		PubDate:  time.Now(),
	}
	if comment.Text == "" {
		return nil, newValidationError("text", "This field is required")
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.log.Error("Failed to create comment",
			zap.Error(err),
			zap.Int64("review_id", reviewID),
			zap.Int64("user_id", actor.ID),
		)
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("review_id", reviewID),
		zap.Int64("user_id", actor.ID),
	)

	stored, err := s.repo.Comment.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	if stored == nil {
		stored = comment
	}

	resp := response.CommentToResponse(stored)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor Actor, titleID, reviewID, commentID int64, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update comment validation failed", zap.Error(err))
		return nil, err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !CanEditContent(actor, comment.AuthorID) {
		s.log.Warn("Comment update denied",
			zap.Int64("comment_id", commentID),
			zap.Int64("user_id", actor.ID),
		)
		return nil, fmt.Errorf("update comment %d: %w", commentID, ErrForbidden)
	}

	if req.Text != nil {
		comment.Text = utils.SanitizeText(*req.Text)
		if comment.Text == "" {
			return nil, newValidationError("text", "This field may not be blank")
		}
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		s.log.Error("Failed to update comment", zap.Error(err), zap.Int64("comment_id", commentID))
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.log.Info("Comment updated", zap.Int64("comment_id", commentID), zap.Int64("user_id", actor.ID))

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor Actor, titleID, reviewID, commentID int64) error {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !CanEditContent(actor, comment.AuthorID) {
		s.log.Warn("Comment delete denied",
			zap.Int64("comment_id", commentID),
			zap.Int64("user_id", actor.ID),
		)
		return fmt.Errorf("delete comment %d: %w", commentID, ErrForbidden)
	}

	if err := s.repo.Comment.Delete(ctx, commentID); err != nil {
		s.log.Error("Failed to delete comment", zap.Error(err), zap.Int64("comment_id", commentID))
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted", zap.Int64("comment_id", commentID), zap.Int64("user_id", actor.ID))
	return nil
}

// ensureReview checks that the review exists under titleID.
func (s *commentService) ensureReview(ctx context.Context, titleID, reviewID int64) error {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("find review: %w", err)
	}
	if review == nil || review.TitleID != titleID {
		return fmt.Errorf("review %d of title %d: %w", reviewID, titleID, ErrNotFound)
	}
	return nil
}

func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID int64) (*entity.Comment, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil || comment.ReviewID != reviewID {
		return nil, fmt.Errorf("comment %d of review %d: %w", commentID, reviewID, ErrNotFound)
	}
	return comment, nil
}
