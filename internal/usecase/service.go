package usecase

import (
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/repository"
	"github.com/korey-h/api-yamdb/pkg/mailer"
	"github.com/korey-h/api-yamdb/pkg/throttle"
	"github.com/korey-h/api-yamdb/pkg/token"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

// Dependencies are the collaborators the services need besides storage.
type Dependencies struct {
	Tokens   *token.Manager
	Mailer   mailer.Sender
	Throttle throttle.Limiter
}

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
	Rating   RatingAggregator
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	rating := NewRatingAggregator(repo.Title, log)

	return &Service{
		Auth:     NewAuthService(repo.User, deps, config, log),
		User:     NewUserService(repo.User, log),
		Category: NewCategoryService(repo.Category, log),
		Genre:    NewGenreService(repo.Genre, log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, rating, log),
		Comment:  NewCommentService(repo, log),
		Rating:   rating,
	}
}
