package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/data/repository"
	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/dto/response"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

type TitleService interface {
	GetTitles(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitleByID(ctx context.Context, titleID int64) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, titleID int64, req *request.UpdateTitleRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, titleID int64) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetTitles(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	req.Normalize()

	filter := repository.TitleFilter{
		Name:         req.Name,
		Year:         req.Year,
		CategorySlug: req.Category,
		GenreSlug:    req.Genre,
	}

	titles, err := s.repo.Title.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get titles",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count titles", zap.Error(err))
		return nil, fmt.Errorf("count titles: %w", err)
	}

	ids := make([]int64, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
	}
	genresByTitle, err := s.repo.Genre.FindByTitleIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get title genres: %w", err)
	}

	categories := make(map[int64]*entity.Category)
	data := make([]response.TitleResponse, len(titles))
	for i, title := range titles {
		var category *entity.Category
		if title.CategoryID != nil {
			var ok bool
			if category, ok = categories[*title.CategoryID]; !ok {
				category, err = s.repo.Category.FindByID(ctx, *title.CategoryID)
				if err != nil {
					return nil, fmt.Errorf("get title category: %w", err)
				}
				categories[*title.CategoryID] = category
			}
		}
		data[i] = response.TitleToResponse(title, category, genresByTitle[title.ID])
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *titleService) GetTitleByID(ctx context.Context, titleID int64) (*response.TitleResponse, error) {
	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, title)
}

func (s *titleService) CreateTitle(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		s.log.Warn("Create title validation failed", zap.Error(err))
		return nil, err
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		BaseNoDelete: entity.BaseNoDelete{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        req.Year,
		Description: utils.SanitizeTextPtr(req.Description),
		CategoryID:  categoryID,
	}

	if err := s.repo.Title.Create(ctx, title); err != nil {
		s.log.Error("Failed to create title", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create title: %w", err)
	}

	if err := s.repo.TitleGenre.CreateBatch(ctx, title.ID, genreIDs(genres)); err != nil {
		s.log.Error("Failed to link title genres", zap.Error(err), zap.Int64("title_id", title.ID))
		// roll back the half-created title
		if delErr := s.repo.Title.Delete(ctx, title.ID); delErr != nil {
			s.log.Error("Failed to remove title after genre link failure",
				zap.Error(delErr),
				zap.Int64("title_id", title.ID),
			)
		}
		return nil, fmt.Errorf("link title genres: %w", err)
	}

	s.log.Info("Title created",
		zap.Int64("title_id", title.ID),
		zap.String("name", title.Name),
		zap.Int("genres", len(genres)),
	)

	return s.toResponse(ctx, title)
}

func (s *titleService) UpdateTitle(ctx context.Context, titleID int64, req *request.UpdateTitleRequest) (*response.TitleResponse, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, newValidationError("name", "This field may not be blank")
		}
		req.Name = &trimmed
	}
	if err := validate(req); err != nil {
		s.log.Warn("Update title validation failed", zap.Error(err), zap.Int64("title_id", titleID))
		return nil, err
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = req.Year
	}
	if req.Description != nil {
		title.Description = utils.SanitizeTextPtr(req.Description)
	}
	if req.Category != nil {
		if title.CategoryID, err = s.resolveCategory(ctx, req.Category); err != nil {
			return nil, err
		}
	}

	var genres []*entity.Genre
	if req.Genre != nil {
		if genres, err = s.resolveGenres(ctx, *req.Genre); err != nil {
			return nil, err
		}
	}

	title.UpdatedAt = time.Now()
	if err := s.repo.Title.Update(ctx, title); err != nil {
		s.log.Error("Failed to update title", zap.Error(err), zap.Int64("title_id", titleID))
		return nil, fmt.Errorf("update title: %w", err)
	}

	if req.Genre != nil {
		if err := s.repo.TitleGenre.ReplaceForTitle(ctx, title.ID, genreIDs(genres)); err != nil {
			s.log.Error("Failed to replace title genres", zap.Error(err), zap.Int64("title_id", titleID))
			return nil, fmt.Errorf("replace title genres: %w", err)
		}
	}

	s.log.Info("Title updated", zap.Int64("title_id", titleID))
	return s.toResponse(ctx, title)
}

func (s *titleService) DeleteTitle(ctx context.Context, titleID int64) error {
	if _, err := s.findTitle(ctx, titleID); err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, titleID); err != nil {
		s.log.Error("Failed to delete title", zap.Error(err), zap.Int64("title_id", titleID))
		return fmt.Errorf("delete title: %w", err)
	}

	s.log.Info("Title deleted", zap.Int64("title_id", titleID))
	return nil
}

func (s *titleService) findTitle(ctx context.Context, titleID int64) (*entity.Title, error) {
	title, err := s.repo.Title.FindByID(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.Int64("title_id", titleID))
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, fmt.Errorf("title %d: %w", titleID, ErrNotFound)
	}
	return title, nil
}

func (s *titleService) toResponse(ctx context.Context, title *entity.Title) (*response.TitleResponse, error) {
	var category *entity.Category
	if title.CategoryID != nil {
		c, err := s.repo.Category.FindByID(ctx, *title.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get title category: %w", err)
		}
		category = c
	}

	genres, err := s.repo.Genre.FindByTitleID(ctx, title.ID)
	if err != nil {
		return nil, fmt.Errorf("get title genres: %w", err)
	}

	resp := response.TitleToResponse(title, category, genres)
	return &resp, nil
}

// resolveCategory maps a category slug to its id. Nil and "" mean no category.
func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*int64, error) {
	if slug == nil || *slug == "" {
		return nil, nil
	}

	category, err := s.repo.Category.FindBySlug(ctx, *slug)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, newValidationError("category", fmt.Sprintf("Unknown category %q", *slug))
	}
	return &category.ID, nil
}

// resolveGenres maps genre slugs to genres, rejecting any unknown slug.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	if len(genres) != len(unique) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		var missing []string
		for _, slug := range unique {
			if !found[slug] {
				missing = append(missing, slug)
			}
		}
		sort.Strings(missing)
		return nil, newValidationError("genre", "Unknown genres: "+strings.Join(missing, ", "))
	}

	return genres, nil
}

func genreIDs(genres []*entity.Genre) []int64 {
	ids := make([]int64, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}

func validateYear(year *int) error {
	if year != nil && *year > time.Now().Year() {
		return newValidationError("year", "Year cannot be in the future")
	}
	return nil
}
