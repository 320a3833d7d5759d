package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/data/repository"
	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/dto/response"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

type CategoryService interface {
	ListCategories(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.CategoryResponse], error)
	CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	log          *zap.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, log *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		log:          log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) ListCategories(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.CategoryResponse], error) {
	req.Normalize()

	categories, err := s.categoryRepo.FindAll(ctx, req.Search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	total, err := s.categoryRepo.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	data := make([]response.CategoryResponse, len(categories))
	for i, c := range categories {
		data[i] = response.CategoryToResponse(c)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		s.log.Warn("Create category validation failed", zap.Error(err))
		return nil, err
	}

	slug, err := resolveSlug(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check category slug: %w", err)
	}
	if existing != nil {
		return nil, newValidationError("slug", "A category with this slug already exists")
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{CreatedAt: time.Now()},
		Name:       req.Name,
		Slug:       slug,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newValidationError("slug", "A category with this slug already exists")
		}
		s.log.Error("Failed to create category", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created", zap.Int64("category_id", category.ID), zap.String("slug", slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, slug string) error {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return fmt.Errorf("category %s: %w", slug, ErrNotFound)
	}

	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		s.log.Error("Failed to delete category", zap.Error(err), zap.String("slug", slug))
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.Info("Category deleted", zap.String("slug", slug))
	return nil
}

// resolveSlug returns the explicit slug or derives one from name.
func resolveSlug(name, slug string) (string, error) {
	if slug != "" {
		return slug, nil
	}

	derived := utils.Slugify(name)
	if !utils.IsValidSlug(derived) {
		return "", newValidationError("slug", "Cannot derive a slug from the name; provide one explicitly")
	}
	return derived, nil
}
