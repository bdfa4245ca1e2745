package service

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/repository"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// categoryService implements CategoryService interface
type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create creates a new category.
func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*domain.Category, error) {
	if !slugRegex.MatchString(req.Slug) {
		return nil, apperr.BadRequest("slug must be lowercase letters, digits, and hyphens")
	}

	c := &domain.Category{
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.categoryRepo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateCategory) {
			return nil, apperr.Conflict("category with this name or slug already exists")
		}
		return nil, apperr.Internal("failed to create category", err)
	}

	s.logger.Info("category created", zap.String("category_id", c.ID), zap.String("slug", c.Slug))

	return c, nil
}

// List returns all categories.
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}

	if categories == nil {
		categories = []*domain.Category{}
	}

	return categories, nil
}

// Delete deletes a category. Events and gallery items that referenced it are
// left uncategorized.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Internal("failed to delete category", err)
	}

	s.logger.Info("category deleted", zap.String("category_id", id))

	return nil
}
