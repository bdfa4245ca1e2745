package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/repository"
)

// galleryService implements GalleryService interface
type galleryService struct {
	galleryRepo repository.GalleryRepository
	imageStore  ImageStore
	logger      *zap.Logger
}

// NewGalleryService creates a new gallery service
func NewGalleryService(galleryRepo repository.GalleryRepository, imageStore ImageStore, logger *zap.Logger) GalleryService {
	return &galleryService{
		galleryRepo: galleryRepo,
		imageStore:  imageStore,
		logger:      logger,
	}
}

// Create uploads a new gallery item owned by the actor.
func (s *galleryService) Create(ctx context.Context, actor *domain.AccessClaims, req *dto.CreateGalleryItemRequest) (*domain.GalleryItem, error) {
	imageURL, err := s.imageStore.Persist(ctx, "gallery", req.Image)
	if err != nil {
		return nil, err
	}

	item := &domain.GalleryItem{
		Title:      req.Title,
		ImageURL:   imageURL,
		Caption:    req.Caption,
		CategoryID: req.CategoryID,
		UploadedBy: actor.UserID,
		TakenAt:    req.TakenAt,
	}

	if err := s.galleryRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperr.BadRequest("unknown category")
		}
		return nil, apperr.Internal("failed to create gallery item", err)
	}

	s.logger.Info("gallery item created", zap.String("item_id", item.ID), zap.String("uploaded_by", actor.UserID))

	return s.galleryRepo.GetByID(ctx, item.ID)
}

// Get retrieves a single gallery item.
func (s *galleryService) Get(ctx context.Context, id string) (*domain.GalleryItem, error) {
	item, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("gallery item not found")
		}
		return nil, apperr.Internal("failed to get gallery item", err)
	}

	return item, nil
}

// List returns a paginated gallery listing, newest first.
func (s *galleryService) List(ctx context.Context, q *dto.GalleryListQuery) (*dto.GalleryListResponse, error) {
	items, total, err := s.galleryRepo.List(ctx, q.Offset(), q.Limit, q.Category)
	if err != nil {
		return nil, apperr.Internal("failed to list gallery items", err)
	}

	if items == nil {
		items = []*domain.GalleryItem{}
	}

	return &dto.GalleryListResponse{
		Items:      items,
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Update merges non-nil fields into a gallery item. Only the uploader or an
// admin may update.
func (s *galleryService) Update(ctx context.Context, actor *domain.AccessClaims, id string, req *dto.UpdateGalleryItemRequest) (*domain.GalleryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(actor, item.UploadedBy); err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Caption != nil {
		item.Caption = *req.Caption
	}
	if req.CategoryID != nil {
		item.CategoryID = req.CategoryID
	}
	if req.TakenAt != nil {
		item.TakenAt = req.TakenAt
	}
	if req.Image != nil {
		url, err := s.imageStore.Persist(ctx, "gallery", *req.Image)
		if err != nil {
			return nil, err
		}
		item.ImageURL = url
	}

	if err := s.galleryRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperr.BadRequest("unknown category")
		}
		return nil, apperr.Internal("failed to update gallery item", err)
	}

	return s.galleryRepo.GetByID(ctx, item.ID)
}

// Delete deletes a gallery item. Only the uploader or an admin may delete.
func (s *galleryService) Delete(ctx context.Context, actor *domain.AccessClaims, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := requireOwnerOrAdmin(actor, item.UploadedBy); err != nil {
		return err
	}

	if err := s.galleryRepo.Delete(ctx, id); err != nil {
		return apperr.Internal("failed to delete gallery item", err)
	}

	s.logger.Info("gallery item deleted", zap.String("item_id", id), zap.String("deleted_by", actor.UserID))

	return nil
}
