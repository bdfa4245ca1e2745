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

// announcementService implements AnnouncementService interface
type announcementService struct {
	announcementRepo repository.AnnouncementRepository
	imageStore       ImageStore
	logger           *zap.Logger
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, imageStore ImageStore, logger *zap.Logger) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		imageStore:       imageStore,
		logger:           logger,
	}
}

// Create creates a new announcement owned by the actor.
func (s *announcementService) Create(ctx context.Context, actor *domain.AccessClaims, req *dto.CreateAnnouncementRequest) (*domain.Announcement, error) {
	imageURL, err := s.imageStore.Persist(ctx, "announcements", req.Image)
	if err != nil {
		return nil, err
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	a := &domain.Announcement{
		Title:       req.Title,
		Body:        req.Body,
		Pinned:      req.Pinned,
		ImageURL:    imageURL,
		CreatedBy:   actor.UserID,
		IsPublished: published,
	}

	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, apperr.Internal("failed to create announcement", err)
	}

	s.logger.Info("announcement created", zap.String("announcement_id", a.ID), zap.String("created_by", actor.UserID))

	return a, nil
}

// Get retrieves a single announcement.
func (s *announcementService) Get(ctx context.Context, id string) (*domain.Announcement, error) {
	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("announcement not found")
		}
		return nil, apperr.Internal("failed to get announcement", err)
	}

	return a, nil
}

// List returns a paginated announcement listing, pinned first.
func (s *announcementService) List(ctx context.Context, q *dto.ListQuery, includeUnpublished bool) (*dto.AnnouncementListResponse, error) {
	announcements, total, err := s.announcementRepo.List(ctx, q.Offset(), q.Limit, !includeUnpublished)
	if err != nil {
		return nil, apperr.Internal("failed to list announcements", err)
	}

	if announcements == nil {
		announcements = []*domain.Announcement{}
	}

	return &dto.AnnouncementListResponse{
		Announcements: announcements,
		Pagination:    dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Update merges non-nil fields into an announcement. Only the owner or an
// admin may update.
func (s *announcementService) Update(ctx context.Context, actor *domain.AccessClaims, id string, req *dto.UpdateAnnouncementRequest) (*domain.Announcement, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(actor, a.CreatedBy); err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Body != nil {
		a.Body = *req.Body
	}
	if req.Pinned != nil {
		a.Pinned = *req.Pinned
	}
	if req.IsPublished != nil {
		a.IsPublished = *req.IsPublished
	}
	if req.Image != nil {
		url, err := s.imageStore.Persist(ctx, "announcements", *req.Image)
		if err != nil {
			return nil, err
		}
		a.ImageURL = url
	}

	if err := s.announcementRepo.Update(ctx, a); err != nil {
		return nil, apperr.Internal("failed to update announcement", err)
	}

	return a, nil
}

// Delete deletes an announcement. Only the owner or an admin may delete.
func (s *announcementService) Delete(ctx context.Context, actor *domain.AccessClaims, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := requireOwnerOrAdmin(actor, a.CreatedBy); err != nil {
		return err
	}

	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		return apperr.Internal("failed to delete announcement", err)
	}

	s.logger.Info("announcement deleted", zap.String("announcement_id", id), zap.String("deleted_by", actor.UserID))

	return nil
}
