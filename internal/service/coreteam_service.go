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

// coreTeamService implements CoreTeamService interface
type coreTeamService struct {
	coreTeamRepo repository.CoreTeamRepository
	imageStore   ImageStore
	logger       *zap.Logger
}

// NewCoreTeamService creates a new core team service
func NewCoreTeamService(coreTeamRepo repository.CoreTeamRepository, imageStore ImageStore, logger *zap.Logger) CoreTeamService {
	return &coreTeamService{
		coreTeamRepo: coreTeamRepo,
		imageStore:   imageStore,
		logger:       logger,
	}
}

// Create creates a new core team card.
func (s *coreTeamService) Create(ctx context.Context, req *dto.CreateCoreTeamMemberRequest) (*domain.CoreTeamMember, error) {
	photoURL, err := s.imageStore.Persist(ctx, "team", req.Photo)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	m := &domain.CoreTeamMember{
		UserID:       req.UserID,
		Name:         req.Name,
		Position:     req.Position,
		Bio:          req.Bio,
		PhotoURL:     photoURL,
		LinkedinURL:  req.LinkedinURL,
		GithubURL:    req.GithubURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     active,
	}

	if err := s.coreTeamRepo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperr.BadRequest("unknown user")
		}
		return nil, apperr.Internal("failed to create core team member", err)
	}

	s.logger.Info("core team member created", zap.String("member_id", m.ID))

	return m, nil
}

// List returns core team cards in display order.
func (s *coreTeamService) List(ctx context.Context, includeInactive bool) ([]*domain.CoreTeamMember, error) {
	members, err := s.coreTeamRepo.List(ctx, !includeInactive)
	if err != nil {
		return nil, apperr.Internal("failed to list core team members", err)
	}

	if members == nil {
		members = []*domain.CoreTeamMember{}
	}

	return members, nil
}

// Update merges non-nil fields into a core team card.
func (s *coreTeamService) Update(ctx context.Context, id string, req *dto.UpdateCoreTeamMemberRequest) (*domain.CoreTeamMember, error) {
	m, err := s.coreTeamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("core team member not found")
		}
		return nil, apperr.Internal("failed to get core team member", err)
	}

	if req.UserID != nil {
		m.UserID = req.UserID
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Position != nil {
		m.Position = *req.Position
	}
	if req.Bio != nil {
		m.Bio = *req.Bio
	}
	if req.LinkedinURL != nil {
		m.LinkedinURL = *req.LinkedinURL
	}
	if req.GithubURL != nil {
		m.GithubURL = *req.GithubURL
	}
	if req.DisplayOrder != nil {
		m.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if req.Photo != nil {
		url, err := s.imageStore.Persist(ctx, "team", *req.Photo)
		if err != nil {
			return nil, err
		}
		m.PhotoURL = url
	}

	if err := s.coreTeamRepo.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperr.BadRequest("unknown user")
		}
		return nil, apperr.Internal("failed to update core team member", err)
	}

	return m, nil
}

// Delete deletes a core team card.
func (s *coreTeamService) Delete(ctx context.Context, id string) error {
	if err := s.coreTeamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("core team member not found")
		}
		return apperr.Internal("failed to delete core team member", err)
	}

	s.logger.Info("core team member deleted", zap.String("member_id", id))

	return nil
}
