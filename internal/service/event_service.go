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

// eventService implements EventService interface
type eventService struct {
	eventRepo  repository.EventRepository
	imageStore ImageStore
	logger     *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository, imageStore ImageStore, logger *zap.Logger) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		imageStore: imageStore,
		logger:     logger,
	}
}

// Create creates a new event owned by the actor.
func (s *eventService) Create(ctx context.Context, actor *domain.AccessClaims, req *dto.CreateEventRequest) (*domain.Event, error) {
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, apperr.BadRequest("event cannot end before it starts")
	}

	imageURL, err := s.imageStore.Persist(ctx, "events", req.Image)
	if err != nil {
		return nil, err
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		ImageURL:    imageURL,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		CreatedBy:   actor.UserID,
		IsPublished: published,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperr.BadRequest("unknown category")
		}
		return nil, apperr.Internal("failed to create event", err)
	}

	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("created_by", actor.UserID))

	return s.eventRepo.GetByID(ctx, event.ID)
}

// Get retrieves a single event.
func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, apperr.Internal("failed to get event", err)
	}

	return event, nil
}

// List returns a filtered, paginated event listing. Unpublished events are
// visible only to staff callers.
func (s *eventService) List(ctx context.Context, q *dto.EventListQuery, includeUnpublished bool) (*dto.EventListResponse, error) {
	filter := repository.EventFilter{
		Offset:        q.Offset(),
		Limit:         q.Limit,
		CategorySlug:  q.Category,
		UpcomingOnly:  q.Upcoming,
		Search:        q.Search,
		PublishedOnly: !includeUnpublished,
	}

	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to list events", err)
	}

	if events == nil {
		events = []*domain.Event{}
	}

	return &dto.EventListResponse{
		Events:     events,
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Update merges non-nil fields into an event. Only the owner or an admin may
// update.
func (s *eventService) Update(ctx context.Context, actor *domain.AccessClaims, id string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(actor, event.CreatedBy); err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if req.CategoryID != nil {
		event.CategoryID = req.CategoryID
	}
	if req.Tags != nil {
		event.Tags = *req.Tags
	}
	if req.IsPublished != nil {
		event.IsPublished = *req.IsPublished
	}
	if req.Image != nil {
		url, err := s.imageStore.Persist(ctx, "events", *req.Image)
		if err != nil {
			return nil, err
		}
		event.ImageURL = url
	}

	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return nil, apperr.BadRequest("event cannot end before it starts")
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperr.BadRequest("unknown category")
		}
		return nil, apperr.Internal("failed to update event", err)
	}

	return s.eventRepo.GetByID(ctx, event.ID)
}

// Delete deletes an event. Only the owner or an admin may delete.
func (s *eventService) Delete(ctx context.Context, actor *domain.AccessClaims, id string) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := requireOwnerOrAdmin(actor, event.CreatedBy); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return apperr.Internal("failed to delete event", err)
	}

	s.logger.Info("event deleted", zap.String("event_id", id), zap.String("deleted_by", actor.UserID))

	return nil
}

// requireOwnerOrAdmin rejects actors who neither own the resource nor hold
// the admin role.
func requireOwnerOrAdmin(actor *domain.AccessClaims, ownerID string) error {
	if actor.Role == domain.RoleAdmin || actor.UserID == ownerID {
		return nil
	}
	return apperr.Forbidden("you can only modify your own resources")
}
