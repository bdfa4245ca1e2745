package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/repository"
)

// fakeEventRepo is an in-memory EventRepository.
type fakeEventRepo struct {
	events map[string]*domain.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.nextID++
	event.ID = fmt.Sprintf("event-%d", r.nextID)
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeEventRepo) List(_ context.Context, filter repository.EventFilter) ([]*domain.Event, int, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if filter.PublishedOnly && !e.IsPublished {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func staffClaims(userID string) *domain.AccessClaims {
	return &domain.AccessClaims{UserID: userID, Role: domain.RoleCore}
}

func adminClaims(userID string) *domain.AccessClaims {
	return &domain.AccessClaims{UserID: userID, Role: domain.RoleAdmin}
}

func TestEventCreate(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, NewDisabledImageStore(), zap.NewNop())

	starts := time.Now().Add(24 * time.Hour)
	event, err := svc.Create(context.Background(), staffClaims("u-1"), &dto.CreateEventRequest{
		Title:    "Hack Night",
		StartsAt: starts,
		Tags:     []string{"coding"},
	})
	require.NoError(t, err)

	assert.Equal(t, "u-1", event.CreatedBy)
	assert.True(t, event.IsPublished, "events default to published")
	assert.Equal(t, []string{"coding"}, event.Tags)
}

func TestEventCreate_EndsBeforeStarts(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), NewDisabledImageStore(), zap.NewNop())

	starts := time.Now().Add(24 * time.Hour)
	ends := starts.Add(-time.Hour)
	_, err := svc.Create(context.Background(), staffClaims("u-1"), &dto.CreateEventRequest{
		Title:    "Backwards",
		StartsAt: starts,
		EndsAt:   &ends,
	})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestEventUpdate_OwnerOrAdminOnly(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, NewDisabledImageStore(), zap.NewNop())

	event, err := svc.Create(context.Background(), staffClaims("owner"), &dto.CreateEventRequest{
		Title:    "Owned",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	title := "Renamed"

	// Another staff member is rejected.
	_, err = svc.Update(context.Background(), staffClaims("intruder"), event.ID, &dto.UpdateEventRequest{Title: &title})
	assertStatus(t, err, http.StatusForbidden)

	// The owner may update.
	updated, err := svc.Update(context.Background(), staffClaims("owner"), event.ID, &dto.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	// So may an admin who does not own it.
	title2 := "Admin Renamed"
	updated, err = svc.Update(context.Background(), adminClaims("someone-else"), event.ID, &dto.UpdateEventRequest{Title: &title2})
	require.NoError(t, err)
	assert.Equal(t, "Admin Renamed", updated.Title)
}

func TestEventUpdate_DatesRevalidated(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, NewDisabledImageStore(), zap.NewNop())

	starts := time.Now().Add(24 * time.Hour)
	event, err := svc.Create(context.Background(), staffClaims("u-1"), &dto.CreateEventRequest{
		Title:    "Shifting",
		StartsAt: starts,
	})
	require.NoError(t, err)

	ends := starts.Add(-time.Hour)
	_, err = svc.Update(context.Background(), staffClaims("u-1"), event.ID, &dto.UpdateEventRequest{EndsAt: &ends})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestEventDelete_OwnerOnly(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, NewDisabledImageStore(), zap.NewNop())

	event, err := svc.Create(context.Background(), staffClaims("owner"), &dto.CreateEventRequest{
		Title:    "Doomed",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), staffClaims("intruder"), event.ID)
	assertStatus(t, err, http.StatusForbidden)

	require.NoError(t, svc.Delete(context.Background(), staffClaims("owner"), event.ID))

	_, err = svc.Get(context.Background(), event.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestEventList_HidesUnpublishedFromPublic(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, NewDisabledImageStore(), zap.NewNop())

	published := false
	_, err := svc.Create(context.Background(), staffClaims("u-1"), &dto.CreateEventRequest{
		Title:       "Draft",
		StartsAt:    time.Now().Add(24 * time.Hour),
		IsPublished: &published,
	})
	require.NoError(t, err)

	q := &dto.EventListQuery{ListQuery: dto.ListQuery{Page: 1, Limit: 10}}

	public, err := svc.List(context.Background(), q, false)
	require.NoError(t, err)
	assert.Empty(t, public.Events)
	assert.NotNil(t, public.Events, "empty listing serializes as [] not null")

	staff, err := svc.List(context.Background(), q, true)
	require.NoError(t, err)
	assert.Len(t, staff.Events, 1)
}
