package acceptance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
)

func (s *Suite) staffCookies(name, email string) []*http.Cookie {
	s.register(name, email, "Password123")
	s.promote(email, "core")

	// Re-login so the access token carries the updated role claim.
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "Password123",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return resp.Cookies()
}

func (s *Suite) adminCookies(name, email string) []*http.Cookie {
	s.register(name, email, "Password123")
	s.promote(email, "admin")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "Password123",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return resp.Cookies()
}

func (s *Suite) createEvent(cookies []*http.Cookie, req dto.CreateEventRequest) *domain.Event {
	resp := s.request("POST", "/api/v1/events", req, cookies)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var event domain.Event
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&event))
	return &event
}

func (s *Suite) TestEvents_MemberCannotCreate() {
	_, cookies := s.register("Plain Member", "member@example.com", "Password123")

	resp := s.request("POST", "/api/v1/events", dto.CreateEventRequest{
		Title:    "Not Allowed",
		StartsAt: time.Now().Add(24 * time.Hour),
	}, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("member", errResp.Current)
	s.Contains(errResp.Required, "core")
}

func (s *Suite) TestEvents_CreateAndGet() {
	cookies := s.staffCookies("Event Staff", "eventstaff@example.com")

	starts := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	event := s.createEvent(cookies, dto.CreateEventRequest{
		Title:       "Hack Night",
		Description: "Monthly hack night",
		Location:    "Room 101",
		StartsAt:    starts,
		Tags:        []string{"coding", "social"},
	})

	s.NotEmpty(event.ID)
	s.Equal("Hack Night", event.Title)
	s.True(event.IsPublished)
	s.ElementsMatch([]string{"coding", "social"}, event.Tags)

	resp := s.request("GET", "/api/v1/events/"+event.ID, nil, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var fetched domain.Event
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&fetched))
	s.Equal(event.ID, fetched.ID)
	s.Equal("Room 101", fetched.Location)
}

func (s *Suite) TestEvents_EndsBeforeStarts() {
	cookies := s.staffCookies("Bad Dates", "baddates@example.com")

	starts := time.Now().Add(48 * time.Hour)
	ends := starts.Add(-time.Hour)
	resp := s.request("POST", "/api/v1/events", dto.CreateEventRequest{
		Title:    "Backwards",
		StartsAt: starts,
		EndsAt:   &ends,
	}, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestEvents_UnpublishedHiddenFromPublic() {
	cookies := s.staffCookies("Draft Staff", "draftstaff@example.com")

	published := false
	event := s.createEvent(cookies, dto.CreateEventRequest{
		Title:       "Secret Planning",
		StartsAt:    time.Now().Add(72 * time.Hour),
		IsPublished: &published,
	})

	// Anonymous get is a 404, staff get succeeds.
	resp := s.request("GET", "/api/v1/events/"+event.ID, nil, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	staffResp := s.request("GET", "/api/v1/events/"+event.ID, nil, cookies)
	defer staffResp.Body.Close()
	s.Equal(http.StatusOK, staffResp.StatusCode)

	// Anonymous listing omits the draft.
	listResp := s.request("GET", "/api/v1/events", nil, nil)
	defer listResp.Body.Close()
	s.Equal(http.StatusOK, listResp.StatusCode)

	var listing dto.EventListResponse
	s.Require().NoError(json.NewDecoder(listResp.Body).Decode(&listing))
	for _, e := range listing.Events {
		s.NotEqual(event.ID, e.ID)
	}
}

func (s *Suite) TestEvents_ListFiltersByCategory() {
	admin := s.adminCookies("Cat Admin", "catadmin@example.com")

	catResp := s.request("POST", "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Workshops",
		Slug: "workshops",
	}, admin)
	defer catResp.Body.Close()
	s.Require().Equal(http.StatusCreated, catResp.StatusCode)

	var category domain.Category
	s.Require().NoError(json.NewDecoder(catResp.Body).Decode(&category))

	s.createEvent(admin, dto.CreateEventRequest{
		Title:      "Go Workshop",
		StartsAt:   time.Now().Add(24 * time.Hour),
		CategoryID: &category.ID,
	})
	s.createEvent(admin, dto.CreateEventRequest{
		Title:    "Movie Night",
		StartsAt: time.Now().Add(24 * time.Hour),
	})

	resp := s.request("GET", "/api/v1/events?category=workshops", nil, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var listing dto.EventListResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&listing))
	s.Require().Len(listing.Events, 1)
	s.Equal("Go Workshop", listing.Events[0].Title)
	s.Require().NotNil(listing.Events[0].Category)
	s.Equal("workshops", listing.Events[0].Category.Slug)
	s.Equal(1, listing.Pagination.Total)
}

func (s *Suite) TestEvents_UpdateAndDelete() {
	cookies := s.staffCookies("Editor", "editor@example.com")

	event := s.createEvent(cookies, dto.CreateEventRequest{
		Title:    "Original Title",
		StartsAt: time.Now().Add(24 * time.Hour),
	})

	title := "Updated Title"
	updateResp := s.request("PUT", "/api/v1/events/"+event.ID, dto.UpdateEventRequest{
		Title: &title,
	}, cookies)
	defer updateResp.Body.Close()
	s.Equal(http.StatusOK, updateResp.StatusCode)

	var updated domain.Event
	s.Require().NoError(json.NewDecoder(updateResp.Body).Decode(&updated))
	s.Equal("Updated Title", updated.Title)

	deleteResp := s.request("DELETE", "/api/v1/events/"+event.ID, nil, cookies)
	defer deleteResp.Body.Close()
	s.Equal(http.StatusOK, deleteResp.StatusCode)

	getResp := s.request("GET", "/api/v1/events/"+event.ID, nil, cookies)
	defer getResp.Body.Close()
	s.Equal(http.StatusNotFound, getResp.StatusCode)
}

func (s *Suite) TestEvents_OwnerOnlyUpdate() {
	owner := s.staffCookies("Owner Staff", "owner@example.com")
	other := s.staffCookies("Other Staff", "other@example.com")

	event := s.createEvent(owner, dto.CreateEventRequest{
		Title:    "Owned Event",
		StartsAt: time.Now().Add(24 * time.Hour),
	})

	title := "Hijacked"
	resp := s.request("PUT", "/api/v1/events/"+event.ID, dto.UpdateEventRequest{
		Title: &title,
	}, other)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)

	// An admin can edit anyone's event.
	admin := s.adminCookies("Admin Editor", "admineditor@example.com")
	adminResp := s.request("PUT", "/api/v1/events/"+event.ID, dto.UpdateEventRequest{
		Title: &title,
	}, admin)
	defer adminResp.Body.Close()

	s.Equal(http.StatusOK, adminResp.StatusCode)
}

func (s *Suite) TestAnnouncements_PinnedSortFirst() {
	cookies := s.staffCookies("Announcer", "announcer@example.com")

	first := s.request("POST", "/api/v1/announcements", dto.CreateAnnouncementRequest{
		Title: "Regular Notice",
		Body:  "Nothing urgent",
	}, cookies)
	first.Body.Close()
	s.Require().Equal(http.StatusCreated, first.StatusCode)

	second := s.request("POST", "/api/v1/announcements", dto.CreateAnnouncementRequest{
		Title:  "Pinned Notice",
		Body:   "Read this first",
		Pinned: true,
	}, cookies)
	second.Body.Close()
	s.Require().Equal(http.StatusCreated, second.StatusCode)

	resp := s.request("GET", "/api/v1/announcements", nil, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var listing dto.AnnouncementListResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&listing))
	s.Require().Len(listing.Announcements, 2)
	s.Equal("Pinned Notice", listing.Announcements[0].Title)
	s.True(listing.Announcements[0].Pinned)
}

func (s *Suite) TestGallery_CreateAndList() {
	cookies := s.staffCookies("Photographer", "photos@example.com")

	resp := s.request("POST", "/api/v1/gallery", dto.CreateGalleryItemRequest{
		Title:   "Opening Day",
		Image:   "https://cdn.example.com/opening.jpg",
		Caption: "The first meetup",
	}, cookies)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var item domain.GalleryItem
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&item))
	s.Equal("https://cdn.example.com/opening.jpg", item.ImageURL)

	listResp := s.request("GET", "/api/v1/gallery", nil, nil)
	defer listResp.Body.Close()
	s.Equal(http.StatusOK, listResp.StatusCode)

	var listing dto.GalleryListResponse
	s.Require().NoError(json.NewDecoder(listResp.Body).Decode(&listing))
	s.Require().Len(listing.Items, 1)
	s.Equal("Opening Day", listing.Items[0].Title)
}

func (s *Suite) TestGallery_InlineImageRejectedWhenStoreDisabled() {
	cookies := s.staffCookies("Inline Photographer", "inline@example.com")

	resp := s.request("POST", "/api/v1/gallery", dto.CreateGalleryItemRequest{
		Title: "Inline Upload",
		Image: "data:image/png;base64,iVBORw0KGgo=",
	}, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestCoreTeam_AdminOnly() {
	staff := s.staffCookies("Core Staff", "corestaff@example.com")

	resp := s.request("POST", "/api/v1/core-team", dto.CreateCoreTeamMemberRequest{
		Name:     "Jordan",
		Position: "President",
	}, staff)
	defer resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	admin := s.adminCookies("Core Admin", "coreadmin@example.com")
	createResp := s.request("POST", "/api/v1/core-team", dto.CreateCoreTeamMemberRequest{
		Name:     "Jordan",
		Position: "President",
	}, admin)
	defer createResp.Body.Close()
	s.Equal(http.StatusCreated, createResp.StatusCode)
}

func (s *Suite) TestCoreTeam_InactiveHiddenFromPublic() {
	admin := s.adminCookies("Roster Admin", "roster@example.com")

	inactive := false
	resp := s.request("POST", "/api/v1/core-team", dto.CreateCoreTeamMemberRequest{
		Name:     "Alumni Member",
		Position: "Former Lead",
		IsActive: &inactive,
	}, admin)
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	activeResp := s.request("POST", "/api/v1/core-team", dto.CreateCoreTeamMemberRequest{
		Name:     "Current Member",
		Position: "Lead",
	}, admin)
	activeResp.Body.Close()
	s.Require().Equal(http.StatusCreated, activeResp.StatusCode)

	publicResp := s.request("GET", "/api/v1/core-team", nil, nil)
	defer publicResp.Body.Close()
	s.Equal(http.StatusOK, publicResp.StatusCode)

	var publicListing struct {
		Members []*domain.CoreTeamMember `json:"members"`
	}
	s.Require().NoError(json.NewDecoder(publicResp.Body).Decode(&publicListing))
	s.Require().Len(publicListing.Members, 1)
	s.Equal("Current Member", publicListing.Members[0].Name)

	adminResp := s.request("GET", "/api/v1/core-team", nil, admin)
	defer adminResp.Body.Close()

	var adminListing struct {
		Members []*domain.CoreTeamMember `json:"members"`
	}
	s.Require().NoError(json.NewDecoder(adminResp.Body).Decode(&adminListing))
	s.Len(adminListing.Members, 2)
}

func (s *Suite) TestCategories_DuplicateSlug() {
	admin := s.adminCookies("Slug Admin", "slugadmin@example.com")

	first := s.request("POST", "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Socials",
		Slug: "socials",
	}, admin)
	first.Body.Close()
	s.Require().Equal(http.StatusCreated, first.StatusCode)

	second := s.request("POST", "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Other Socials",
		Slug: "socials",
	}, admin)
	defer second.Body.Close()

	s.Equal(http.StatusConflict, second.StatusCode)
}

func (s *Suite) TestCategories_InvalidSlug() {
	admin := s.adminCookies("Invalid Slug Admin", "invalidslug@example.com")

	resp := s.request("POST", "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Bad Slug",
		Slug: "Bad Slug!",
	}, admin)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestCategories_DeleteKeepsEvents() {
	admin := s.adminCookies("Delete Admin", "deleteadmin@example.com")

	catResp := s.request("POST", "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Ephemeral",
		Slug: "ephemeral",
	}, admin)
	defer catResp.Body.Close()
	s.Require().Equal(http.StatusCreated, catResp.StatusCode)

	var category domain.Category
	s.Require().NoError(json.NewDecoder(catResp.Body).Decode(&category))

	event := s.createEvent(admin, dto.CreateEventRequest{
		Title:      "Categorized Event",
		StartsAt:   time.Now().Add(24 * time.Hour),
		CategoryID: &category.ID,
	})

	deleteResp := s.request("DELETE", "/api/v1/categories/"+category.ID, nil, admin)
	defer deleteResp.Body.Close()
	s.Equal(http.StatusOK, deleteResp.StatusCode)

	getResp := s.request("GET", "/api/v1/events/"+event.ID, nil, nil)
	defer getResp.Body.Close()
	s.Equal(http.StatusOK, getResp.StatusCode)

	var fetched domain.Event
	s.Require().NoError(json.NewDecoder(getResp.Body).Decode(&fetched))
	s.Nil(fetched.CategoryID)
}
