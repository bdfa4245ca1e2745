package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
)

// EventHandler handles event requests
type EventHandler struct {
	eventService service.EventService
	logger       *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// List returns a filtered, paginated event listing. Staff callers also see
// unpublished events.
func (h *EventHandler) List(c *gin.Context) {
	var q dto.EventListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	claims, _ := claimsFromContext(c)

	resp, err := h.eventService.List(c.Request.Context(), &q, isStaff(claims))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a single event.
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	claims, _ := claimsFromContext(c)
	if !event.IsPublished && !isStaff(claims) {
		respondError(c, h.logger, apperr.NotFound("event not found"))
		return
	}

	c.JSON(http.StatusOK, event)
}

// Create creates a new event.
func (h *EventHandler) Create(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), claims, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Update applies a partial update to an event.
func (h *EventHandler) Update(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), claims, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete deletes an event.
func (h *EventHandler) Delete(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	if err := h.eventService.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Event deleted",
	})
}
