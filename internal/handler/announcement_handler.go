package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
)

// AnnouncementHandler handles announcement requests
type AnnouncementHandler struct {
	announcementService service.AnnouncementService
	logger              *zap.Logger
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(announcementService service.AnnouncementService, logger *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		logger:              logger,
	}
}

// List returns a paginated announcement listing, pinned first.
func (h *AnnouncementHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	claims, _ := claimsFromContext(c)

	resp, err := h.announcementService.List(c.Request.Context(), &q, isStaff(claims))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a single announcement.
func (h *AnnouncementHandler) Get(c *gin.Context) {
	a, err := h.announcementService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	claims, _ := claimsFromContext(c)
	if !a.IsPublished && !isStaff(claims) {
		respondError(c, h.logger, apperr.NotFound("announcement not found"))
		return
	}

	c.JSON(http.StatusOK, a)
}

// Create creates a new announcement.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	a, err := h.announcementService.Create(c.Request.Context(), claims, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// Update applies a partial update to an announcement.
func (h *AnnouncementHandler) Update(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	a, err := h.announcementService.Update(c.Request.Context(), claims, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// Delete deletes an announcement.
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	if err := h.announcementService.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Announcement deleted",
	})
}
