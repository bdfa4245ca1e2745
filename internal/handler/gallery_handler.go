package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
)

// GalleryHandler handles gallery requests
type GalleryHandler struct {
	galleryService service.GalleryService
	logger         *zap.Logger
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryService service.GalleryService, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		logger:         logger,
	}
}

// List returns a paginated gallery listing.
func (h *GalleryHandler) List(c *gin.Context) {
	var q dto.GalleryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.galleryService.List(c.Request.Context(), &q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a single gallery item.
func (h *GalleryHandler) Get(c *gin.Context) {
	item, err := h.galleryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Create uploads a new gallery item.
func (h *GalleryHandler) Create(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.CreateGalleryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.galleryService.Create(c.Request.Context(), claims, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update applies a partial update to a gallery item.
func (h *GalleryHandler) Update(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	var req dto.UpdateGalleryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.galleryService.Update(c.Request.Context(), claims, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete deletes a gallery item.
func (h *GalleryHandler) Delete(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	if err := h.galleryService.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Gallery item deleted",
	})
}
