package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/dto"
	"github.com/studorg/portal-api/internal/service"
)

// CoreTeamHandler handles core team card requests
type CoreTeamHandler struct {
	coreTeamService service.CoreTeamService
	logger          *zap.Logger
}

// NewCoreTeamHandler creates a new core team handler
func NewCoreTeamHandler(coreTeamService service.CoreTeamService, logger *zap.Logger) *CoreTeamHandler {
	return &CoreTeamHandler{
		coreTeamService: coreTeamService,
		logger:          logger,
	}
}

// List returns core team cards in display order. Admins also see inactive
// cards.
func (h *CoreTeamHandler) List(c *gin.Context) {
	claims, _ := claimsFromContext(c)
	includeInactive := claims != nil && claims.Role == domain.RoleAdmin

	members, err := h.coreTeamService.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Create creates a new core team card.
func (h *CoreTeamHandler) Create(c *gin.Context) {
	var req dto.CreateCoreTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	m, err := h.coreTeamService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// Update applies a partial update to a core team card.
func (h *CoreTeamHandler) Update(c *gin.Context) {
	var req dto.UpdateCoreTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	m, err := h.coreTeamService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// Delete deletes a core team card.
func (h *CoreTeamHandler) Delete(c *gin.Context) {
	if err := h.coreTeamService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Core team member deleted",
	})
}
