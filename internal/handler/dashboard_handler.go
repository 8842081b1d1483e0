package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siolabs/learnhub-api/internal/dto"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
	"github.com/siolabs/learnhub-api/pkg/response"
)

type dashboardService interface {
	Get(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

// DashboardHandler wires the dashboard view to its HTTP endpoint.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get godoc
// @Summary Aggregated dashboard view
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
