package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siolabs/learnhub-api/internal/dto"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
	"github.com/siolabs/learnhub-api/pkg/response"
)

type progressService interface {
	Overview(ctx context.Context, userID string) (*dto.ProgressOverview, error)
	CourseDetail(ctx context.Context, userID, courseID string) (*dto.CourseProgressDetail, error)
}

// ProgressHandler wires progress aggregation to HTTP endpoints.
type ProgressHandler struct {
	service progressService
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(service progressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// Overview godoc
// @Summary Progress overview across all enrolled courses
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /progress [get]
func (h *ProgressHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.Overview(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// CourseDetail godoc
// @Summary Detailed per-lesson progress for a course
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /progress/courses/{courseId} [get]
func (h *ProgressHandler) CourseDetail(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.CourseDetail(c.Request.Context(), claims.UserID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
