package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siolabs/learnhub-api/internal/dto"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
	"github.com/siolabs/learnhub-api/pkg/response"
)

type courseService interface {
	ListEnrolled(ctx context.Context, userID string) (*dto.CourseListResponse, error)
	GetCourse(ctx context.Context, userID, courseID string) (*dto.CourseDetailResponse, error)
	GetModule(ctx context.Context, userID, moduleID string) (*dto.ModuleDetailResponse, error)
}

// CourseHandler wires the course catalogue to HTTP endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary List enrolled courses with progress
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.ListEnrolled(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Get godoc
// @Summary Course detail with per-module progress
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.GetCourse(c.Request.Context(), claims.UserID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// GetModule godoc
// @Summary Module detail with lesson completion flags
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Router /modules/{moduleId} [get]
func (h *CourseHandler) GetModule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.GetModule(c.Request.Context(), claims.UserID, c.Param("moduleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
