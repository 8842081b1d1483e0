package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siolabs/learnhub-api/internal/dto"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
	"github.com/siolabs/learnhub-api/pkg/response"
)

type lessonService interface {
	GetLesson(ctx context.Context, userID, lessonID string) (*dto.LessonDetailResponse, error)
	Complete(ctx context.Context, userID, lessonID string) (*dto.CompleteLessonResponse, error)
	RecordVideoPosition(ctx context.Context, userID, lessonID string, req dto.VideoProgressRequest) error
}

// LessonHandler wires the lesson player to HTTP endpoints.
type LessonHandler struct {
	service lessonService
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(service lessonService) *LessonHandler {
	return &LessonHandler{service: service}
}

// Get godoc
// @Summary Lesson detail with resources and navigation
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{lessonId} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.GetLesson(c.Request.Context(), claims.UserID, c.Param("lessonId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Complete godoc
// @Summary Mark a lesson completed
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{lessonId}/complete [post]
func (h *LessonHandler) Complete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.Complete(c.Request.Context(), claims.UserID, c.Param("lessonId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// VideoProgress godoc
// @Summary Record video playback position
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Param payload body dto.VideoProgressRequest true "Playback position"
// @Success 200 {object} response.Envelope
// @Router /lessons/{lessonId}/video-progress [put]
func (h *LessonHandler) VideoProgress(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.VideoProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.service.RecordVideoPosition(c.Request.Context(), claims.UserID, c.Param("lessonId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AckResponse{Success: true})
}
