package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siolabs/learnhub-api/internal/dto"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
	"github.com/siolabs/learnhub-api/pkg/response"
)

type sessionService interface {
	Upcoming(ctx context.Context, userID string, days int) (*dto.SessionListResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionDetailResponse, error)
	ListByCourse(ctx context.Context, userID, courseID string) (*dto.SessionListResponse, error)
}

// SessionHandler wires the live-session schedule to HTTP endpoints.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Upcoming godoc
// @Summary Upcoming sessions across enrolled courses
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (default 7)"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) Upcoming(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days must be a non-negative integer"))
			return
		}
		days = parsed
	}
	resp, err := h.service.Upcoming(c.Request.Context(), claims.UserID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Get godoc
// @Summary Session detail
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.GetSession(c.Request.Context(), claims.UserID, c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// ListByCourse godoc
// @Summary Sessions scheduled for a course
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/sessions [get]
func (h *SessionHandler) ListByCourse(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.service.ListByCourse(c.Request.Context(), claims.UserID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
