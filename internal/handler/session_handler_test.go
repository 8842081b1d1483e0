package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/siolabs/learnhub-api/internal/dto"
	"github.com/siolabs/learnhub-api/internal/middleware"
	"github.com/siolabs/learnhub-api/internal/models"
	appErrors "github.com/siolabs/learnhub-api/pkg/errors"
)

type sessionServiceMock struct {
	listResp  *dto.SessionListResponse
	listErr   error
	getResp   *dto.SessionDetailResponse
	getErr    error
	lastDays   int
	lastWanted string
}

func (m *sessionServiceMock) Upcoming(ctx context.Context, userID string, days int) (*dto.SessionListResponse, error) {
	m.lastDays = days
	return m.listResp, m.listErr
}

func (m *sessionServiceMock) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionDetailResponse, error) {
	m.lastWanted = sessionID
	return m.getResp, m.getErr
}

func (m *sessionServiceMock) ListByCourse(ctx context.Context, userID, courseID string) (*dto.SessionListResponse, error) {
	m.lastWanted = courseID
	return m.listResp, m.listErr
}

func TestSessionHandlerUpcoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &sessionServiceMock{listResp: &dto.SessionListResponse{Sessions: []dto.SessionSummary{{ID: "s1"}}}}
	handler := NewSessionHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/sessions?days=14", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.Upcoming(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 14, mockSvc.lastDays)

	var envelope struct {
		Success bool                    `json:"success"`
		Data    dto.SessionListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Sessions, 1)
}

func TestSessionHandlerUpcomingBadDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&sessionServiceMock{})

	for _, days := range []string{"-3", "abc"} {
		c, w := newGinContext(http.MethodGet, "/sessions?days="+days, nil)
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

		handler.Upcoming(c)
		require.Equal(t, http.StatusBadRequest, w.Code, "days=%s", days)
	}
}

func TestSessionHandlerUpcomingOmittedDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &sessionServiceMock{listResp: &dto.SessionListResponse{Sessions: []dto.SessionSummary{}}}
	handler := NewSessionHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/sessions", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.Upcoming(c)
	require.Equal(t, http.StatusOK, w.Code)
	// Zero signals "use the configured default window".
	require.Equal(t, 0, mockSvc.lastDays)
}

func TestSessionHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &sessionServiceMock{getResp: &dto.SessionDetailResponse{Session: dto.SessionSummary{ID: "s1"}}}
	handler := NewSessionHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/sessions/s1", nil)
	c.Params = gin.Params{{Key: "sessionId", Value: "s1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "s1", mockSvc.lastWanted)
}

func TestSessionHandlerListByCourseForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &sessionServiceMock{listErr: appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this course")}
	handler := NewSessionHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/courses/c1/sessions", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "c1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.ListByCourse(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}
