package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"onboarding_backend/internal/config"
	"onboarding_backend/internal/middleware"
	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/service"
	"onboarding_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret-0123456789abcdef"

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) OpenModule(ctx context.Context, employeeID, assignmentID, moduleID string) (*service.ModuleView, error) {
	args := m.Called(employeeID, assignmentID, moduleID)
	view, _ := args.Get(0).(*service.ModuleView)
	return view, args.Error(1)
}

func (m *mockEngine) ReportVideoProgress(ctx context.Context, employeeID, assignmentID, moduleID string, played, duration float64) (*service.VideoProgressResult, error) {
	args := m.Called(employeeID, assignmentID, moduleID, played, duration)
	res, _ := args.Get(0).(*service.VideoProgressResult)
	return res, args.Error(1)
}

func (m *mockEngine) ReportReadingScroll(ctx context.Context, employeeID, assignmentID, moduleID string, top, height, client float64) (*service.ReadingProgressResult, error) {
	args := m.Called(employeeID, assignmentID, moduleID, top, height, client)
	res, _ := args.Get(0).(*service.ReadingProgressResult)
	return res, args.Error(1)
}

func (m *mockEngine) SubmitQuiz(ctx context.Context, employeeID, assignmentID, moduleID string, answers map[int]int) (*service.QuizSubmitResult, error) {
	args := m.Called(employeeID, assignmentID, moduleID, answers)
	res, _ := args.Get(0).(*service.QuizSubmitResult)
	return res, args.Error(1)
}

func (m *mockEngine) CloseSession(ctx context.Context, employeeID, assignmentID, moduleID string) error {
	return m.Called(employeeID, assignmentID, moduleID).Error(0)
}

func (m *mockEngine) GetProgress(ctx context.Context, employeeID, assignmentID string) (*service.ProgressView, error) {
	args := m.Called(employeeID, assignmentID)
	view, _ := args.Get(0).(*service.ProgressView)
	return view, args.Error(1)
}

type mockEnrollments struct {
	mock.Mock
}

func (m *mockEnrollments) ListMine(ctx context.Context, employeeID string) ([]model.CourseAssignment, error) {
	args := m.Called(employeeID)
	list, _ := args.Get(0).([]model.CourseAssignment)
	return list, args.Error(1)
}

func (m *mockEnrollments) Enroll(ctx context.Context, employeeID, courseID string) (*model.CourseAssignment, error) {
	args := m.Called(employeeID, courseID)
	a, _ := args.Get(0).(*model.CourseAssignment)
	return a, args.Error(1)
}

func setupRouter(engine *mockEngine, enrollments *mockEnrollments) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	c := NewTrainingController(engine, enrollments)

	r := gin.New()
	api := r.Group("/api", middleware.AuthMiddleware(cfg))
	api.GET("/training/assignments", c.ListAssignments)
	api.POST("/training/courses/:courseId/enroll", c.Enroll)
	api.GET("/training/assignments/:assignmentId/progress", c.GetProgress)
	m := api.Group("/training/assignments/:assignmentId/modules/:moduleId")
	m.POST("/open", c.OpenModule)
	m.POST("/video-progress", c.ReportVideoProgress)
	m.POST("/reading-progress", c.ReportReadingProgress)
	m.POST("/quiz", c.SubmitQuiz)
	m.DELETE("/session", c.CloseSession)

	admin := api.Group("/admin", middleware.RoleMiddleware(model.RoleHR))
	admin.GET("/ping", func(ctx *gin.Context) { util.Success(ctx, "pong") })
	return r
}

func token(t *testing.T, employeeID string, role model.Role) string {
	t.Helper()
	tok, err := util.GenerateJWT(employeeID, role, employeeID+"@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, r *gin.Engine, method, path, auth string, body any) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestTrainingRoutesRequireToken(t *testing.T) {
	r := setupRouter(new(mockEngine), new(mockEnrollments))

	w, _ := do(t, r, http.MethodGet, "/api/training/assignments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/training/assignments", "Bearer not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOpenLockedModuleReturnsRedirect(t *testing.T) {
	engine := new(mockEngine)
	engine.On("OpenModule", "emp-1", "a1", "m3").
		Return(nil, &progression.LockedError{ModuleID: "m3", RedirectModuleID: "m2"})
	r := setupRouter(engine, new(mockEnrollments))

	w, resp := do(t, r, http.MethodPost, "/api/training/assignments/a1/modules/m3/open", token(t, "emp-1", model.RoleEmployee), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "m3", data["moduleId"])
	assert.Equal(t, "m2", data["redirectModuleId"])
	engine.AssertExpectations(t)
}

func TestReportVideoProgressPassesSample(t *testing.T) {
	engine := new(mockEngine)
	seek := 10.0
	engine.On("ReportVideoProgress", "emp-1", "a1", "m1", 30.0, 100.0).
		Return(&service.VideoProgressResult{VideoReport: progression.VideoReport{SeekTo: &seek}}, nil)
	r := setupRouter(engine, new(mockEnrollments))

	w, _ := do(t, r, http.MethodPost, "/api/training/assignments/a1/modules/m1/video-progress",
		token(t, "emp-1", model.RoleEmployee), gin.H{"played_seconds": 30, "duration_seconds": 100})

	assert.Equal(t, http.StatusOK, w.Code)
	engine.AssertExpectations(t)
}

func TestReportVideoProgressRequiresPlayedSeconds(t *testing.T) {
	engine := new(mockEngine)
	r := setupRouter(engine, new(mockEnrollments))

	w, _ := do(t, r, http.MethodPost, "/api/training/assignments/a1/modules/m1/video-progress",
		token(t, "emp-1", model.RoleEmployee), gin.H{"duration_seconds": 100})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	engine.AssertNotCalled(t, "ReportVideoProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadingProgressZeroScrollTopAccepted(t *testing.T) {
	engine := new(mockEngine)
	engine.On("ReportReadingScroll", "emp-1", "a1", "m2", 0.0, 2000.0, 800.0).
		Return(&service.ReadingProgressResult{}, nil)
	r := setupRouter(engine, new(mockEnrollments))

	w, _ := do(t, r, http.MethodPost, "/api/training/assignments/a1/modules/m2/reading-progress",
		token(t, "emp-1", model.RoleEmployee), gin.H{"scroll_top": 0, "scroll_height": 2000, "client_height": 800})

	assert.Equal(t, http.StatusOK, w.Code)
	engine.AssertExpectations(t)
}

func TestSubmitQuizDecodesAnswerKeys(t *testing.T) {
	engine := new(mockEngine)
	engine.On("SubmitQuiz", "emp-1", "a1", "m3", map[int]int{0: 1, 2: 3}).
		Return(&service.QuizSubmitResult{Attempt: 1}, nil)
	r := setupRouter(engine, new(mockEnrollments))

	w, _ := do(t, r, http.MethodPost, "/api/training/assignments/a1/modules/m3/quiz",
		token(t, "emp-1", model.RoleEmployee), gin.H{"answers": gin.H{"0": 1, "2": 3}})

	assert.Equal(t, http.StatusOK, w.Code)
	engine.AssertExpectations(t)
}

func TestEngineErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid", progression.Invalidf("played seconds must be finite"), http.StatusBadRequest},
		{"not found", progression.NotFoundf("assignment a1"), http.StatusNotFound},
		{"persistence", progression.PersistenceErr("save progress", errors.New("connection reset")), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := new(mockEngine)
			engine.On("GetProgress", "emp-1", "a1").Return(nil, tc.err)
			r := setupRouter(engine, new(mockEnrollments))

			w, _ := do(t, r, http.MethodGet, "/api/training/assignments/a1/progress", token(t, "emp-1", model.RoleEmployee), nil)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestCloseSessionAndEnroll(t *testing.T) {
	engine := new(mockEngine)
	engine.On("CloseSession", "emp-1", "a1", "m1").Return(nil)
	enrollments := new(mockEnrollments)
	enrollments.On("Enroll", "emp-1", "c1").Return(&model.CourseAssignment{CourseID: "c1", EmployeeID: "emp-1"}, nil)
	r := setupRouter(engine, enrollments)
	auth := token(t, "emp-1", model.RoleEmployee)

	w, _ := do(t, r, http.MethodDelete, "/api/training/assignments/a1/modules/m1/session", auth, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/training/courses/c1/enroll", auth, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	engine.AssertExpectations(t)
	enrollments.AssertExpectations(t)
}

func TestAdminRoutesCheckRole(t *testing.T) {
	r := setupRouter(new(mockEngine), new(mockEnrollments))

	w, _ := do(t, r, http.MethodGet, "/api/admin/ping", token(t, "emp-1", model.RoleEmployee), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/admin/ping", token(t, "hr-1", model.RoleHR), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/admin/ping", token(t, "root", model.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
