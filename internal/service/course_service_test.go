package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProber struct {
	mock.Mock
}

func (m *mockProber) ProbeDuration(ctx context.Context, videoURL string) (float64, error) {
	args := m.Called(ctx, videoURL)
	return args.Get(0).(float64), args.Error(1)
}

func newCourseService(t *testing.T, prober VideoProber) (*CourseService, *repository.DocumentTemplateRepository) {
	db := setupTestDB(t)
	templates := repository.NewDocumentTemplateRepository(db)
	return NewCourseService(repository.NewCourseRepository(db), templates, prober), templates
}

func validCourseRequest() CourseCreateRequest {
	return CourseCreateRequest{
		Title: "Security basics",
		Modules: []model.Module{
			{Title: "Intro", Content: model.VideoContent{URL: "/uploads/videos/intro.mp4"}},
			{ID: "policy", Title: "Policy", Content: model.ReadingContent{URL: "https://wiki.example.com/policy"}},
			{ID: "check", Title: "Check", Content: fourQuestions(70)},
		},
	}
}

func TestCourseService_Create(t *testing.T) {
	prober := new(mockProber)
	prober.On("ProbeDuration", mock.Anything, "/uploads/videos/intro.mp4").Return(183.5, nil).Once()
	svc, _ := newCourseService(t, prober)
	ctx := context.Background()

	course, err := svc.Create(ctx, validCourseRequest())
	require.NoError(t, err)
	prober.AssertExpectations(t)

	assert.True(t, course.IsActive)
	require.Len(t, course.Modules, 3)
	assert.True(t, strings.HasPrefix(course.Modules[0].ID, "module_"))
	assert.Equal(t, "policy", course.Modules[1].ID)
	video := course.Modules[0].Content.(model.VideoContent)
	assert.Equal(t, 183.5, video.DurationSeconds)

	stored, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, stored.Modules, 3)
	assert.Equal(t, model.ModuleQuiz, stored.Modules[2].Type())
	assert.Equal(t, 183.5, stored.Modules[0].Content.(model.VideoContent).DurationSeconds)
}

func TestCourseService_ProbeFailureKeepsCourse(t *testing.T) {
	prober := new(mockProber)
	prober.On("ProbeDuration", mock.Anything, mock.Anything).Return(0.0, errors.New("ffprobe not installed"))
	svc, _ := newCourseService(t, prober)

	course, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)
	assert.Equal(t, 0.0, course.Modules[0].Content.(model.VideoContent).DurationSeconds)
}

func TestCourseService_CreateValidation(t *testing.T) {
	svc, _ := newCourseService(t, nil)
	ctx := context.Background()
	tpl := "tpl-1"

	tests := []struct {
		name   string
		mutate func(*CourseCreateRequest)
	}{
		{"missing title", func(r *CourseCreateRequest) { r.Title = "  " }},
		{"no modules", func(r *CourseCreateRequest) { r.Modules = nil }},
		{"duplicate ids", func(r *CourseCreateRequest) { r.Modules[2].ID = "policy" }},
		{"module without content", func(r *CourseCreateRequest) { r.Modules[0].Content = nil }},
		{"video without url", func(r *CourseCreateRequest) { r.Modules[0].Content = model.VideoContent{} }},
		{"empty reading", func(r *CourseCreateRequest) { r.Modules[1].Content = model.ReadingContent{} }},
		{"quiz without questions", func(r *CourseCreateRequest) { r.Modules[2].Content = model.QuizContent{PassingScore: 70} }},
		{"passing score above 100", func(r *CourseCreateRequest) {
			q := fourQuestions(70)
			q.PassingScore = 120
			r.Modules[2].Content = q
		}},
		{"single option", func(r *CourseCreateRequest) {
			q := fourQuestions(70)
			q.Questions[0].Options = []string{"only"}
			r.Modules[2].Content = q
		}},
		{"correct answer outside options", func(r *CourseCreateRequest) {
			q := fourQuestions(70)
			q.Questions[1].CorrectAnswer = 3
			r.Modules[2].Content = q
		}},
		{"both certificate sources", func(r *CourseCreateRequest) {
			r.CertificateEnabled = true
			r.CertificateTemplateID = &tpl
			r.CertificateFileURL = "certificates/c.pdf"
		}},
		{"certificate without source", func(r *CourseCreateRequest) { r.CertificateEnabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCourseRequest()
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, progression.ErrInvalidInput)
		})
	}
}

func TestCourseService_CertificateTemplateMustExist(t *testing.T) {
	svc, templates := newCourseService(t, nil)
	ctx := context.Background()

	missing := "nope"
	req := validCourseRequest()
	req.CertificateEnabled = true
	req.CertificateTemplateID = &missing
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, progression.ErrNotFound)

	tpl := &model.DocumentTemplate{Name: "Cert", TemplateFileURL: "templates/c.pdf"}
	require.NoError(t, templates.Create(ctx, tpl))
	req.CertificateTemplateID = &tpl.ID
	course, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, model.TemplateRef{TemplateID: tpl.ID}, course.CertificateSource())
}

func TestCourseService_GetNotFound(t *testing.T) {
	svc, _ := newCourseService(t, nil)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, progression.ErrNotFound)
}
