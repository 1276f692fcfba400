package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/repository"
	"onboarding_backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseCreateRequest struct {
	Title                 string         `json:"title" validate:"required,max=255"`
	Description           string         `json:"description"`
	Modules               []model.Module `json:"modules" validate:"required,min=1"`
	IsActive              *bool          `json:"isActive"`
	AvailableToAll        bool           `json:"availableToAll"`
	CertificateEnabled    bool           `json:"certificateEnabled"`
	CertificateTemplateID *string        `json:"certificateTemplateId"`
	CertificateFileURL    string         `json:"certificateFileUrl"`
}

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	TemplateRepo *repository.DocumentTemplateRepository
	Prober       VideoProber

	validate *validator.Validate
}

// NewCourseService prober 可为 nil，此时视频时长以客户端上报为准
func NewCourseService(courseRepo *repository.CourseRepository, templateRepo *repository.DocumentTemplateRepository, prober VideoProber) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		TemplateRepo: templateRepo,
		Prober:       prober,
		validate:     validator.New(),
	}
}

func (s *CourseService) Create(ctx context.Context, req CourseCreateRequest) (*model.Course, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	modules := make([]model.Module, len(req.Modules))
	for i, m := range req.Modules {
		if m.ID == "" {
			m.ID = "module_" + model.GenerateUUID()
		}
		if video, ok := m.Content.(model.VideoContent); ok && video.DurationSeconds == 0 {
			video.DurationSeconds = s.probe(ctx, video.URL)
			m.Content = video
		}
		modules[i] = m
	}

	course := &model.Course{
		Title:                 strings.TrimSpace(req.Title),
		Description:           req.Description,
		Modules:               modules,
		IsActive:              req.IsActive == nil || *req.IsActive,
		AvailableToAll:        req.AvailableToAll,
		CertificateEnabled:    req.CertificateEnabled,
		CertificateTemplateID: req.CertificateTemplateID,
		CertificateFileURL:    req.CertificateFileURL,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, progression.PersistenceErr("create course", err)
	}

	logger.Log.Info("course created",
		zap.String("courseId", course.ID),
		zap.Int("modules", len(course.Modules)))
	return course, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, progression.NotFoundf("course %s not found", id)
	}
	if err != nil {
		return nil, progression.PersistenceErr("load course", err)
	}
	return course, nil
}

func (s *CourseService) List(ctx context.Context, activeOnly bool) ([]model.Course, error) {
	courses, err := s.CourseRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, progression.PersistenceErr("list courses", err)
	}
	return courses, nil
}

func (s *CourseService) validateRequest(ctx context.Context, req CourseCreateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return progression.Invalidf("%s", err.Error())
	}
	if strings.TrimSpace(req.Title) == "" {
		return progression.Invalidf("title is required")
	}

	seen := make(map[string]bool, len(req.Modules))
	for i, m := range req.Modules {
		if m.Content == nil {
			return progression.Invalidf("module %d has no content", i)
		}
		if m.ID != "" {
			if seen[m.ID] {
				return progression.Invalidf("duplicate module id %q", m.ID)
			}
			seen[m.ID] = true
		}
		if strings.TrimSpace(m.Title) == "" {
			return progression.Invalidf("module %d title is required", i)
		}
		if err := s.validate.Struct(m.Content); err != nil {
			return progression.Invalidf("module %d: %s", i, err.Error())
		}
		switch c := m.Content.(type) {
		case model.ReadingContent:
			if c.URL == "" && c.HTML == "" {
				return progression.Invalidf("module %d: reading needs reading_url or reading_content", i)
			}
		case model.QuizContent:
			for qi, q := range c.Questions {
				if q.CorrectAnswer >= len(q.Options) {
					return progression.Invalidf("module %d question %d: correct_answer %d outside %d options", i, qi, q.CorrectAnswer, len(q.Options))
				}
			}
		}
	}

	if req.CertificateTemplateID != nil && *req.CertificateTemplateID != "" && req.CertificateFileURL != "" {
		return progression.Invalidf("certificate template and certificate file are mutually exclusive")
	}
	if req.CertificateEnabled && (req.CertificateTemplateID == nil || *req.CertificateTemplateID == "") && req.CertificateFileURL == "" {
		return progression.Invalidf("certificate enabled but no template or file given")
	}
	if req.CertificateTemplateID != nil && *req.CertificateTemplateID != "" {
		if _, err := s.TemplateRepo.FindByID(ctx, *req.CertificateTemplateID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return progression.NotFoundf("document template %s not found", *req.CertificateTemplateID)
			}
			return progression.PersistenceErr("load document template", err)
		}
	}
	return nil
}

// probe 探测失败只记录日志，时长留空
func (s *CourseService) probe(ctx context.Context, url string) float64 {
	if s.Prober == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	d, err := s.Prober.ProbeDuration(ctx, url)
	if err != nil {
		logger.Log.Warn("video duration probe failed", zap.String("url", url), zap.Error(err))
		return 0
	}
	logger.Log.Debug("video duration probed", zap.String("url", url), zap.Float64("seconds", d))
	return d
}
