package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"onboarding_backend/internal/config"
	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/repository"
	"onboarding_backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每个测试独立的内存库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// failProgressWrites 打开后 module_progresses 的写入全部失败
func failProgressWrites(t *testing.T, db *gorm.DB) *atomic.Bool {
	t.Helper()
	var fail atomic.Bool
	inject := func(tx *gorm.DB) {
		if fail.Load() && tx.Statement.Table == "module_progresses" {
			tx.AddError(errors.New("simulated write failure"))
		}
	}
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_progress_create", inject))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_progress_update", inject))
	return &fail
}

func fourQuestions(passing int) model.QuizContent {
	q := func(text string, correct int) model.Question {
		return model.Question{Question: text, Options: []string{"a", "b", "c"}, CorrectAnswer: correct}
	}
	return model.QuizContent{
		PassingScore: passing,
		Questions:    []model.Question{q("q1", 0), q("q2", 1), q("q3", 2), q("q4", 0)},
	}
}

// 3/4 correct
var passingAnswers = map[int]int{0: 0, 1: 1, 2: 2, 3: 1}

// 2/4 correct
var failingAnswers = map[int]int{0: 0, 1: 1, 2: 0, 3: 1}

func onboardingModules() []model.Module {
	return []model.Module{
		{ID: "m1", Title: "Welcome video", Content: model.VideoContent{URL: "https://cdn.example.com/welcome.mp4", DurationSeconds: 100}},
		{ID: "m2", Title: "Handbook", Content: model.ReadingContent{HTML: "<p>handbook</p>"}},
		{ID: "m3", Title: "Policy quiz", Content: fourQuestions(70)},
	}
}

type fixture struct {
	db          *gorm.DB
	engine      *CourseProgressionService
	sessions    *MemoryGateSessionStore
	assignments *AssignmentService
	templates   *repository.DocumentTemplateRepository
	course      *model.Course
	assignment  *model.CourseAssignment
	employeeID  string
	clock       time.Time
}

type fixtureOption func(*model.Course)

func withStaticCertificate(ref string) fixtureOption {
	return func(c *model.Course) {
		c.CertificateEnabled = true
		c.CertificateFileURL = ref
	}
}

func withTemplateCertificate(templateID string) fixtureOption {
	return func(c *model.Course) {
		c.CertificateEnabled = true
		c.CertificateTemplateID = &templateID
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	ctx := context.Background()
	db := setupTestDB(t)

	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	progressRepo := repository.NewModuleProgressRepository(db)
	templateRepo := repository.NewDocumentTemplateRepository(db)

	storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}}
	certs := NewCertificateService(templateRepo, storage)
	sessions := NewMemoryGateSessionStore(time.Hour)

	course := &model.Course{Title: "Onboarding", Modules: onboardingModules(), IsActive: true}
	for _, opt := range opts {
		opt(course)
	}
	require.NoError(t, courseRepo.Create(ctx, course))

	f := &fixture{
		db:          db,
		engine:      NewCourseProgressionService(db, courseRepo, assignmentRepo, progressRepo, certs, sessions, progression.DefaultRules()),
		sessions:    sessions,
		assignments: NewAssignmentService(assignmentRepo, courseRepo),
		templates:   templateRepo,
		course:      course,
		employeeID:  "emp-1",
		clock:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.engine.now = func() time.Time { return f.clock }

	created, err := f.assignments.Assign(ctx, "hr-1", AssignRequest{CourseID: course.ID, EmployeeIDs: []string{f.employeeID}})
	require.NoError(t, err)
	require.Len(t, created, 1)
	f.assignment = &created[0]
	return f
}

func (f *fixture) reload(t *testing.T) *model.CourseAssignment {
	t.Helper()
	a, err := f.engine.AssignmentRepo.FindByID(context.Background(), f.assignment.ID)
	require.NoError(t, err)
	return a
}

// watchVideo 以 2 秒步长播放到 until，不触发拖动拦截
func (f *fixture) watchVideo(t *testing.T, moduleID string, until float64) *VideoProgressResult {
	t.Helper()
	var last *VideoProgressResult
	for played := 2.0; played <= until; played += 2 {
		res, err := f.engine.ReportVideoProgress(context.Background(), f.employeeID, f.assignment.ID, moduleID, played, 100)
		require.NoError(t, err)
		require.Nil(t, res.SeekTo, "unexpected seek at %v", played)
		last = res
	}
	return last
}

func (f *fixture) completeFirstTwo(t *testing.T) {
	t.Helper()
	res := f.watchVideo(t, "m1", 96)
	require.True(t, res.Completed)
	rr, err := f.engine.ReportReadingScroll(context.Background(), f.employeeID, f.assignment.ID, "m2", 1000, 2000, 1000)
	require.NoError(t, err)
	require.True(t, rr.Completed)
}
