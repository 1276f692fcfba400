package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/repository"
	"onboarding_backend/pkg/logger"
	"onboarding_backend/pkg/monitoring"
	"onboarding_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseProgressionService 课程进度引擎：门控判定、进度持久化、报名状态流转与证书发放
type CourseProgressionService struct {
	DB             *gorm.DB
	CourseRepo     *repository.CourseRepository
	AssignmentRepo *repository.AssignmentRepository
	ProgressRepo   *repository.ModuleProgressRepository
	Certificates   *CertificateService
	Sessions       GateSessionStore

	rules atomic.Pointer[progression.Rules]
	locks *keyedMutex
	now   func() time.Time
}

func NewCourseProgressionService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	assignmentRepo *repository.AssignmentRepository,
	progressRepo *repository.ModuleProgressRepository,
	certificates *CertificateService,
	sessions GateSessionStore,
	rules progression.Rules,
) *CourseProgressionService {
	s := &CourseProgressionService{
		DB:             db,
		CourseRepo:     courseRepo,
		AssignmentRepo: assignmentRepo,
		ProgressRepo:   progressRepo,
		Certificates:   certificates,
		Sessions:       sessions,
		locks:          newKeyedMutex(),
		now:            time.Now,
	}
	s.SetRules(rules)
	return s
}

// SetRules 替换判定阈值，对之后的上报生效
func (s *CourseProgressionService) SetRules(r progression.Rules) {
	s.rules.Store(&r)
}

func (s *CourseProgressionService) Rules() progression.Rules {
	return *s.rules.Load()
}

type ModuleView struct {
	Module     model.Module            `json:"module"`
	State      progression.ModuleState `json:"state"`
	Progress   *model.ModuleProgress   `json:"progress,omitempty"`
	Assignment *model.CourseAssignment `json:"assignment"`
	Sequence   progression.Sequence    `json:"sequence"`
	Session    *GateSession            `json:"session,omitempty"`
}

type VideoProgressResult struct {
	progression.VideoReport
	Progress   *model.ModuleProgress   `json:"progress,omitempty"`
	Assignment *model.CourseAssignment `json:"assignment"`
}

type ReadingProgressResult struct {
	progression.ReadingReport
	Progress   *model.ModuleProgress   `json:"progress,omitempty"`
	Assignment *model.CourseAssignment `json:"assignment"`
}

type QuizSubmitResult struct {
	Grade      *progression.QuizGrade  `json:"grade"`
	Attempt    int                     `json:"attempt"`
	Progress   *model.ModuleProgress   `json:"progress"`
	Assignment *model.CourseAssignment `json:"assignment"`
}

type ProgressView struct {
	Assignment   *model.CourseAssignment `json:"assignment"`
	Sequence     progression.Sequence    `json:"sequence"`
	Records      []model.ModuleProgress  `json:"records"`
	QuizAttempts []model.QuizAttempt     `json:"quizAttempts"`
	NextModuleID string                  `json:"nextModuleId,omitempty"`
}

// assignmentState 一次操作开始时从存储重新读取的快照
type assignmentState struct {
	assignment *model.CourseAssignment
	course     *model.Course
	records    []model.ModuleProgress
	seq        progression.Sequence
}

func (st *assignmentState) record(moduleID string) *model.ModuleProgress {
	for i := range st.records {
		if st.records[i].ModuleID == moduleID {
			r := st.records[i]
			return &r
		}
	}
	return nil
}

func storeErr(op string, err error, notFound string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return progression.NotFoundf(notFound, args...)
	}
	return progression.PersistenceErr(op, err)
}

func (s *CourseProgressionService) load(ctx context.Context, employeeID, assignmentID string) (*assignmentState, error) {
	assignment, err := s.AssignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, storeErr("load assignment", err, "assignment %s not found", assignmentID)
	}
	// 他人的报名按不存在处理
	if assignment.EmployeeID != employeeID {
		return nil, progression.NotFoundf("assignment %s not found", assignmentID)
	}

	course, err := s.CourseRepo.FindByID(ctx, assignment.CourseID)
	if err != nil {
		return nil, storeErr("load course", err, "course %s not found", assignment.CourseID)
	}

	records, err := s.ProgressRepo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, progression.PersistenceErr("load module progress", err)
	}

	return &assignmentState{
		assignment: assignment,
		course:     course,
		records:    records,
		seq:        progression.BuildSequence(course.Modules, records),
	}, nil
}

// accessModule 查找模块并校验解锁状态
func (st *assignmentState) accessModule(moduleID string) (model.Module, error) {
	idx := st.course.ModuleIndex(moduleID)
	if idx < 0 {
		return model.Module{}, progression.NotFoundf("module %s not found in course %s", moduleID, st.course.ID)
	}
	if err := progression.CheckAccess(st.seq, moduleID); err != nil {
		return model.Module{}, err
	}
	return st.course.Modules[idx], nil
}

func (s *CourseProgressionService) startSpan(ctx context.Context, name, assignmentID, moduleID string) (context.Context, trace.Span) {
	return tracing.Tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("assignment.id", assignmentID),
		attribute.String("module.id", moduleID),
	))
}

// OpenModule 进入模块：校验归属与解锁，not_started 转为 in_progress，并开启或恢复门控会话
func (s *CourseProgressionService) OpenModule(ctx context.Context, employeeID, assignmentID, moduleID string) (view *ModuleView, err error) {
	ctx, span := s.startSpan(ctx, "progression.OpenModule", assignmentID, moduleID)
	defer func() { tracing.RecordError(span, err); span.End() }()

	unlock := s.locks.Lock(assignmentID)
	defer unlock()

	st, err := s.load(ctx, employeeID, assignmentID)
	if err != nil {
		return nil, err
	}
	module, err := st.accessModule(moduleID)
	if err != nil {
		return nil, err
	}

	assignment := *st.assignment
	if assignment.Status != model.AssignmentCompleted {
		changed := false
		if assignment.Status == model.AssignmentNotStarted {
			assignment.Status = model.AssignmentInProgress
			changed = true
		}
		if assignment.CurrentModuleID == nil || *assignment.CurrentModuleID != moduleID {
			id := moduleID
			assignment.CurrentModuleID = &id
			changed = true
		}
		if changed {
			if err := s.AssignmentRepo.Save(ctx, &assignment); err != nil {
				return nil, progression.PersistenceErr("start assignment", err)
			}
		}
	}

	view = &ModuleView{
		Module:     module,
		Assignment: &assignment,
		Progress:   st.record(moduleID),
		Sequence:   st.seq,
	}
	view.State, _ = st.seq.State(moduleID)

	if module.Type() == model.ModuleVideo || module.Type() == model.ModuleReading {
		session, err := s.session(ctx, assignmentID, module)
		if err != nil {
			return nil, err
		}
		if err := s.Sessions.Save(ctx, session); err != nil {
			return nil, progression.PersistenceErr("open gate session", err)
		}
		view.Session = session
	}
	return view, nil
}

// session 取出已有会话，类型不符或不存在时新建
func (s *CourseProgressionService) session(ctx context.Context, assignmentID string, module model.Module) (*GateSession, error) {
	existing, err := s.Sessions.Get(ctx, assignmentID, module.ID)
	if err != nil {
		return nil, progression.PersistenceErr("load gate session", err)
	}
	now := s.now()
	if existing != nil && existing.ModuleType == module.Type() {
		existing.UpdatedAt = now
		return existing, nil
	}

	session := &GateSession{
		AssignmentID: assignmentID,
		ModuleID:     module.ID,
		ModuleType:   module.Type(),
		OpenedAt:     now,
		UpdatedAt:    now,
	}
	switch c := module.Content.(type) {
	case model.VideoContent:
		session.Video = &progression.VideoState{DurationSeconds: c.DurationSeconds}
	case model.ReadingContent:
		session.Reading = &progression.ReadingState{}
	}
	return session, nil
}

func (s *CourseProgressionService) ReportVideoProgress(ctx context.Context, employeeID, assignmentID, moduleID string, playedSeconds, durationSeconds float64) (result *VideoProgressResult, err error) {
	ctx, span := s.startSpan(ctx, "progression.ReportVideoProgress", assignmentID, moduleID)
	defer func() { tracing.RecordError(span, err); span.End() }()

	unlock := s.locks.Lock(assignmentID)
	defer unlock()

	st, err := s.load(ctx, employeeID, assignmentID)
	if err != nil {
		return nil, err
	}
	module, err := st.accessModule(moduleID)
	if err != nil {
		return nil, err
	}
	video, ok := module.Content.(model.VideoContent)
	if !ok {
		return nil, progression.Invalidf("module %s is a %s module, not video", moduleID, module.Type())
	}

	existing := st.record(moduleID)
	if existing != nil && existing.Completed {
		return &VideoProgressResult{
			VideoReport: progression.VideoReport{Completed: true, WatchedPct: 100},
			Progress:    existing,
			Assignment:  st.assignment,
		}, nil
	}

	session, err := s.session(ctx, assignmentID, module)
	if err != nil {
		return nil, err
	}
	gate := progression.RestoreVideoGate(s.Rules(), *session.Video, video.DurationSeconds)
	report, err := gate.ReportProgress(playedSeconds, durationSeconds)
	if err != nil {
		return nil, err
	}

	result = &VideoProgressResult{VideoReport: report, Progress: existing, Assignment: st.assignment}
	if report.SeekTo != nil {
		monitoring.SeekRejections.Inc()
		logger.Log.Debug("video seek rejected",
			zap.String("assignmentId", assignmentID),
			zap.String("moduleId", moduleID),
			zap.Float64("played", playedSeconds),
			zap.Float64("seekTo", *report.SeekTo))
		return result, nil
	}

	// 先保存门控状态，持久化失败时可按同样的上报重试
	state := gate.State()
	session.Video = &state
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, progression.PersistenceErr("save gate session", err)
	}
	if !report.Completed {
		return result, nil
	}

	progress, assignment, err := s.persist(ctx, st, module, completeModule, nil)
	if err != nil {
		return nil, err
	}
	s.closeSession(ctx, assignmentID, moduleID)

	result.Progress = progress
	result.Assignment = assignment
	return result, nil
}

func (s *CourseProgressionService) ReportReadingScroll(ctx context.Context, employeeID, assignmentID, moduleID string, scrollTop, scrollHeight, clientHeight float64) (result *ReadingProgressResult, err error) {
	ctx, span := s.startSpan(ctx, "progression.ReportReadingScroll", assignmentID, moduleID)
	defer func() { tracing.RecordError(span, err); span.End() }()

	unlock := s.locks.Lock(assignmentID)
	defer unlock()

	st, err := s.load(ctx, employeeID, assignmentID)
	if err != nil {
		return nil, err
	}
	module, err := st.accessModule(moduleID)
	if err != nil {
		return nil, err
	}
	if module.Type() != model.ModuleReading {
		return nil, progression.Invalidf("module %s is a %s module, not reading", moduleID, module.Type())
	}

	existing := st.record(moduleID)
	if existing != nil && existing.Completed {
		return &ReadingProgressResult{
			ReadingReport: progression.ReadingReport{ProgressPct: 100, Completed: true},
			Progress:      existing,
			Assignment:    st.assignment,
		}, nil
	}

	session, err := s.session(ctx, assignmentID, module)
	if err != nil {
		return nil, err
	}
	gate := progression.RestoreReadingGate(s.Rules(), *session.Reading)
	report, err := gate.ReportScroll(scrollTop, scrollHeight, clientHeight)
	if err != nil {
		return nil, err
	}

	state := gate.State()
	session.Reading = &state
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, progression.PersistenceErr("save gate session", err)
	}

	result = &ReadingProgressResult{ReadingReport: report, Progress: existing, Assignment: st.assignment}
	if !report.Completed {
		return result, nil
	}

	progress, assignment, err := s.persist(ctx, st, module, completeModule, nil)
	if err != nil {
		return nil, err
	}
	s.closeSession(ctx, assignmentID, moduleID)

	result.Progress = progress
	result.Assignment = assignment
	return result, nil
}

// SubmitQuiz 评分并记录一次提交；未通过可无限重试，通过后模块保持完成
func (s *CourseProgressionService) SubmitQuiz(ctx context.Context, employeeID, assignmentID, moduleID string, answers map[int]int) (result *QuizSubmitResult, err error) {
	ctx, span := s.startSpan(ctx, "progression.SubmitQuiz", assignmentID, moduleID)
	defer func() { tracing.RecordError(span, err); span.End() }()

	unlock := s.locks.Lock(assignmentID)
	defer unlock()

	st, err := s.load(ctx, employeeID, assignmentID)
	if err != nil {
		return nil, err
	}
	module, err := st.accessModule(moduleID)
	if err != nil {
		return nil, err
	}
	quiz, ok := module.Content.(model.QuizContent)
	if !ok {
		return nil, progression.Invalidf("module %s is a %s module, not quiz", moduleID, module.Type())
	}

	grade, err := progression.Grade(answers, quiz)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		AssignmentID:  assignmentID,
		ModuleID:      moduleID,
		Score:         grade.ScorePct,
		CorrectCount:  grade.CorrectCount,
		QuestionCount: grade.QuestionCount,
		Passed:        grade.Passed,
		Answers:       datatypes.NewJSONType(model.QuizAnswers(answers)),
	}

	apply := func(rec *model.ModuleProgress, now time.Time) {
		score := grade.ScorePct
		passed := grade.Passed
		rec.QuizScore = &score
		rec.QuizPassed = &passed
		if passed {
			completeModule(rec, now)
		}
	}

	progress, assignment, err := s.persist(ctx, st, module, apply, attempt)
	if err != nil {
		return nil, err
	}

	label := "failed"
	if grade.Passed {
		label = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(label).Inc()

	return &QuizSubmitResult{
		Grade:      grade,
		Attempt:    progress.QuizAttempts,
		Progress:   progress,
		Assignment: assignment,
	}, nil
}

// CloseSession 放弃当前门控会话，已持久化的进度不受影响
func (s *CourseProgressionService) CloseSession(ctx context.Context, employeeID, assignmentID, moduleID string) error {
	unlock := s.locks.Lock(assignmentID)
	defer unlock()

	st, err := s.load(ctx, employeeID, assignmentID)
	if err != nil {
		return err
	}
	if st.course.ModuleIndex(moduleID) < 0 {
		return progression.NotFoundf("module %s not found in course %s", moduleID, st.course.ID)
	}
	if err := s.Sessions.Delete(ctx, assignmentID, moduleID); err != nil {
		return progression.PersistenceErr("close gate session", err)
	}
	return nil
}

func (s *CourseProgressionService) GetProgress(ctx context.Context, employeeID, assignmentID string) (*ProgressView, error) {
	st, err := s.load(ctx, employeeID, assignmentID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.ProgressRepo.ListAttempts(ctx, st.assignment.ID)
	if err != nil {
		return nil, progression.PersistenceErr("list quiz attempts", err)
	}
	return &ProgressView{
		Assignment:   st.assignment,
		Sequence:     st.seq,
		Records:      st.records,
		QuizAttempts: attempts,
		NextModuleID: progression.NextModule(st.seq),
	}, nil
}

func (s *CourseProgressionService) closeSession(ctx context.Context, assignmentID, moduleID string) {
	if err := s.Sessions.Delete(ctx, assignmentID, moduleID); err != nil {
		logger.Log.Warn("failed to drop gate session",
			zap.String("assignmentId", assignmentID),
			zap.String("moduleId", moduleID),
			zap.Error(err))
	}
}

func completeModule(rec *model.ModuleProgress, now time.Time) {
	if rec.Completed {
		return
	}
	rec.Completed = true
	rec.ProgressPercentage = 100
	rec.CompletedDate = &now
}

// persist 在一个事务内写入模块进度、测验记录与报名状态。
// 失败时 st 中的报名与记录保持不变
func (s *CourseProgressionService) persist(
	ctx context.Context,
	st *assignmentState,
	module model.Module,
	apply func(rec *model.ModuleProgress, now time.Time),
	attempt *model.QuizAttempt,
) (*model.ModuleProgress, *model.CourseAssignment, error) {
	now := s.now()

	rec := st.record(module.ID)
	if rec == nil {
		rec = &model.ModuleProgress{
			AssignmentID: st.assignment.ID,
			EmployeeID:   st.assignment.EmployeeID,
			CourseID:     st.course.ID,
			ModuleID:     module.ID,
			ModuleType:   module.Type(),
		}
	}
	wasCompleted := rec.Completed
	apply(rec, now)
	newlyCompleted := rec.Completed && !wasCompleted

	after := make([]model.ModuleProgress, 0, len(st.records)+1)
	replaced := false
	for _, r := range st.records {
		if r.ModuleID == module.ID {
			after = append(after, *rec)
			replaced = true
			continue
		}
		after = append(after, r)
	}
	if !replaced {
		after = append(after, *rec)
	}

	assignment := *st.assignment
	changed := s.advance(&assignment, st.course, after, module.ID, now)

	// 证书地址在事务外解析
	if changed && assignment.Status == model.AssignmentCompleted {
		url, err := s.Certificates.Resolve(ctx, st.course)
		if err != nil {
			monitoring.PersistenceFailures.WithLabelValues("resolve_certificate").Inc()
			return nil, nil, err
		}
		assignment.CertificateURL = url
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ProgressRepo.WithTx(tx).Upsert(ctx, rec); err != nil {
			return err
		}
		if attempt != nil {
			n, err := s.ProgressRepo.WithTx(tx).IncrementAttempts(ctx, rec.ID)
			if err != nil {
				return err
			}
			rec.QuizAttempts = n
			attempt.AttemptNumber = n
			attempt.SubmittedAt = now
			if err := s.ProgressRepo.WithTx(tx).CreateAttempt(ctx, attempt); err != nil {
				return err
			}
		}
		if changed {
			if err := s.AssignmentRepo.WithTx(tx).Save(ctx, &assignment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		monitoring.PersistenceFailures.WithLabelValues("save_progress").Inc()
		logger.Log.Error("failed to persist module progress",
			zap.String("assignmentId", st.assignment.ID),
			zap.String("moduleId", module.ID),
			zap.Error(err))
		return nil, nil, progression.PersistenceErr("save module progress", err)
	}

	if newlyCompleted {
		monitoring.ModuleCompletions.WithLabelValues(string(module.Type())).Inc()
		logger.Log.Info("module completed",
			zap.String("assignmentId", assignment.ID),
			zap.String("employeeId", assignment.EmployeeID),
			zap.String("moduleId", module.ID),
			zap.Int("coursePercentage", assignment.ProgressPercentage))
	}
	if changed && assignment.Status == model.AssignmentCompleted {
		monitoring.CourseCompletions.Inc()
		logger.Log.Info("course completed",
			zap.String("assignmentId", assignment.ID),
			zap.String("employeeId", assignment.EmployeeID),
			zap.Bool("certificate", assignment.CertificateURL != nil))
	}

	return rec, &assignment, nil
}

// advance 按写入后的记录重算百分比、当前模块与状态；已完成的报名不再变化
func (s *CourseProgressionService) advance(a *model.CourseAssignment, course *model.Course, records []model.ModuleProgress, moduleID string, now time.Time) bool {
	if a.Status == model.AssignmentCompleted {
		return false
	}

	seq := progression.BuildSequence(course.Modules, records)
	current := moduleID

	changed := false
	if a.ProgressPercentage != seq.Percentage {
		a.ProgressPercentage = seq.Percentage
		changed = true
	}
	if a.CurrentModuleID == nil || *a.CurrentModuleID != current {
		a.CurrentModuleID = &current
		changed = true
	}
	if a.Status == model.AssignmentNotStarted {
		a.Status = model.AssignmentInProgress
		changed = true
	}
	if seq.Percentage == 100 {
		a.Status = model.AssignmentCompleted
		a.CompletedDate = &now
		changed = true
	}
	return changed
}
