package service

import (
	"context"
	"errors"
	"time"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/repository"
	"onboarding_backend/internal/util"
	"onboarding_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignRequest struct {
	CourseID    string   `json:"courseId" binding:"required"`
	EmployeeIDs []string `json:"employeeIds" binding:"required,min=1"`
	DueDate     string   `json:"dueDate"` // yyyy-mm-dd 或 RFC3339，留空为 30 天后
}

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	CourseRepo     *repository.CourseRepository

	now func() time.Time
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, courseRepo *repository.CourseRepository) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		CourseRepo:     courseRepo,
		now:            time.Now,
	}
}

// Assign 为员工创建报名，已报名的员工跳过。返回新建的报名
func (s *AssignmentService) Assign(ctx context.Context, assignedBy string, req AssignRequest) ([]model.CourseAssignment, error) {
	if req.CourseID == "" || len(req.EmployeeIDs) == 0 {
		return nil, progression.Invalidf("courseId and employeeIds are required")
	}
	due, err := util.ParseDate(req.DueDate)
	if err != nil {
		return nil, progression.Invalidf("invalid dueDate %q", req.DueDate)
	}
	course, err := s.course(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, progression.Invalidf("course %s is not active", course.ID)
	}

	if due == nil {
		d := s.now().AddDate(0, 0, util.DefaultAssignmentDueDays)
		due = &d
	}

	created := make([]model.CourseAssignment, 0, len(req.EmployeeIDs))
	seen := make(map[string]bool, len(req.EmployeeIDs))
	for _, employeeID := range req.EmployeeIDs {
		if employeeID == "" || seen[employeeID] {
			continue
		}
		seen[employeeID] = true

		a, isNew, err := s.createIfAbsent(ctx, course, employeeID, assignedBy, due)
		if err != nil {
			return nil, err
		}
		if isNew {
			created = append(created, *a)
		}
	}

	logger.Log.Info("course assigned",
		zap.String("courseId", course.ID),
		zap.String("assignedBy", assignedBy),
		zap.Int("created", len(created)),
		zap.Int("requested", len(req.EmployeeIDs)))
	return created, nil
}

// Enroll 员工自助报名，只允许对全员开放的课程；重复报名返回已有记录
func (s *AssignmentService) Enroll(ctx context.Context, employeeID, courseID string) (*model.CourseAssignment, error) {
	course, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive || !course.AvailableToAll {
		return nil, progression.NotFoundf("course %s not found", courseID)
	}
	a, _, err := s.createIfAbsent(ctx, course, employeeID, "self", nil)
	return a, err
}

func (s *AssignmentService) ListMine(ctx context.Context, employeeID string) ([]model.CourseAssignment, error) {
	list, err := s.AssignmentRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, progression.PersistenceErr("list assignments", err)
	}
	return list, nil
}

func (s *AssignmentService) course(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, progression.NotFoundf("course %s not found", courseID)
	}
	if err != nil {
		return nil, progression.PersistenceErr("load course", err)
	}
	return course, nil
}

func (s *AssignmentService) createIfAbsent(ctx context.Context, course *model.Course, employeeID, assignedBy string, due *time.Time) (*model.CourseAssignment, bool, error) {
	existing, err := s.AssignmentRepo.FindByEmployeeAndCourse(ctx, employeeID, course.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, progression.PersistenceErr("load assignment", err)
	}

	a := &model.CourseAssignment{
		EmployeeID:   employeeID,
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		AssignedBy:   assignedBy,
		Status:       model.AssignmentNotStarted,
		AssignedDate: s.now(),
		DueDate:      due,
	}
	if err := s.AssignmentRepo.Create(ctx, a); err != nil {
		return nil, false, progression.PersistenceErr("create assignment", err)
	}
	return a, true, nil
}
