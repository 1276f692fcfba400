package repository

import (
	"context"

	"onboarding_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *AssignmentRepository) WithTx(tx *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: tx}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.CourseAssignment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*model.CourseAssignment, error) {
	var a model.CourseAssignment
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) FindByEmployeeAndCourse(ctx context.Context, employeeID, courseID string) (*model.CourseAssignment, error) {
	var a model.CourseAssignment
	err := r.DB.WithContext(ctx).
		Where("employee_id = ? AND course_id = ?", employeeID, courseID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]model.CourseAssignment, error) {
	var list []model.CourseAssignment
	err := r.DB.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("assigned_date DESC").
		Find(&list).Error
	return list, err
}

// Save 更新引擎负责的字段
func (r *AssignmentRepository) Save(ctx context.Context, a *model.CourseAssignment) error {
	return r.DB.WithContext(ctx).Model(a).Select(
		"status", "progress_percentage", "current_module_id", "certificate_url", "completed_date", "updated_at",
	).Updates(a).Error
}
