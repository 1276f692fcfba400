package repository

import (
	"context"

	"onboarding_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List 按创建时间倒序返回课程，activeOnly 时只返回启用的课程
func (r *CourseRepository) List(ctx context.Context, activeOnly bool) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&courses).Error
	return courses, err
}
