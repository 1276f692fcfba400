package repository

import (
	"context"

	"onboarding_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModuleProgressRepository struct {
	DB *gorm.DB
}

func NewModuleProgressRepository(db *gorm.DB) *ModuleProgressRepository {
	return &ModuleProgressRepository{DB: db}
}

func (r *ModuleProgressRepository) WithTx(tx *gorm.DB) *ModuleProgressRepository {
	return &ModuleProgressRepository{DB: tx}
}

// ListByAssignment 获取一次报名下所有模块的进度记录
func (r *ModuleProgressRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]model.ModuleProgress, error) {
	var records []model.ModuleProgress
	err := r.DB.WithContext(ctx).Where("assignment_id = ?", assignmentID).Find(&records).Error
	return records, err
}

// progressColumns 是 Upsert 会覆盖的列；quiz_attempts 只通过 IncrementAttempts 累加
var progressColumns = []string{
	"completed", "progress_percentage", "completed_date",
	"quiz_score", "quiz_passed", "updated_at",
}

// Upsert 按 (assignment_id, module_id) 写入进度记录
func (r *ModuleProgressRepository) Upsert(ctx context.Context, p *model.ModuleProgress) error {
	db := r.DB.WithContext(ctx)
	if p.ID != "" {
		return db.Model(p).Select(progressColumns).Updates(p).Error
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns(progressColumns),
	}).Create(p).Error
	if err != nil {
		return err
	}

	// 冲突更新时 p.ID 是新生成的，重新读取实际主键
	var stored model.ModuleProgress
	if err := db.Select("id").
		Where("assignment_id = ? AND module_id = ?", p.AssignmentID, p.ModuleID).
		First(&stored).Error; err != nil {
		return err
	}
	p.ID = stored.ID
	return nil
}

// IncrementAttempts 在数据库侧累加测验次数并返回累加后的值
func (r *ModuleProgressRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	db := r.DB.WithContext(ctx)
	res := db.Model(&model.ModuleProgress{}).
		Where("id = ?", id).
		UpdateColumn("quiz_attempts", gorm.Expr("quiz_attempts + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var stored model.ModuleProgress
	if err := db.Select("quiz_attempts").Where("id = ?", id).First(&stored).Error; err != nil {
		return 0, err
	}
	return stored.QuizAttempts, nil
}

func (r *ModuleProgressRepository) CreateAttempt(ctx context.Context, a *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// ListAttempts 按模块和次数顺序返回一次报名下的全部测验记录
func (r *ModuleProgressRepository) ListAttempts(ctx context.Context, assignmentID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("module_id ASC").
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}
