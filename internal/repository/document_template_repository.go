package repository

import (
	"context"

	"onboarding_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentTemplateRepository struct {
	DB *gorm.DB
}

func NewDocumentTemplateRepository(db *gorm.DB) *DocumentTemplateRepository {
	return &DocumentTemplateRepository{DB: db}
}

func (r *DocumentTemplateRepository) Create(ctx context.Context, t *model.DocumentTemplate) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *DocumentTemplateRepository) FindByID(ctx context.Context, id string) (*model.DocumentTemplate, error) {
	var t model.DocumentTemplate
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
