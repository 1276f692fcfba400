package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/repository"
	"onboarding_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileStore 证书相关的文件存储能力
type FileStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	ResolveURL(ref string) string
}

type CertificateService struct {
	TemplateRepo *repository.DocumentTemplateRepository
	Files        FileStore
}

func NewCertificateService(templateRepo *repository.DocumentTemplateRepository, files FileStore) *CertificateService {
	return &CertificateService{TemplateRepo: templateRepo, Files: files}
}

// Resolve 返回课程完成时要附加的证书地址。未启用证书、没有来源或模板缺失时返回 nil
func (s *CertificateService) Resolve(ctx context.Context, course *model.Course) (*string, error) {
	if !course.CertificateEnabled {
		return nil, nil
	}

	var ref string
	switch src := course.CertificateSource().(type) {
	case model.StaticFileRef:
		ref = src.FileURL
	case model.TemplateRef:
		tpl, err := s.TemplateRepo.FindByID(ctx, src.TemplateID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("certificate template missing, completing without certificate",
				zap.String("courseId", course.ID),
				zap.String("templateId", src.TemplateID))
			return nil, nil
		}
		if err != nil {
			return nil, progression.PersistenceErr("load certificate template", err)
		}
		ref = tpl.TemplateFileURL
	default:
		return nil, nil
	}

	url := s.Files.ResolveURL(ref)
	if url == "" {
		return nil, nil
	}
	return &url, nil
}

func (s *CertificateService) CreateTemplate(ctx context.Context, name, fileURL string) (*model.DocumentTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, progression.Invalidf("template name is required")
	}
	if strings.TrimSpace(fileURL) == "" {
		return nil, progression.Invalidf("template file is required")
	}

	tpl := &model.DocumentTemplate{Name: name, TemplateFileURL: fileURL}
	if err := s.TemplateRepo.Create(ctx, tpl); err != nil {
		return nil, progression.PersistenceErr("create document template", err)
	}
	return tpl, nil
}

// UploadTemplate 上传模板文件后登记模板
func (s *CertificateService) UploadTemplate(ctx context.Context, name, filename string, reader io.Reader, size int64, contentType string) (*model.DocumentTemplate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, progression.Invalidf("template name is required")
	}
	key := fmt.Sprintf("certificates/templates/%d_%s", time.Now().UnixNano(), path.Base(filename))
	url, err := s.Files.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, progression.PersistenceErr("upload template file", err)
	}
	tpl, err := s.CreateTemplate(ctx, name, url)
	if err != nil {
		// 登记失败时删除已上传的文件，避免留下无人引用的对象
		if derr := s.Files.Delete(ctx, key); derr != nil {
			logger.Log.Warn("failed to remove orphaned template file",
				zap.String("key", key),
				zap.Error(derr))
		}
		return nil, err
	}
	return tpl, nil
}
