package model

import (
	"gorm.io/datatypes"
)

// Course 课程定义；发布后对进度引擎而言不可变
// swagger:model Course
type Course struct {
	UUIDBase
	Title                 string                      `gorm:"size:255;not null" json:"title"`
	Description           string                      `gorm:"type:text" json:"description"`
	Modules               datatypes.JSONSlice[Module] `json:"modules"`
	IsActive              bool                        `gorm:"default:true" json:"isActive"`
	AvailableToAll        bool                        `gorm:"default:false" json:"availableToAll"`
	CertificateEnabled    bool                        `gorm:"default:false" json:"certificateEnabled"`
	CertificateTemplateID *string                     `gorm:"type:varchar(36)" json:"certificateTemplateId,omitempty"`
	CertificateFileURL    string                      `gorm:"size:512" json:"certificateFileUrl,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// ModuleIndex 返回模块在课程中的位置，不存在时返回 -1
func (c *Course) ModuleIndex(moduleID string) int {
	for i, m := range c.Modules {
		if m.ID == moduleID {
			return i
		}
	}
	return -1
}

// CertificateSource is either a TemplateRef or a StaticFileRef.
type CertificateSource interface {
	isCertificateSource()
}

type TemplateRef struct {
	TemplateID string
}

type StaticFileRef struct {
	FileURL string
}

func (TemplateRef) isCertificateSource()   {}
func (StaticFileRef) isCertificateSource() {}

// CertificateSource 返回课程的证书来源；两者都设置时以静态文件为准
func (c *Course) CertificateSource() CertificateSource {
	if c.CertificateFileURL != "" {
		return StaticFileRef{FileURL: c.CertificateFileURL}
	}
	if c.CertificateTemplateID != nil && *c.CertificateTemplateID != "" {
		return TemplateRef{TemplateID: *c.CertificateTemplateID}
	}
	return nil
}

// DocumentTemplate 证书模板
// swagger:model DocumentTemplate
type DocumentTemplate struct {
	UUIDBase
	Name            string `gorm:"size:255;not null" json:"name"`
	TemplateFileURL string `gorm:"size:512" json:"templateFileUrl"`
}

func (DocumentTemplate) TableName() string {
	return "document_templates"
}
