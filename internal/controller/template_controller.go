package controller

import (
	"io"
	"net/http"
	"strings"

	"onboarding_backend/internal/service"
	"onboarding_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxTemplateSize = 10 << 20

type TemplateController struct {
	Certificates *service.CertificateService
}

func NewTemplateController(certificates *service.CertificateService) *TemplateController {
	return &TemplateController{Certificates: certificates}
}

type TemplateCreateRequest struct {
	Name            string `json:"name" binding:"required"`
	TemplateFileURL string `json:"templateFileUrl" binding:"required"`
}

// @Summary 登记证书模板
// @Description JSON 提交已有文件地址，或 multipart 上传文件(name, file)
// @Tags 课程管理
// @Accept json,mpfd
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response
// @Router /admin/document-templates [post]
func (c *TemplateController) CreateTemplate(ctx *gin.Context) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		c.uploadTemplate(ctx)
		return
	}

	var req TemplateCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tpl, err := c.Certificates.CreateTemplate(ctx.Request.Context(), req.Name, req.TemplateFileURL)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, tpl)
}

func (c *TemplateController) uploadTemplate(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxTemplateSize {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "template file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, util.AllowedTemplateMimeTypes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	tpl, err := c.Certificates.UploadTemplate(ctx.Request.Context(), ctx.PostForm("name"),
		fileHeader.Filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, tpl)
}
