package controller

import (
	"onboarding_backend/internal/service"
	"onboarding_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// @Summary 分配课程
// @Description 为一组员工创建报名，已报名的员工会被跳过
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssignRequest true "课程与员工"
// @Success 201 {object} util.Response
// @Router /admin/assignments [post]
func (c *AssignmentController) Assign(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.AssignmentService.Assign(ctx.Request.Context(), user.Email, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}
