package controller

import (
	"context"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/service"
	"onboarding_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressionEngine 培训控制器依赖的进度引擎操作
type ProgressionEngine interface {
	OpenModule(ctx context.Context, employeeID, assignmentID, moduleID string) (*service.ModuleView, error)
	ReportVideoProgress(ctx context.Context, employeeID, assignmentID, moduleID string, playedSeconds, durationSeconds float64) (*service.VideoProgressResult, error)
	ReportReadingScroll(ctx context.Context, employeeID, assignmentID, moduleID string, scrollTop, scrollHeight, clientHeight float64) (*service.ReadingProgressResult, error)
	SubmitQuiz(ctx context.Context, employeeID, assignmentID, moduleID string, answers map[int]int) (*service.QuizSubmitResult, error)
	CloseSession(ctx context.Context, employeeID, assignmentID, moduleID string) error
	GetProgress(ctx context.Context, employeeID, assignmentID string) (*service.ProgressView, error)
}

// Enrollments 员工侧的报名查询与自助报名
type Enrollments interface {
	ListMine(ctx context.Context, employeeID string) ([]model.CourseAssignment, error)
	Enroll(ctx context.Context, employeeID, courseID string) (*model.CourseAssignment, error)
}

type TrainingController struct {
	Engine      ProgressionEngine
	Enrollments Enrollments
}

func NewTrainingController(engine ProgressionEngine, enrollments Enrollments) *TrainingController {
	return &TrainingController{Engine: engine, Enrollments: enrollments}
}

type VideoProgressRequest struct {
	PlayedSeconds   *float64 `json:"played_seconds" binding:"required"`
	DurationSeconds float64  `json:"duration_seconds"`
}

type ReadingProgressRequest struct {
	ScrollTop    *float64 `json:"scroll_top" binding:"required"`
	ScrollHeight *float64 `json:"scroll_height" binding:"required"`
	ClientHeight *float64 `json:"client_height" binding:"required"`
}

type QuizSubmitRequest struct {
	Answers map[int]int `json:"answers" binding:"required"`
}

// @Summary 我的培训
// @Tags 培训
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /training/assignments [get]
func (c *TrainingController) ListAssignments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.Enrollments.ListMine(ctx.Request.Context(), user.EmployeeID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 自助报名课程
// @Tags 培训
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 201 {object} util.Response
// @Router /training/courses/{courseId}/enroll [post]
func (c *TrainingController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	a, err := c.Enrollments.Enroll(ctx.Request.Context(), user.EmployeeID, ctx.Param("courseId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary 课程进度
// @Tags 培训
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path string true "报名ID"
// @Success 200 {object} util.Response
// @Router /training/assignments/{assignmentId}/progress [get]
func (c *TrainingController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.Engine.GetProgress(ctx.Request.Context(), user.EmployeeID, ctx.Param("assignmentId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 进入模块
// @Tags 培训
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path string true "报名ID"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "模块未解锁"
// @Router /training/assignments/{assignmentId}/modules/{moduleId}/open [post]
func (c *TrainingController) OpenModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.Engine.OpenModule(ctx.Request.Context(), user.EmployeeID, ctx.Param("assignmentId"), ctx.Param("moduleId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 上报视频播放进度
// @Tags 培训
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path string true "报名ID"
// @Param moduleId path string true "模块ID"
// @Param body body VideoProgressRequest true "播放位置"
// @Success 200 {object} util.Response
// @Router /training/assignments/{assignmentId}/modules/{moduleId}/video-progress [post]
func (c *TrainingController) ReportVideoProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req VideoProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Engine.ReportVideoProgress(ctx.Request.Context(), user.EmployeeID,
		ctx.Param("assignmentId"), ctx.Param("moduleId"), *req.PlayedSeconds, req.DurationSeconds)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 上报阅读滚动位置
// @Tags 培训
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path string true "报名ID"
// @Param moduleId path string true "模块ID"
// @Param body body ReadingProgressRequest true "滚动位置"
// @Success 200 {object} util.Response
// @Router /training/assignments/{assignmentId}/modules/{moduleId}/reading-progress [post]
func (c *TrainingController) ReportReadingProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReadingProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Engine.ReportReadingScroll(ctx.Request.Context(), user.EmployeeID,
		ctx.Param("assignmentId"), ctx.Param("moduleId"), *req.ScrollTop, *req.ScrollHeight, *req.ClientHeight)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 提交测验
// @Tags 培训
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path string true "报名ID"
// @Param moduleId path string true "模块ID"
// @Param body body QuizSubmitRequest true "答案：题目序号 -> 选项序号"
// @Success 200 {object} util.Response
// @Router /training/assignments/{assignmentId}/modules/{moduleId}/quiz [post]
func (c *TrainingController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req QuizSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Engine.SubmitQuiz(ctx.Request.Context(), user.EmployeeID,
		ctx.Param("assignmentId"), ctx.Param("moduleId"), req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 关闭模块会话
// @Tags 培训
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId path string true "报名ID"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response
// @Router /training/assignments/{assignmentId}/modules/{moduleId}/session [delete]
func (c *TrainingController) CloseSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Engine.CloseSession(ctx.Request.Context(), user.EmployeeID, ctx.Param("assignmentId"), ctx.Param("moduleId")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
