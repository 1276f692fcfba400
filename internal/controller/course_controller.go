package controller

import (
	"onboarding_backend/internal/service"
	"onboarding_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 创建课程
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param course body service.CourseCreateRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CourseCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary 课程详情
// @Tags 课程管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /admin/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 课程列表
// @Tags 课程管理
// @Produce json
// @Security ApiKeyAuth
// @Param active query bool false "只看启用的课程"
// @Success 200 {object} util.Response
// @Router /admin/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.List(ctx.Request.Context(), ctx.Query("active") == "true")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}
