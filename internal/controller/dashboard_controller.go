package controller

import (
	"errors"

	"english_exam_backend/internal/service"
	"english_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 个人仪表盘
// @Description 两种考试类型的历史成绩、剩余次数与各等级正确率
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetUserDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// @Summary 管理员仪表盘
// @Description 全部非管理员用户的全局统计与逐用户汇总
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/dashboard [get]
func (c *DashboardController) GetAdminDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.GetAdminDashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// @Summary 单用户完整历史
// @Description 指定用户的全部考试及逐题作答回放，最近一次在前
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Param username path string true "用户名"
// @Success 200 {object} util.Response
// @Router /admin/users/{username} [get]
func (c *DashboardController) GetUserDetail(ctx *gin.Context) {
	detail, err := c.DashboardService.GetUserDetail(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}
