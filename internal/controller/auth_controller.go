package controller

import (
	"errors"

	"english_exam_backend/internal/service"
	"english_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary 注册
// @Description 注册新考生账号，admin 为保留用户名
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "用户名与密码"
// @Success 201 {object} util.Response
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyCredentials),
			errors.Is(err, util.ErrReservedUsername),
			errors.Is(err, util.ErrUsernameTaken):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "username": user.Username})
}

// @Summary 登录
// @Description 校验凭证并签发令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "用户名与密码"
// @Success 200 {object} util.Response
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, 401, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"token":    token,
		"username": user.Username,
		"isAdmin":  user.IsAdmin(),
	})
}

// @Summary 当前用户
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, gin.H{"id": user.ID, "username": user.Username, "isAdmin": user.IsAdmin()})
}
