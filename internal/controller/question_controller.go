package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"english_exam_backend/internal/service"
	"english_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	StorageService  *service.StorageService
}

func NewQuestionController(questionService *service.QuestionService, storageService *service.StorageService) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		StorageService:  storageService,
	}
}

// @Summary 题库列表
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /admin/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	questions, total, err := c.QuestionService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  questions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 查看题目
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	question, err := c.QuestionService.Get(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// @Summary 新建题目
// @Description 题目需恰好一个正确选项
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "题目与选项"
// @Success 201 {object} util.Response
// @Router /admin/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Create(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, question)
}

// @Summary 更新题目
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.QuestionRequest true "题目与选项"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Update(uint(id), req)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, question)
}

// @Summary 删除题目
// @Description 选项级联删除，历史作答保留（引用置空）
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.QuestionService.Delete(uint(id)); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "question deleted"})
}

// @Summary 上传题目插图
// @Tags 题库
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Router /admin/questions/image [post]
func (c *QuestionController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "unsupported image type: "+ext)
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("questions/%d%s", time.Now().UnixNano(), ext)
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, util.MimeImage) {
		contentType = "image/" + strings.TrimPrefix(ext, ".")
	}

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"imagePath": url})
}
