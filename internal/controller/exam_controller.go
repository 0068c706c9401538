package controller

import (
	"errors"

	"english_exam_backend/internal/model"
	"english_exam_backend/internal/service"
	"english_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// OptionView 发给考生的选项，不带答案标记
type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionView 发给考生的题目
type QuestionView struct {
	ID        uint                   `json:"id"`
	Text      string                 `json:"text"`
	Level     model.ProficiencyLevel `json:"level"`
	ImagePath string                 `json:"imagePath,omitempty"`
	Options   []OptionView           `json:"options"`
}

func toQuestionView(q *model.Question) *QuestionView {
	if q == nil {
		return nil
	}
	view := &QuestionView{
		ID:        q.ID,
		Text:      q.Text,
		Level:     q.Level,
		ImagePath: q.ImagePath,
		Options:   make([]OptionView, 0, len(q.Options)),
	}
	for _, opt := range q.Options {
		view.Options = append(view.Options, OptionView{ID: opt.ID, Text: opt.Text})
	}
	return view
}

func (c *ExamController) writeExamError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidTestType):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptLimitReached):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrInsufficientQuestions):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrNoActiveSession):
		util.Error(ctx, 404, err.Error())
	case errors.Is(err, util.ErrSessionFinished),
		errors.Is(err, util.ErrAnswerAlreadySaved):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

type startExamRequest struct {
	TestType model.TestType `json:"testType" binding:"required"`
}

// @Summary 开始考试
// @Description 创建考试会话并返回第一题，practice 抽 20 题，final 分层抽 40 题
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body startExamRequest true "考试类型"
// @Success 201 {object} util.Response
// @Router /exams [post]
func (c *ExamController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ExamService.Start(claims.UserID, req.TestType)
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"token":    result.Token,
		"question": toQuestionView(result.Question),
		"position": result.Position,
		"total":    result.Total,
		"warnings": result.Warnings,
	})
}

// @Summary 当前题目
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} util.Response
// @Router /exams/{token}/question [get]
func (c *ExamController) CurrentQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	question, pos, total, err := c.ExamService.CurrentQuestion(ctx.Param("token"), claims.UserID)
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"question": toQuestionView(question),
		"position": pos,
		"total":    total,
	})
}

type recordAnswerRequest struct {
	SelectedOptionID *uint `json:"selectedOptionId"`
	TimeTakenSeconds int   `json:"timeTakenSeconds"`
}

// @Summary 提交当前题作答
// @Description 每题只能提交一次，耗时超过 60 秒按未作答处理
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param token path string true "会话令牌"
// @Param body body recordAnswerRequest true "所选选项与耗时"
// @Success 200 {object} util.Response
// @Router /exams/{token}/answers [post]
func (c *ExamController) RecordAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req recordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ExamService.RecordAnswer(ctx.Param("token"), claims.UserID, req.SelectedOptionID, req.TimeTakenSeconds)
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "answer recorded"})
}

// @Summary 下一题
// @Description 推进到下一题，题目出完时返回 done=true
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} util.Response
// @Router /exams/{token}/next [post]
func (c *ExamController) Advance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	question, pos, total, done, err := c.ExamService.Advance(ctx.Param("token"), claims.UserID)
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	if done {
		util.Success(ctx, gin.H{"done": true})
		return
	}
	util.Success(ctx, gin.H{
		"done":     false,
		"question": toQuestionView(question),
		"position": pos,
		"total":    total,
	})
}

// @Summary 交卷
// @Description 汇总作答并计分定级，返回各等级正确数明细
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param token path string true "会话令牌"
// @Success 200 {object} util.Response
// @Router /exams/{token}/finish [post]
func (c *ExamController) Finish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ExamService.Finish(ctx.Param("token"), claims.UserID)
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
