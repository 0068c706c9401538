package service

import (
	"errors"

	"english_exam_backend/internal/model"
	"english_exam_backend/internal/repository"
	"english_exam_backend/internal/util"

	"gorm.io/gorm"
)

type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	Text      string          `json:"text" binding:"required"`
	Level     string          `json:"level" binding:"required"`
	ImagePath string          `json:"imagePath"`
	Options   []OptionRequest `json:"options" binding:"required"`
}

// QuestionService 管理端题库维护：增删改查，保证"恰好一个正确选项"不变式
type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	DB           *gorm.DB
}

func NewQuestionService(questionRepo *repository.QuestionRepository, db *gorm.DB) *QuestionService {
	return &QuestionService{QuestionRepo: questionRepo, DB: db}
}

func validateQuestionRequest(req QuestionRequest) error {
	if !model.IsValidLevel(req.Level) {
		return errors.New("unknown proficiency level: " + req.Level)
	}
	if len(req.Options) < 2 {
		return errors.New("a question needs at least two options")
	}
	correct := 0
	for _, opt := range req.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return errors.New("a question must have exactly one correct option")
	}
	return nil
}

func (s *QuestionService) Create(req QuestionRequest) (*model.Question, error) {
	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	question := &model.Question{
		Text:      req.Text,
		Level:     model.ProficiencyLevel(req.Level),
		ImagePath: req.ImagePath,
	}
	for _, opt := range req.Options {
		question.Options = append(question.Options, model.Option{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
		})
	}

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// Update 整体替换题干和选项
func (s *QuestionService) Update(id uint, req QuestionRequest) (*model.Question, error) {
	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		question.Text = req.Text
		question.Level = model.ProficiencyLevel(req.Level)
		question.ImagePath = req.ImagePath

		// 替换选项前先把历史作答对旧选项的引用置空，和删除题目时一致
		var optionIDs []uint
		if err := tx.Model(&model.Option{}).Where("question_id = ?", question.ID).Pluck("id", &optionIDs).Error; err != nil {
			return err
		}
		if len(optionIDs) > 0 {
			if err := tx.Model(&model.AttemptAnswer{}).
				Where("selected_option_id IN ?", optionIDs).
				Update("selected_option_id", nil).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		question.Options = nil
		for _, opt := range req.Options {
			question.Options = append(question.Options, model.Option{
				QuestionID: question.ID,
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
			})
		}
		return tx.Save(question).Error
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Delete(id uint) error {
	if _, err := s.QuestionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.QuestionRepo.Delete(id)
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) List(page, limit int) ([]model.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.QuestionRepo.List(page, limit)
}
