package repository

import (
	"english_exam_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Save(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.Preload("Options").First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// FindAll 返回整个题库，含选项
func (r *QuestionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Options").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByLevel(level model.ProficiencyLevel) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Options").Where("level = ?", level).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Count(&count).Error
	return count, err
}

// List 分页列出题目，供管理端题库页面使用
func (r *QuestionRepository) List(page, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	if err := r.DB.Model(&model.Question{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Preload("Options").
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	return questions, total, err
}

// Delete 删除题目：选项级联删除，历史作答记录的外键置 NULL 保留
func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var optionIDs []uint
		if err := tx.Model(&model.Option{}).Where("question_id = ?", id).Pluck("id", &optionIDs).Error; err != nil {
			return err
		}

		if len(optionIDs) > 0 {
			if err := tx.Model(&model.AttemptAnswer{}).
				Where("selected_option_id IN ?", optionIDs).
				Update("selected_option_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&model.AttemptAnswer{}).
			Where("question_id = ?", id).
			Update("question_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", id).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}
