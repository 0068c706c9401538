package repository

import (
	"english_exam_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.TestAttempt, error) {
	var a model.TestAttempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// CountByUserAndType 统计某用户某类型已创建的考试次数（含未交卷的，计入终身配额）
func (r *AttemptRepository) CountByUserAndType(userID uint, testType model.TestType) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAttempt{}).
		Where("user_id = ? AND test_type = ?", userID, testType).
		Count(&count).Error
	return count, err
}

// FindByUser 按开始时间升序返回某用户的全部考试
func (r *AttemptRepository) FindByUser(userID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.DB.Where("user_id = ?", userID).Order("start_time").Find(&attempts).Error
	return attempts, err
}

// FindByUserWithAnswers 某用户的全部考试及作答上下文，最近一次在前
func (r *AttemptRepository) FindByUserWithAnswers(userID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.DB.
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.SelectedOption").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CreateAnswer(answer *model.AttemptAnswer) error {
	return r.DB.Create(answer).Error
}

// GetAnswers 某次考试的全部作答，带题目和所选选项（被删除的引用为 nil）
func (r *AttemptRepository) GetAnswers(attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.DB.
		Preload("Question").
		Preload("SelectedOption").
		Where("test_attempt_id = ?", attemptID).
		Find(&answers).Error
	return answers, err
}

// GetAllAnswers 全库作答明细，供全局统计使用
func (r *AttemptRepository) GetAllAnswers() ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.DB.
		Preload("Question").
		Preload("SelectedOption").
		Find(&answers).Error
	return answers, err
}

// Finalize 一次性写入成绩与定级。已计分的考试不会被改写。
func (r *AttemptRepository) Finalize(attemptID uint, score float64, level model.ProficiencyLevel) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.TestAttempt{}).
			Where("id = ? AND score_percentage IS NULL", attemptID).
			Updates(map[string]interface{}{
				"score_percentage": score,
				"assigned_level":   string(level),
			}).Error
	})
}

// Delete 删除考试记录并级联删除其作答明细（管理端操作）
func (r *AttemptRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_attempt_id = ?", id).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TestAttempt{}, id).Error
	})
}

func (r *AttemptRepository) CountByType(testType model.TestType) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAttempt{}).
		Where("test_type = ?", testType).
		Count(&count).Error
	return count, err
}

// AvgScoreByType 全局平均分，未交卷（score 为 NULL）的不计入
func (r *AttemptRepository) AvgScoreByType(testType model.TestType) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.TestAttempt{}).
		Where("test_type = ? AND score_percentage IS NOT NULL", testType).
		Select("AVG(score_percentage)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
