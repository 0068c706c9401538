package model

// AttemptAnswer 一次考试中每道已出示题目的作答记录。
// 题目或选项之后被删除时外键置 NULL，历史记录本身保留。
// SelectedOptionID 为 NULL 表示未作答（含超时强制弃答）。
type AttemptAnswer struct {
	BaseModel
	TestAttemptID    uint  `gorm:"index;not null" json:"testAttemptId"`
	QuestionID       *uint `gorm:"index" json:"questionId,omitempty"`
	SelectedOptionID *uint `json:"selectedOptionId,omitempty"`
	TimeTakenSeconds int   `gorm:"default:0" json:"timeTakenSeconds"`

	Question       *Question `gorm:"constraint:OnDelete:SET NULL" json:"question,omitempty"`
	SelectedOption *Option   `gorm:"foreignKey:SelectedOptionID;constraint:OnDelete:SET NULL" json:"selectedOption,omitempty"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}

// Correct 作答是否正确，孤儿引用或未作答都算不正确
func (a *AttemptAnswer) Correct() bool {
	return a.SelectedOption != nil && a.SelectedOption.IsCorrect
}
