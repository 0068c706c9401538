package model

// swagger:model Question
type Question struct {
	BaseModel
	Text      string           `gorm:"size:1000;not null" json:"text"`
	Level     ProficiencyLevel `gorm:"size:50;not null;index" json:"level"`
	ImagePath string           `gorm:"size:255" json:"imagePath,omitempty"`

	// 删除题目时选项一并删除
	Options []Option `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectOption 返回唯一的正确选项，数据不完整时返回 nil
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
