package model

// swagger:model Option
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false;not null" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}
