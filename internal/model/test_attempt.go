package model

import "time"

// swagger:model TestAttempt
type TestAttempt struct {
	BaseModel
	UserID    uint      `gorm:"index;not null" json:"userId"`
	TestType  TestType  `gorm:"size:20;not null;index" json:"testType"`
	StartTime time.Time `json:"startTime"`

	// 交卷前为 NULL，交卷后写入且不再变更
	ScorePercentage *float64 `json:"scorePercentage,omitempty"`
	AssignedLevel   *string  `gorm:"size:50" json:"assignedLevel,omitempty"`

	// 删除考试记录时答题明细一并删除
	Answers []AttemptAnswer `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

// Finished 是否已交卷计分
func (a *TestAttempt) Finished() bool {
	return a.ScorePercentage != nil
}
