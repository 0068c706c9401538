package model

// LevelTally 某一等级的答题正确数/出题数
type LevelTally struct {
	Level   ProficiencyLevel `json:"level"`
	Correct int              `json:"correct"`
	Total   int              `json:"total"`
}

// LevelBreakdown 六个等级的固定顺序统计，始终包含全部等级（未涉及的为 0/0）
type LevelBreakdown []LevelTally

func NewLevelBreakdown() LevelBreakdown {
	levels := AllLevels()
	b := make(LevelBreakdown, len(levels))
	for i, l := range levels {
		b[i] = LevelTally{Level: l}
	}
	return b
}

// Record 累计一道某等级题目的出题与作答结果，未知等级忽略
func (b LevelBreakdown) Record(level ProficiencyLevel, correct bool) {
	for i := range b {
		if b[i].Level == level {
			b[i].Total++
			if correct {
				b[i].Correct++
			}
			return
		}
	}
}

// Get 返回指定等级的统计项，便于测试与汇总
func (b LevelBreakdown) Get(level ProficiencyLevel) LevelTally {
	for i := range b {
		if b[i].Level == level {
			return b[i]
		}
	}
	return LevelTally{Level: level}
}

// ExamTypeStats 单个用户在某一考试类型下的历史统计
type ExamTypeStats struct {
	AttemptsCount      int            `json:"attemptsCount"`
	AttemptsRemaining  int            `json:"attemptsRemaining"`
	AvgScore           float64        `json:"avgScore"`
	HighScore          float64        `json:"highScore"`
	LastLevel          string         `json:"lastLevel,omitempty"`
	ScoresOverTime     []float64      `json:"scoresOverTime"`
	PerformanceByLevel LevelBreakdown `json:"performanceByLevel"`
}

// DashboardData 用户个人仪表盘
type DashboardData struct {
	PracticeStats ExamTypeStats `json:"practiceStats"`
	FinalStats    ExamTypeStats `json:"finalStats"`
}

// GlobalStats 管理员仪表盘的全局指标（不含 admin 用户）
type GlobalStats struct {
	TotalUsers            int64   `json:"totalUsers"`
	TotalPracticeAttempts int64   `json:"totalPracticeAttempts"`
	TotalFinalAttempts    int64   `json:"totalFinalAttempts"`
	AvgPracticeScore      float64 `json:"avgPracticeScore"`
	AvgFinalScore         float64 `json:"avgFinalScore"`
}

// UserSummary 管理员视图中的单用户汇总行
type UserSummary struct {
	Username         string  `json:"username"`
	PracticeAttempts int     `json:"practiceAttempts"`
	FinalAttempts    int     `json:"finalAttempts"`
	AvgPracticeScore float64 `json:"avgPracticeScore"`
	LastFinalLevel   string  `json:"lastFinalLevel"`
}

// AdminDashboardData 管理员仪表盘
type AdminDashboardData struct {
	GlobalStats            GlobalStats    `json:"globalStats"`
	GlobalLevelPerformance LevelBreakdown `json:"globalLevelPerformance"`
	UserDetails            []UserSummary  `json:"userDetails"`
}

// AnswerDetail 单题作答明细，题目或选项已删除时以占位文本呈现
type AnswerDetail struct {
	QuestionText   string `json:"questionText"`
	QuestionLevel  string `json:"questionLevel"`
	SelectedOption string `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
	TimeTaken      int    `json:"timeTakenSeconds"`
}

// AttemptDetail 单次考试的完整回放记录
type AttemptDetail struct {
	ID               uint           `json:"id"`
	TestType         TestType       `json:"testType"`
	Date             string         `json:"date"`
	Score            *float64       `json:"score,omitempty"`
	Level            *string        `json:"level,omitempty"`
	TotalTimeSeconds int            `json:"totalTimeSeconds"`
	Answers          []AnswerDetail `json:"answers"`
}

// UserDetailData 管理员下钻查看的单用户全部历史（最近一次在前）
type UserDetailData struct {
	Username string          `json:"username"`
	Attempts []AttemptDetail `json:"attempts"`
}
