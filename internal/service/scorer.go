package service

import (
	"english_exam_backend/internal/model"
)

// 练习模式每题 5 分（20 题满分 100），正式考试每题 2.5 分（40 题满分 100）
const (
	PracticePointsPerQuestion = 5.0
	FinalPointsPerQuestion    = 2.5
)

func PracticeScore(correctCount int) float64 {
	return float64(correctCount) * PracticePointsPerQuestion
}

func FinalScore(correctCount int) float64 {
	return float64(correctCount) * FinalPointsPerQuestion
}

// LevelByScore 练习模式按总分定级，阈值为上开区间：30 分落在 Elementary
func LevelByScore(score float64) model.ProficiencyLevel {
	switch {
	case score < 30:
		return model.LevelBeginner
	case score < 50:
		return model.LevelElementary
	case score < 70:
		return model.LevelPreIntermediate
	case score < 85:
		return model.LevelIntermediate
	case score < 95:
		return model.LevelUpperIntermediate
	default:
		return model.LevelAdvanced
	}
}

// placementRule 某一等级允许的失误上限，达到即定级为该等级
type placementRule struct {
	level       model.ProficiencyLevel
	maxFailures int
}

// 规则按等级从低到高逐条匹配，先命中者生效。
// 这是"短板"定级：低等级的少量失误直接压低定级，与总分无关。
var placementRules = []placementRule{
	{model.LevelBeginner, 2},
	{model.LevelElementary, 3},
	{model.LevelPreIntermediate, 3},
	{model.LevelIntermediate, 4},
	{model.LevelUpperIntermediate, 2},
	{model.LevelAdvanced, 1},
}

// PlacementByFailures 正式考试按各等级失误数定级。
// 失误 = 出示过且未答对（含未作答、题目选项已被删除）。
// 未出示过题目的等级失误数为 0，不会触发其规则。
func PlacementByFailures(failures map[model.ProficiencyLevel]int) model.ProficiencyLevel {
	for _, rule := range placementRules {
		if failures[rule.level] >= rule.maxFailures {
			return rule.level
		}
	}
	return model.LevelAdvanced
}

// CountFailures 从作答记录统计各等级失误数，孤儿题目不计
func CountFailures(answers []model.AttemptAnswer) map[model.ProficiencyLevel]int {
	failures := make(map[model.ProficiencyLevel]int, len(model.AllLevels()))
	for i := range answers {
		ans := &answers[i]
		if ans.Question == nil {
			continue
		}
		if !ans.Correct() {
			failures[ans.Question.Level]++
		}
	}
	return failures
}

// BuildBreakdown 按等级统计正确数/出题数，六个等级全部出现（零初始化）。
// 返回总正确数；题目已被删除的作答不计入任何等级。
func BuildBreakdown(answers []model.AttemptAnswer) (model.LevelBreakdown, int) {
	breakdown := model.NewLevelBreakdown()
	correctCount := 0
	for i := range answers {
		ans := &answers[i]
		if ans.Question == nil {
			continue
		}
		correct := ans.Correct()
		breakdown.Record(ans.Question.Level, correct)
		if correct {
			correctCount++
		}
	}
	return breakdown, correctCount
}
