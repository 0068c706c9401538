package model

// ProficiencyLevel 英语水平等级，固定六级，顺序从低到高
type ProficiencyLevel string

const (
	LevelBeginner          ProficiencyLevel = "Beginner"
	LevelElementary        ProficiencyLevel = "Elementary"
	LevelPreIntermediate   ProficiencyLevel = "Pre-intermediate"
	LevelIntermediate      ProficiencyLevel = "Intermediate"
	LevelUpperIntermediate ProficiencyLevel = "Upper-intermediate"
	LevelAdvanced          ProficiencyLevel = "Advanced"
)

// AllLevels 返回固定顺序的六个等级，抽样、评分、统计都依赖这个顺序
func AllLevels() []ProficiencyLevel {
	return []ProficiencyLevel{
		LevelBeginner,
		LevelElementary,
		LevelPreIntermediate,
		LevelIntermediate,
		LevelUpperIntermediate,
		LevelAdvanced,
	}
}

// IsValidLevel 判断字符串是否为合法等级
func IsValidLevel(s string) bool {
	for _, l := range AllLevels() {
		if string(l) == s {
			return true
		}
	}
	return false
}

type TestType string

const (
	TestTypePractice TestType = "practice"
	TestTypeFinal    TestType = "final"
)

func (t TestType) Valid() bool {
	return t == TestTypePractice || t == TestTypeFinal
}

// 每种考试的终身次数上限
const (
	PracticeAttemptLimit = 5
	FinalAttemptLimit    = 2
)
