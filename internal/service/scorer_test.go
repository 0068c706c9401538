package service

import (
	"testing"

	"english_exam_backend/internal/model"
)

func TestLevelByScoreThresholds(t *testing.T) {
	tests := []struct {
		correctCount int
		wantScore    float64
		wantLevel    model.ProficiencyLevel
	}{
		{0, 0, model.LevelBeginner},
		{5, 25, model.LevelBeginner},
		{6, 30, model.LevelElementary},
		{9, 45, model.LevelElementary},
		{10, 50, model.LevelPreIntermediate},
		{13, 65, model.LevelPreIntermediate},
		{14, 70, model.LevelIntermediate},
		{16, 80, model.LevelIntermediate},
		{17, 85, model.LevelUpperIntermediate},
		{18, 90, model.LevelUpperIntermediate},
		{19, 95, model.LevelAdvanced},
		{20, 100, model.LevelAdvanced},
	}

	for _, tt := range tests {
		score := PracticeScore(tt.correctCount)
		if score != tt.wantScore {
			t.Errorf("PracticeScore(%d) = %v, want %v", tt.correctCount, score, tt.wantScore)
		}
		if level := LevelByScore(score); level != tt.wantLevel {
			t.Errorf("LevelByScore(%v) = %v, want %v", score, level, tt.wantLevel)
		}
	}
}

func TestFinalScore(t *testing.T) {
	if got := FinalScore(40); got != 100 {
		t.Errorf("FinalScore(40) = %v, want 100", got)
	}
	if got := FinalScore(15); got != 37.5 {
		t.Errorf("FinalScore(15) = %v, want 37.5", got)
	}
}

func TestPlacementByFailures(t *testing.T) {
	tests := []struct {
		name     string
		failures map[model.ProficiencyLevel]int
		want     model.ProficiencyLevel
	}{
		{
			name:     "no failures places advanced",
			failures: map[model.ProficiencyLevel]int{},
			want:     model.LevelAdvanced,
		},
		{
			name:     "two beginner failures",
			failures: map[model.ProficiencyLevel]int{model.LevelBeginner: 2},
			want:     model.LevelBeginner,
		},
		{
			name:     "one beginner failure is tolerated",
			failures: map[model.ProficiencyLevel]int{model.LevelBeginner: 1},
			want:     model.LevelAdvanced,
		},
		{
			name:     "three elementary failures",
			failures: map[model.ProficiencyLevel]int{model.LevelElementary: 3},
			want:     model.LevelElementary,
		},
		{
			name:     "four intermediate failures",
			failures: map[model.ProficiencyLevel]int{model.LevelIntermediate: 4},
			want:     model.LevelIntermediate,
		},
		{
			name:     "single advanced failure",
			failures: map[model.ProficiencyLevel]int{model.LevelAdvanced: 1},
			want:     model.LevelAdvanced,
		},
		{
			name: "lowest failing level wins",
			failures: map[model.ProficiencyLevel]int{
				model.LevelBeginner:          2,
				model.LevelIntermediate:      4,
				model.LevelUpperIntermediate: 2,
			},
			want: model.LevelBeginner,
		},
		{
			name: "below every threshold",
			failures: map[model.ProficiencyLevel]int{
				model.LevelBeginner:        1,
				model.LevelElementary:      2,
				model.LevelPreIntermediate: 2,
				model.LevelIntermediate:    3,
			},
			want: model.LevelAdvanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlacementByFailures(tt.failures); got != tt.want {
				t.Errorf("PlacementByFailures() = %v, want %v", got, tt.want)
			}
		})
	}
}

func correctOption() *model.Option {
	return &model.Option{IsCorrect: true}
}

func wrongOption() *model.Option {
	return &model.Option{IsCorrect: false}
}

func answerFor(level model.ProficiencyLevel, opt *model.Option) model.AttemptAnswer {
	return model.AttemptAnswer{
		Question:       &model.Question{Level: level},
		SelectedOption: opt,
	}
}

func TestCountFailures(t *testing.T) {
	answers := []model.AttemptAnswer{
		answerFor(model.LevelBeginner, correctOption()),
		answerFor(model.LevelBeginner, wrongOption()),
		answerFor(model.LevelBeginner, nil), // 未作答也是失误
		answerFor(model.LevelIntermediate, wrongOption()),
		{SelectedOption: wrongOption()}, // 题目已删除，不计
	}

	failures := CountFailures(answers)
	if failures[model.LevelBeginner] != 2 {
		t.Errorf("beginner failures = %d, want 2", failures[model.LevelBeginner])
	}
	if failures[model.LevelIntermediate] != 1 {
		t.Errorf("intermediate failures = %d, want 1", failures[model.LevelIntermediate])
	}
	if failures[model.LevelAdvanced] != 0 {
		t.Errorf("advanced failures = %d, want 0", failures[model.LevelAdvanced])
	}
}

func TestBuildBreakdown(t *testing.T) {
	answers := []model.AttemptAnswer{
		answerFor(model.LevelBeginner, correctOption()),
		answerFor(model.LevelBeginner, wrongOption()),
		answerFor(model.LevelAdvanced, correctOption()),
		{SelectedOption: correctOption()}, // 孤儿作答不计入任何等级
	}

	breakdown, correctCount := BuildBreakdown(answers)
	if correctCount != 2 {
		t.Errorf("correctCount = %d, want 2", correctCount)
	}
	if len(breakdown) != len(model.AllLevels()) {
		t.Fatalf("breakdown has %d entries, want %d", len(breakdown), len(model.AllLevels()))
	}
	if got := breakdown.Get(model.LevelBeginner); got.Correct != 1 || got.Total != 2 {
		t.Errorf("beginner tally = %d/%d, want 1/2", got.Correct, got.Total)
	}
	if got := breakdown.Get(model.LevelAdvanced); got.Correct != 1 || got.Total != 1 {
		t.Errorf("advanced tally = %d/%d, want 1/1", got.Correct, got.Total)
	}
	if got := breakdown.Get(model.LevelElementary); got.Total != 0 {
		t.Errorf("elementary tally total = %d, want 0", got.Total)
	}
}
