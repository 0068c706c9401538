package service

import (
	"fmt"
	"math/rand"
	"time"

	"english_exam_backend/internal/model"
	"english_exam_backend/internal/repository"
	"english_exam_backend/internal/util"
	"english_exam_backend/pkg/logger"

	"go.uber.org/zap"
)

// PracticeQuestionCount 练习模式固定抽 20 题
const PracticeQuestionCount = 20

// finalQuota 正式考试各等级配额，合计 40 题
type finalQuota struct {
	level model.ProficiencyLevel
	count int
}

var finalQuotas = []finalQuota{
	{model.LevelBeginner, 5},
	{model.LevelElementary, 7},
	{model.LevelPreIntermediate, 8},
	{model.LevelIntermediate, 10},
	{model.LevelUpperIntermediate, 5},
	{model.LevelAdvanced, 5},
}

// Sampler 从题库抽取一场考试的题目列表
type Sampler struct {
	QuestionRepo *repository.QuestionRepository
}

func NewSampler(questionRepo *repository.QuestionRepository) *Sampler {
	return &Sampler{QuestionRepo: questionRepo}
}

// 每次抽样独立建源，避免会话之间共享 RNG 状态
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// sampleN 无放回抽取 n 个，n 不小于 len(pool) 时返回打乱的全集
func sampleN(rng *rand.Rand, pool []model.Question, n int) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n < len(shuffled) {
		return shuffled[:n]
	}
	return shuffled
}

// SamplePractice 全题库均匀无放回抽取 20 题，题量不足直接失败
func (s *Sampler) SamplePractice() ([]model.Question, error) {
	all, err := s.QuestionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(all) < PracticeQuestionCount {
		return nil, util.ErrInsufficientQuestions
	}
	return sampleN(newRand(), all, PracticeQuestionCount), nil
}

// SampleFinal 分层抽样：每个等级抽取固定配额，不足时取全部并记一条警告，
// 各层结果合并后整体打乱。只有结果为空才算失败。
func (s *Sampler) SampleFinal() ([]model.Question, []string, error) {
	rng := newRand()
	var questions []model.Question
	var warnings []string

	for _, quota := range finalQuotas {
		pool, err := s.QuestionRepo.FindByLevel(quota.level)
		if err != nil {
			return nil, nil, err
		}
		if len(pool) < quota.count {
			warning := fmt.Sprintf("not enough %s questions: using %d instead of %d", quota.level, len(pool), quota.count)
			logger.Log.Warn("final exam under quota",
				zap.String("level", string(quota.level)),
				zap.Int("available", len(pool)),
				zap.Int("quota", quota.count),
			)
			warnings = append(warnings, warning)
		}
		questions = append(questions, sampleN(rng, pool, quota.count)...)
	}

	if len(questions) == 0 {
		return nil, nil, util.ErrInsufficientQuestions
	}

	rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	return questions, warnings, nil
}
