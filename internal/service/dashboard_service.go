package service

import (
	"context"
	"encoding/json"
	"time"

	"english_exam_backend/internal/model"
	"english_exam_backend/internal/repository"
	"english_exam_backend/internal/util"
	"english_exam_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	adminDashboardCacheKey = "dashboard:admin"
	adminDashboardCacheTTL = time.Minute
)

// DashboardService 历史成绩的只读聚合：个人仪表盘、管理员全局视图、单用户回放。
// 不触碰进行中的考试会话。
type DashboardService struct {
	UserRepo    *repository.UserRepository
	AttemptRepo *repository.AttemptRepository
	Redis       *redis.Client // 可为 nil，此时不走缓存
}

func NewDashboardService(userRepo *repository.UserRepository, attemptRepo *repository.AttemptRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{
		UserRepo:    userRepo,
		AttemptRepo: attemptRepo,
		Redis:       rdb,
	}
}

func newExamTypeStats(limit int) model.ExamTypeStats {
	return model.ExamTypeStats{
		AttemptsRemaining:  limit,
		LastLevel:          "N/A",
		ScoresOverTime:     []float64{},
		PerformanceByLevel: model.NewLevelBreakdown(),
	}
}

// GetUserDashboard 单个用户两种考试类型的历史统计。
// 每一次创建过的考试都计入次数和配额（弃考不能绕过终身上限），
// 平均分、最高分和分数序列只统计已交卷的。
func (s *DashboardService) GetUserDashboard(userID uint) (*model.DashboardData, error) {
	attempts, err := s.AttemptRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	data := &model.DashboardData{
		PracticeStats: newExamTypeStats(model.PracticeAttemptLimit),
		FinalStats:    newExamTypeStats(model.FinalAttemptLimit),
	}

	var practiceScores, finalScores []float64

	for i := range attempts {
		attempt := &attempts[i]
		var stats *model.ExamTypeStats
		switch attempt.TestType {
		case model.TestTypePractice:
			stats = &data.PracticeStats
			if attempt.ScorePercentage != nil {
				practiceScores = append(practiceScores, *attempt.ScorePercentage)
			}
		case model.TestTypeFinal:
			stats = &data.FinalStats
			if attempt.ScorePercentage != nil {
				finalScores = append(finalScores, *attempt.ScorePercentage)
			}
			if attempt.AssignedLevel != nil {
				data.FinalStats.LastLevel = *attempt.AssignedLevel
			}
		default:
			continue
		}
		stats.AttemptsCount++

		answers, err := s.AttemptRepo.GetAnswers(attempt.ID)
		if err != nil {
			return nil, err
		}
		for j := range answers {
			ans := &answers[j]
			if ans.Question == nil {
				continue
			}
			stats.PerformanceByLevel.Record(ans.Question.Level, ans.Correct())
		}
	}

	fillScoreStats(&data.PracticeStats, practiceScores, model.PracticeAttemptLimit)
	fillScoreStats(&data.FinalStats, finalScores, model.FinalAttemptLimit)

	return data, nil
}

func fillScoreStats(stats *model.ExamTypeStats, scores []float64, limit int) {
	stats.AttemptsRemaining = limit - stats.AttemptsCount
	if stats.AttemptsRemaining < 0 {
		stats.AttemptsRemaining = 0
	}
	if len(scores) == 0 {
		return
	}
	sum := 0.0
	high := scores[0]
	for _, score := range scores {
		sum += score
		if score > high {
			high = score
		}
	}
	stats.AvgScore = sum / float64(len(scores))
	stats.HighScore = high
	stats.ScoresOverTime = scores
}

// GetAdminDashboard 全局视图：汇总不含 admin 的所有用户。
// 结果在 Redis 缓存一分钟，读不到或没配缓存时直接现算。
func (s *DashboardService) GetAdminDashboard() (*model.AdminDashboardData, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, adminDashboardCacheKey).Result(); err == nil {
			var data model.AdminDashboardData
			if err := json.Unmarshal([]byte(cached), &data); err == nil {
				return &data, nil
			}
		}
	}

	data, err := s.buildAdminDashboard()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(data); err == nil {
			if err := s.Redis.Set(ctx, adminDashboardCacheKey, payload, adminDashboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache admin dashboard", zap.Error(err))
			}
		}
	}

	return data, nil
}

func (s *DashboardService) buildAdminDashboard() (*model.AdminDashboardData, error) {
	totalUsers, err := s.UserRepo.CountNonAdmin()
	if err != nil {
		return nil, err
	}
	totalPractice, err := s.AttemptRepo.CountByType(model.TestTypePractice)
	if err != nil {
		return nil, err
	}
	totalFinal, err := s.AttemptRepo.CountByType(model.TestTypeFinal)
	if err != nil {
		return nil, err
	}
	avgPractice, err := s.AttemptRepo.AvgScoreByType(model.TestTypePractice)
	if err != nil {
		return nil, err
	}
	avgFinal, err := s.AttemptRepo.AvgScoreByType(model.TestTypeFinal)
	if err != nil {
		return nil, err
	}

	globalPerformance := model.NewLevelBreakdown()
	allAnswers, err := s.AttemptRepo.GetAllAnswers()
	if err != nil {
		return nil, err
	}
	for i := range allAnswers {
		ans := &allAnswers[i]
		if ans.Question == nil {
			continue
		}
		globalPerformance.Record(ans.Question.Level, ans.Correct())
	}

	users, err := s.UserRepo.FindAllNonAdmin()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for i := range users {
		user := &users[i]
		attempts, err := s.AttemptRepo.FindByUser(user.ID)
		if err != nil {
			return nil, err
		}

		summary := model.UserSummary{
			Username:       user.Username,
			LastFinalLevel: "N/A",
		}
		practiceSum := 0.0
		practiceScored := 0
		var lastFinal *model.TestAttempt

		for j := range attempts {
			attempt := &attempts[j]
			switch attempt.TestType {
			case model.TestTypePractice:
				summary.PracticeAttempts++
				if attempt.ScorePercentage != nil {
					practiceSum += *attempt.ScorePercentage
					practiceScored++
				}
			case model.TestTypeFinal:
				summary.FinalAttempts++
				if lastFinal == nil || attempt.StartTime.After(lastFinal.StartTime) {
					lastFinal = attempt
				}
			}
		}
		if practiceScored > 0 {
			summary.AvgPracticeScore = practiceSum / float64(practiceScored)
		}
		if lastFinal != nil && lastFinal.AssignedLevel != nil {
			summary.LastFinalLevel = *lastFinal.AssignedLevel
		}
		summaries = append(summaries, summary)
	}

	return &model.AdminDashboardData{
		GlobalStats: model.GlobalStats{
			TotalUsers:            totalUsers,
			TotalPracticeAttempts: totalPractice,
			TotalFinalAttempts:    totalFinal,
			AvgPracticeScore:      avgPractice,
			AvgFinalScore:         avgFinal,
		},
		GlobalLevelPerformance: globalPerformance,
		UserDetails:            summaries,
	}, nil
}

// GetUserDetail 单用户的完整历史（最近一次在前），逐题回放。
// 被删除的题目/选项以占位文本呈现，不影响读取。
func (s *DashboardService) GetUserDetail(username string) (*model.UserDetailData, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	attempts, err := s.AttemptRepo.FindByUserWithAnswers(user.ID)
	if err != nil {
		return nil, err
	}

	details := make([]model.AttemptDetail, 0, len(attempts))
	for i := range attempts {
		attempt := &attempts[i]
		detail := model.AttemptDetail{
			ID:       attempt.ID,
			TestType: attempt.TestType,
			Date:     attempt.StartTime.Format(util.TimeFormat),
			Score:    attempt.ScorePercentage,
			Level:    attempt.AssignedLevel,
			Answers:  make([]model.AnswerDetail, 0, len(attempt.Answers)),
		}

		for j := range attempt.Answers {
			ans := &attempt.Answers[j]
			detail.TotalTimeSeconds += ans.TimeTakenSeconds

			answerDetail := model.AnswerDetail{
				QuestionText:   "Question deleted",
				QuestionLevel:  "N/A",
				SelectedOption: "N/A (no answer)",
				TimeTaken:      ans.TimeTakenSeconds,
			}
			if ans.Question != nil {
				answerDetail.QuestionText = ans.Question.Text
				answerDetail.QuestionLevel = string(ans.Question.Level)
			}
			if ans.SelectedOption != nil {
				answerDetail.SelectedOption = ans.SelectedOption.Text
				answerDetail.IsCorrect = ans.SelectedOption.IsCorrect
			}
			detail.Answers = append(detail.Answers, answerDetail)
		}
		details = append(details, detail)
	}

	return &model.UserDetailData{
		Username: user.Username,
		Attempts: details,
	}, nil
}
