package service

import (
	"sync"
	"time"

	"english_exam_backend/internal/model"
	"english_exam_backend/internal/repository"
	"english_exam_backend/internal/util"
	"english_exam_backend/pkg/logger"
	"english_exam_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxQuestionSeconds 每题硬性时限。客户端倒计时只是提示，
// 上报耗时超限的作答在服务端一律按未作答处理。
const MaxQuestionSeconds = 60

// ExamSession 一场进行中的考试。题目列表在开考时固定，索引只增不减。
type ExamSession struct {
	Token     string
	UserID    uint
	AttemptID uint
	TestType  model.TestType
	Questions []model.Question
	Index     int
	Warnings  []string

	answered map[int]bool
	finished bool
}

// Total 本场题目总数
func (s *ExamSession) Total() int {
	return len(s.Questions)
}

// Position 一基的当前题号与总题数
func (s *ExamSession) Position() (int, int) {
	return s.Index + 1, len(s.Questions)
}

// Current 当前题目，索引越界时返回 nil
func (s *ExamSession) Current() *model.Question {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Index]
}

// StartResult 开考返回：会话句柄、第一题、进度与降级警告
type StartResult struct {
	Token    string          `json:"token"`
	Question *model.Question `json:"question"`
	Position int             `json:"position"`
	Total    int             `json:"total"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ScoreResult 交卷结果
type ScoreResult struct {
	Score          float64                `json:"score"`
	Level          model.ProficiencyLevel `json:"level"`
	CorrectCount   int                    `json:"correctCount"`
	TotalCount     int                    `json:"totalCount"`
	LevelBreakdown model.LevelBreakdown   `json:"levelBreakdown"`
}

// ExamService 考试会话的全生命周期：开考、答题、推进、交卷计分。
// 会话以 UUID 句柄寄存在内存里，替代原来的进程级单例状态。
type ExamService struct {
	AttemptRepo  *repository.AttemptRepository
	QuestionRepo *repository.QuestionRepository
	Sampler      *Sampler
	DB           *gorm.DB

	mu       sync.Mutex
	sessions map[string]*ExamSession
}

func NewExamService(attemptRepo *repository.AttemptRepository, questionRepo *repository.QuestionRepository, sampler *Sampler, db *gorm.DB) *ExamService {
	return &ExamService{
		AttemptRepo:  attemptRepo,
		QuestionRepo: questionRepo,
		Sampler:      sampler,
		DB:           db,
		sessions:     make(map[string]*ExamSession),
	}
}

func (s *ExamService) attemptLimit(testType model.TestType) int {
	if testType == model.TestTypeFinal {
		return model.FinalAttemptLimit
	}
	return model.PracticeAttemptLimit
}

// Start 校验配额后建档并抽题。建档和抽题在一个事务里，
// 抽题失败时整体回滚，不留下半初始化的考试记录。
func (s *ExamService) Start(userID uint, testType model.TestType) (*StartResult, error) {
	if !testType.Valid() {
		return nil, util.ErrInvalidTestType
	}

	count, err := s.AttemptRepo.CountByUserAndType(userID, testType)
	if err != nil {
		return nil, err
	}
	if int(count) >= s.attemptLimit(testType) {
		return nil, util.ErrAttemptLimitReached
	}

	attempt := &model.TestAttempt{
		UserID:    userID,
		TestType:  testType,
		StartTime: time.Now(),
	}

	var questions []model.Question
	var warnings []string

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		switch testType {
		case model.TestTypePractice:
			qs, err := s.Sampler.SamplePractice()
			if err != nil {
				return err
			}
			questions = qs
		case model.TestTypeFinal:
			qs, ws, err := s.Sampler.SampleFinal()
			if err != nil {
				return err
			}
			questions = qs
			warnings = ws
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session := &ExamSession{
		Token:     uuid.New().String(),
		UserID:    userID,
		AttemptID: attempt.ID,
		TestType:  testType,
		Questions: questions,
		Index:     0,
		Warnings:  warnings,
		answered:  make(map[int]bool),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	monitoring.ExamsStarted.WithLabelValues(string(testType)).Inc()

	pos, total := session.Position()
	return &StartResult{
		Token:    session.Token,
		Question: session.Current(),
		Position: pos,
		Total:    total,
		Warnings: warnings,
	}, nil
}

func (s *ExamService) session(token string, userID uint) (*ExamSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok || session.UserID != userID {
		logger.Log.Warn("exam operation without active session", zap.String("token", token), zap.Uint("userId", userID))
		return nil, util.ErrNoActiveSession
	}
	return session, nil
}

// CurrentQuestion 当前题目与进度
func (s *ExamService) CurrentQuestion(token string, userID uint) (*model.Question, int, int, error) {
	session, err := s.session(token, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	q := session.Current()
	if q == nil {
		return nil, 0, 0, util.ErrSessionFinished
	}
	pos, total := session.Position()
	return q, pos, total, nil
}

// Advance 推进到下一题。题目出完时返回 done=true，索引不再越过末尾。
func (s *ExamService) Advance(token string, userID uint) (*model.Question, int, int, bool, error) {
	session, err := s.session(token, userID)
	if err != nil {
		return nil, 0, 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session.Index+1 >= len(session.Questions) {
		session.Index = len(session.Questions)
		return nil, 0, 0, true, nil
	}
	session.Index++
	pos, total := session.Position()
	return session.Current(), pos, total, false, nil
}

// RecordAnswer 为当前题目记一条作答，每题恰好一次。
// 耗时超过 MaxQuestionSeconds 时选项作废，按未作答入库。
func (s *ExamService) RecordAnswer(token string, userID uint, selectedOptionID *uint, timeTakenSeconds int) error {
	session, err := s.session(token, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	current := session.Current()
	if current == nil {
		s.mu.Unlock()
		return util.ErrSessionFinished
	}
	if session.answered[session.Index] {
		s.mu.Unlock()
		return util.ErrAnswerAlreadySaved
	}
	session.answered[session.Index] = true
	index := session.Index
	s.mu.Unlock()

	if timeTakenSeconds > MaxQuestionSeconds {
		selectedOptionID = nil
	}

	questionID := current.ID
	answer := &model.AttemptAnswer{
		TestAttemptID:    session.AttemptID,
		QuestionID:       &questionID,
		SelectedOptionID: selectedOptionID,
		TimeTakenSeconds: timeTakenSeconds,
	}
	if err := s.AttemptRepo.CreateAnswer(answer); err != nil {
		// 写库失败时允许重答，避免该题永久丢失
		s.mu.Lock()
		session.answered[index] = false
		s.mu.Unlock()
		return err
	}
	return nil
}

// Finish 交卷：汇总作答、计分定级、落盘并销毁会话。
// 已计分的考试不会被二次改写（Finalize 以 score IS NULL 为条件）。
func (s *ExamService) Finish(token string, userID uint) (*ScoreResult, error) {
	session, err := s.session(token, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if session.finished {
		s.mu.Unlock()
		return nil, util.ErrSessionFinished
	}
	session.finished = true
	s.mu.Unlock()

	answers, err := s.AttemptRepo.GetAnswers(session.AttemptID)
	if err != nil {
		s.mu.Lock()
		session.finished = false
		s.mu.Unlock()
		return nil, err
	}

	breakdown, correctCount := BuildBreakdown(answers)

	var score float64
	var level model.ProficiencyLevel
	switch session.TestType {
	case model.TestTypeFinal:
		score = FinalScore(correctCount)
		level = PlacementByFailures(CountFailures(answers))
	default:
		score = PracticeScore(correctCount)
		level = LevelByScore(score)
	}

	if err := s.AttemptRepo.Finalize(session.AttemptID, score, level); err != nil {
		s.mu.Lock()
		session.finished = false
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, session.Token)
	s.mu.Unlock()

	monitoring.ExamsFinished.WithLabelValues(string(session.TestType), string(level)).Inc()
	logger.Log.Info("exam finished",
		zap.Uint("attemptId", session.AttemptID),
		zap.String("testType", string(session.TestType)),
		zap.Float64("score", score),
		zap.String("level", string(level)),
	)

	return &ScoreResult{
		Score:          score,
		Level:          level,
		CorrectCount:   correctCount,
		TotalCount:     session.Total(),
		LevelBreakdown: breakdown,
	}, nil
}
