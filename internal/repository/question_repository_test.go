package repository

import (
	"errors"
	"testing"
	"time"

	"english_exam_backend/internal/model"

	"gorm.io/gorm"
)

func createQuestion(t *testing.T, repo *QuestionRepository, level model.ProficiencyLevel, text string) *model.Question {
	t.Helper()

	q := &model.Question{
		Text:  text,
		Level: level,
		Options: []model.Option{
			{Text: "right", IsCorrect: true},
			{Text: "wrong"},
		},
	}
	if err := repo.Create(q); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return q
}

func TestQuestionCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionRepository(db)

	created := createQuestion(t, repo, model.LevelBeginner, "q1")

	found, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Text != "q1" || len(found.Options) != 2 {
		t.Errorf("found = %q with %d options, want q1 with 2", found.Text, len(found.Options))
	}
	if found.CorrectOption() == nil || !found.CorrectOption().IsCorrect {
		t.Error("CorrectOption() did not return the correct option")
	}
}

func TestQuestionFindByLevel(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionRepository(db)

	createQuestion(t, repo, model.LevelBeginner, "b1")
	createQuestion(t, repo, model.LevelBeginner, "b2")
	createQuestion(t, repo, model.LevelAdvanced, "a1")

	beginners, err := repo.FindByLevel(model.LevelBeginner)
	if err != nil {
		t.Fatalf("FindByLevel() error = %v", err)
	}
	if len(beginners) != 2 {
		t.Errorf("got %d beginner questions, want 2", len(beginners))
	}
}

func TestQuestionList(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuestionRepository(db)

	for i := 0; i < 5; i++ {
		createQuestion(t, repo, model.LevelBeginner, "q")
	}

	page, total, err := repo.List(2, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}
}

// 删除题目时：选项级联删除，历史作答记录保留但外键置空
func TestQuestionDeletePreservesAnswers(t *testing.T) {
	db := newTestDB(t)
	questionRepo := NewQuestionRepository(db)
	attemptRepo := NewAttemptRepository(db)

	q := createQuestion(t, questionRepo, model.LevelBeginner, "doomed")
	optionID := q.Options[0].ID

	attempt := &model.TestAttempt{UserID: 1, TestType: model.TestTypePractice, StartTime: time.Now()}
	if err := attemptRepo.Create(attempt); err != nil {
		t.Fatalf("Create attempt error = %v", err)
	}
	questionID := q.ID
	answer := &model.AttemptAnswer{
		TestAttemptID:    attempt.ID,
		QuestionID:       &questionID,
		SelectedOptionID: &optionID,
		TimeTakenSeconds: 12,
	}
	if err := attemptRepo.CreateAnswer(answer); err != nil {
		t.Fatalf("CreateAnswer() error = %v", err)
	}

	if err := questionRepo.Delete(q.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := questionRepo.FindByID(q.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByID() after delete error = %v, want ErrRecordNotFound", err)
	}

	var optionCount int64
	db.Model(&model.Option{}).Where("question_id = ?", q.ID).Count(&optionCount)
	if optionCount != 0 {
		t.Errorf("options remaining = %d, want 0", optionCount)
	}

	answers, err := attemptRepo.GetAnswers(attempt.ID)
	if err != nil {
		t.Fatalf("GetAnswers() error = %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("answers remaining = %d, want 1", len(answers))
	}
	if answers[0].QuestionID != nil || answers[0].SelectedOptionID != nil {
		t.Errorf("answer fks = %v/%v, want nil/nil", answers[0].QuestionID, answers[0].SelectedOptionID)
	}
	if answers[0].TimeTakenSeconds != 12 {
		t.Errorf("time taken = %d, want 12", answers[0].TimeTakenSeconds)
	}
	if answers[0].Correct() {
		t.Error("orphaned answer counted as correct")
	}
}
