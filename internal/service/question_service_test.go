package service

import (
	"errors"
	"testing"
	"time"

	"english_exam_backend/internal/model"
	"english_exam_backend/internal/repository"
	"english_exam_backend/internal/util"

	"gorm.io/gorm"
)

func newQuestionService(db *gorm.DB) *QuestionService {
	return NewQuestionService(repository.NewQuestionRepository(db), db)
}

func validRequest() QuestionRequest {
	return QuestionRequest{
		Text:  "She ___ a student.",
		Level: string(model.LevelBeginner),
		Options: []OptionRequest{
			{Text: "is", IsCorrect: true},
			{Text: "are"},
			{Text: "am"},
		},
	}
}

func TestQuestionCreateValidation(t *testing.T) {
	svc := newQuestionService(newTestDB(t))

	bad := validRequest()
	bad.Level = "Fluent"
	if _, err := svc.Create(bad); err == nil {
		t.Error("unknown level accepted")
	}

	bad = validRequest()
	bad.Options = bad.Options[:1]
	if _, err := svc.Create(bad); err == nil {
		t.Error("single option accepted")
	}

	bad = validRequest()
	bad.Options[1].IsCorrect = true
	if _, err := svc.Create(bad); err == nil {
		t.Error("two correct options accepted")
	}

	bad = validRequest()
	bad.Options[0].IsCorrect = false
	if _, err := svc.Create(bad); err == nil {
		t.Error("no correct option accepted")
	}
}

func TestQuestionCreateAndGet(t *testing.T) {
	svc := newQuestionService(newTestDB(t))

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Text != created.Text || len(got.Options) != 3 {
		t.Errorf("got %q with %d options, want %q with 3", got.Text, len(got.Options), created.Text)
	}

	if _, err := svc.Get(9999); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("Get(9999) error = %v, want ErrQuestionNotFound", err)
	}
}

func TestQuestionUpdateReplacesOptions(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	update := QuestionRequest{
		Text:  "He ___ to school every day.",
		Level: string(model.LevelElementary),
		Options: []OptionRequest{
			{Text: "goes", IsCorrect: true},
			{Text: "go"},
		},
	}
	updated, err := svc.Update(created.ID, update)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Level != model.LevelElementary {
		t.Errorf("level = %v, want Elementary", updated.Level)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Options) != 2 {
		t.Fatalf("options = %d, want 2 after replacement", len(got.Options))
	}
	if got.CorrectOption() == nil || got.CorrectOption().Text != "goes" {
		t.Errorf("correct option = %v, want goes", got.CorrectOption())
	}

	if _, err := svc.Update(9999, update); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("Update(9999) error = %v, want ErrQuestionNotFound", err)
	}
}

func TestQuestionUpdatePreservesAnswerHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	attemptRepo := repository.NewAttemptRepository(db)

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldCorrect := created.CorrectOption()
	if oldCorrect == nil {
		t.Fatal("created question has no correct option")
	}

	user := createTestUser(t, db, "learner")
	attempt := &model.TestAttempt{UserID: user.ID, TestType: model.TestTypePractice, StartTime: time.Now()}
	if err := attemptRepo.Create(attempt); err != nil {
		t.Fatalf("create attempt error = %v", err)
	}
	questionID := created.ID
	selectedID := oldCorrect.ID
	answer := &model.AttemptAnswer{
		TestAttemptID:    attempt.ID,
		QuestionID:       &questionID,
		SelectedOptionID: &selectedID,
		TimeTakenSeconds: 9,
	}
	if err := attemptRepo.CreateAnswer(answer); err != nil {
		t.Fatalf("create answer error = %v", err)
	}

	update := validRequest()
	update.Options = []OptionRequest{
		{Text: "was", IsCorrect: true},
		{Text: "were"},
	}
	if _, err := svc.Update(created.ID, update); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	answers, err := attemptRepo.GetAnswers(attempt.ID)
	if err != nil {
		t.Fatalf("GetAnswers() error = %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("answers = %d, want 1 preserved", len(answers))
	}
	got := answers[0]
	if got.SelectedOptionID != nil {
		t.Errorf("SelectedOptionID = %d, want NULL after option replacement", *got.SelectedOptionID)
	}
	if got.QuestionID == nil || *got.QuestionID != created.ID {
		t.Errorf("QuestionID = %v, want %d", got.QuestionID, created.ID)
	}
	if got.TimeTakenSeconds != 9 {
		t.Errorf("TimeTakenSeconds = %d, want 9", got.TimeTakenSeconds)
	}
}

func TestQuestionDelete(t *testing.T) {
	svc := newQuestionService(newTestDB(t))

	created, err := svc.Create(validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrQuestionNotFound", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("double Delete() error = %v, want ErrQuestionNotFound", err)
	}
}

func TestQuestionListClampsPaging(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(validRequest()); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	questions, total, err := svc.List(-1, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 || len(questions) != 3 {
		t.Errorf("List(-1, 0) = %d of %d, want 3 of 3", len(questions), total)
	}
}
