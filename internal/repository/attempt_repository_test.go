package repository

import (
	"testing"
	"time"

	"english_exam_backend/internal/model"
)

func createAttempt(t *testing.T, repo *AttemptRepository, userID uint, testType model.TestType, start time.Time) *model.TestAttempt {
	t.Helper()

	attempt := &model.TestAttempt{UserID: userID, TestType: testType, StartTime: start}
	if err := repo.Create(attempt); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return attempt
}

func TestCountByUserAndType(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	now := time.Now()

	createAttempt(t, repo, 1, model.TestTypePractice, now)
	createAttempt(t, repo, 1, model.TestTypePractice, now)
	createAttempt(t, repo, 1, model.TestTypeFinal, now)
	createAttempt(t, repo, 2, model.TestTypePractice, now)

	count, err := repo.CountByUserAndType(1, model.TestTypePractice)
	if err != nil || count != 2 {
		t.Errorf("CountByUserAndType(1, practice) = %d, %v; want 2", count, err)
	}
	count, err = repo.CountByUserAndType(1, model.TestTypeFinal)
	if err != nil || count != 1 {
		t.Errorf("CountByUserAndType(1, final) = %d, %v; want 1", count, err)
	}
}

// Finalize 只对未计分的考试生效，已计分的不会被二次改写
func TestFinalizeIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)

	attempt := createAttempt(t, repo, 1, model.TestTypePractice, time.Now())

	if err := repo.Finalize(attempt.ID, 85, model.LevelUpperIntermediate); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	// 第二次写入被 score IS NULL 条件挡下
	if err := repo.Finalize(attempt.ID, 10, model.LevelBeginner); err != nil {
		t.Fatalf("second Finalize() error = %v", err)
	}

	found, err := repo.FindByID(attempt.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.ScorePercentage == nil || *found.ScorePercentage != 85 {
		t.Errorf("score = %v, want 85", found.ScorePercentage)
	}
	if found.AssignedLevel == nil || *found.AssignedLevel != string(model.LevelUpperIntermediate) {
		t.Errorf("level = %v, want Upper-intermediate", found.AssignedLevel)
	}
	if !found.Finished() {
		t.Error("attempt not marked finished")
	}
}

func TestAvgScoreByTypeSkipsUnfinished(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	now := time.Now()

	a1 := createAttempt(t, repo, 1, model.TestTypePractice, now)
	a2 := createAttempt(t, repo, 1, model.TestTypePractice, now)
	createAttempt(t, repo, 1, model.TestTypePractice, now) // 未交卷

	if err := repo.Finalize(a1.ID, 100, model.LevelAdvanced); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if err := repo.Finalize(a2.ID, 50, model.LevelPreIntermediate); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	avg, err := repo.AvgScoreByType(model.TestTypePractice)
	if err != nil {
		t.Fatalf("AvgScoreByType() error = %v", err)
	}
	if avg != 75 {
		t.Errorf("avg = %v, want 75", avg)
	}

	// 该类型没有任何已计分的考试时平均分为 0
	avg, err = repo.AvgScoreByType(model.TestTypeFinal)
	if err != nil || avg != 0 {
		t.Errorf("AvgScoreByType(final) = %v, %v; want 0", avg, err)
	}
}

func TestFindByUserWithAnswersOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	now := time.Now()

	older := createAttempt(t, repo, 1, model.TestTypePractice, now.Add(-time.Hour))
	newer := createAttempt(t, repo, 1, model.TestTypeFinal, now)

	attempts, err := repo.FindByUserWithAnswers(1)
	if err != nil {
		t.Fatalf("FindByUserWithAnswers() error = %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	if attempts[0].ID != newer.ID || attempts[1].ID != older.ID {
		t.Errorf("order = [%d, %d], want newest first [%d, %d]", attempts[0].ID, attempts[1].ID, newer.ID, older.ID)
	}
}

func TestAttemptDeleteCascadesAnswers(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)

	attempt := createAttempt(t, repo, 1, model.TestTypePractice, time.Now())
	if err := repo.CreateAnswer(&model.AttemptAnswer{TestAttemptID: attempt.ID, TimeTakenSeconds: 5}); err != nil {
		t.Fatalf("CreateAnswer() error = %v", err)
	}

	if err := repo.Delete(attempt.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	answers, err := repo.GetAnswers(attempt.ID)
	if err != nil {
		t.Fatalf("GetAnswers() error = %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("answers remaining = %d, want 0", len(answers))
	}
}
