package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
)

func TestSubmitAnswerRecordsAttemptAndProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 4)

	result, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:           fx.Mission.ID,
		QuestionID:          fx.Questions[0].ID,
		OptionID:            fx.Correct[0].ID,
		CurrentCorrectCount: 0,
		TotalQuestions:      4,
	})
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if !result.IsCorrect {
		t.Fatal("expected correct answer")
	}
	if result.NextCorrect != 1 {
		t.Fatalf("NextCorrect = %d, want 1", result.NextCorrect)
	}

	progress := loadProgress(t, db, fx.Mission.ID, student.ID)
	if progress.CorrectCount != 1 || progress.Completed {
		t.Fatalf("progress = %+v, want correct_count=1 completed=false", progress)
	}
	if progress.XPAwarded != 0 || progress.CoinsAwarded != 0 {
		t.Fatalf("in-progress mission must carry zero rewards, got xp=%d coins=%d",
			progress.XPAwarded, progress.CoinsAwarded)
	}

	// Account untouched before completion.
	profile := loadProfile(t, db, student.ID)
	if profile.XPTotal != 0 || profile.CoinsBalance != 0 {
		t.Fatalf("account changed before completion: xp=%d coins=%d", profile.XPTotal, profile.CoinsBalance)
	}
}

func TestWrongAnswerKeepsCount(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 2)

	result, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:      fx.Mission.ID,
		QuestionID:     fx.Questions[0].ID,
		OptionID:       fx.Wrong[0].ID,
		TotalQuestions: 2,
	})
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if result.IsCorrect || result.NextCorrect != 0 {
		t.Fatalf("wrong answer: IsCorrect=%v NextCorrect=%d", result.IsCorrect, result.NextCorrect)
	}
}

func TestCompletionRewardFormula(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 4)

	// Three correct, then finish on a wrong answer: 3 of 4.
	for i := 0; i < 3; i++ {
		_, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
			MissionID:           fx.Mission.ID,
			QuestionID:          fx.Questions[i].ID,
			OptionID:            fx.Correct[i].ID,
			CurrentCorrectCount: i,
			TotalQuestions:      4,
		})
		if err != nil {
			t.Fatalf("submit answer %d: %v", i, err)
		}
	}
	result, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:           fx.Mission.ID,
		QuestionID:          fx.Questions[3].ID,
		OptionID:            fx.Wrong[3].ID,
		CurrentCorrectCount: 3,
		TotalQuestions:      4,
		Completed:           true,
	})
	if err != nil {
		t.Fatalf("final submit: %v", err)
	}
	if result.DeltaXP != 30 || result.DeltaCoins != 15 {
		t.Fatalf("deltas = %d xp / %d coins, want 30/15", result.DeltaXP, result.DeltaCoins)
	}

	profile := loadProfile(t, db, student.ID)
	if profile.XPTotal != 30 || profile.CoinsBalance != 15 {
		t.Fatalf("account = %d xp / %d coins, want 30/15", profile.XPTotal, profile.CoinsBalance)
	}
	progress := loadProgress(t, db, fx.Mission.ID, student.ID)
	if !progress.Completed || progress.XPAwarded != 30 || progress.CoinsAwarded != 15 {
		t.Fatalf("ledger = %+v, want completed with 30/15 recorded", progress)
	}
}

func TestCompletionRewardIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 1)

	req := SubmitAnswerRequest{
		MissionID:      fx.Mission.ID,
		QuestionID:     fx.Questions[0].ID,
		OptionID:       fx.Correct[0].ID,
		TotalQuestions: 1,
		Completed:      true,
	}
	if _, err := svc.SubmitAnswer(context.Background(), student.ID, req); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	profile := loadProfile(t, db, student.ID)
	if profile.XPTotal != 10 || profile.CoinsBalance != 5 {
		t.Fatalf("account after first completion = %d/%d, want 10/5", profile.XPTotal, profile.CoinsBalance)
	}

	// Replaying the completed mission to the same score settles to zero.
	result, err := svc.SubmitAnswer(context.Background(), student.ID, req)
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if result.DeltaXP != 0 || result.DeltaCoins != 0 {
		t.Fatalf("re-completion deltas = %d/%d, want 0/0", result.DeltaXP, result.DeltaCoins)
	}
	profile = loadProfile(t, db, student.ID)
	if profile.XPTotal != 10 || profile.CoinsBalance != 5 {
		t.Fatalf("account after re-completion = %d/%d, want unchanged 10/5", profile.XPTotal, profile.CoinsBalance)
	}
}

func TestRecompletionWithLowerScoreSettlesDifference(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 4)

	// First run: 4 of 4.
	for i := 0; i < 4; i++ {
		_, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
			MissionID:           fx.Mission.ID,
			QuestionID:          fx.Questions[i].ID,
			OptionID:            fx.Correct[i].ID,
			CurrentCorrectCount: i,
			TotalQuestions:      4,
			Completed:           i == 3,
		})
		if err != nil {
			t.Fatalf("first run submit %d: %v", i, err)
		}
	}
	profile := loadProfile(t, db, student.ID)
	if profile.XPTotal != 40 || profile.CoinsBalance != 20 {
		t.Fatalf("account after first run = %d/%d, want 40/20", profile.XPTotal, profile.CoinsBalance)
	}

	// Replay ending at 3 of 4: the account settles the difference.
	result, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:           fx.Mission.ID,
		QuestionID:          fx.Questions[3].ID,
		OptionID:            fx.Wrong[3].ID,
		CurrentCorrectCount: 3,
		TotalQuestions:      4,
		Completed:           true,
	})
	if err != nil {
		t.Fatalf("replay submit: %v", err)
	}
	if result.DeltaXP != -10 || result.DeltaCoins != -5 {
		t.Fatalf("replay deltas = %d/%d, want -10/-5", result.DeltaXP, result.DeltaCoins)
	}
	profile = loadProfile(t, db, student.ID)
	if profile.XPTotal != 30 || profile.CoinsBalance != 15 {
		t.Fatalf("account after replay = %d/%d, want 30/15", profile.XPTotal, profile.CoinsBalance)
	}
}

func TestLedgerWinsOverStaleClientCounter(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 4)

	for i := 0; i < 2; i++ {
		_, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
			MissionID:           fx.Mission.ID,
			QuestionID:          fx.Questions[i].ID,
			OptionID:            fx.Correct[i].ID,
			CurrentCorrectCount: i,
			TotalQuestions:      4,
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	// A reloaded client resubmits with a zeroed counter; the stored ledger
	// is ahead and must win.
	result, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:           fx.Mission.ID,
		QuestionID:          fx.Questions[2].ID,
		OptionID:            fx.Correct[2].ID,
		CurrentCorrectCount: 0,
		TotalQuestions:      4,
	})
	if err != nil {
		t.Fatalf("stale submit: %v", err)
	}
	if result.NextCorrect != 3 {
		t.Fatalf("NextCorrect = %d, want 3 (ledger 2 + this answer)", result.NextCorrect)
	}
}

func TestSubmitAnswerRejectsMismatchedOption(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 2)

	_, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:      fx.Mission.ID,
		QuestionID:     fx.Questions[0].ID,
		OptionID:       fx.Correct[1].ID, // belongs to question 2
		TotalQuestions: 2,
	})
	if !errors.Is(err, util.ErrOptionMismatch) {
		t.Fatalf("err = %v, want ErrOptionMismatch", err)
	}

	// Neither the attempt log nor the ledger may have been touched.
	var attemptCount int64
	db.Table("attempts").Count(&attemptCount)
	if attemptCount != 0 {
		t.Fatalf("attempt count = %d, want 0", attemptCount)
	}
}

func TestSubmitAnswerRejectsWrongDenominator(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 3)

	_, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:      fx.Mission.ID,
		QuestionID:     fx.Questions[0].ID,
		OptionID:       fx.Correct[0].ID,
		TotalQuestions: 5,
	})
	if !errors.Is(err, util.ErrTotalQuestionMismatch) {
		t.Fatalf("err = %v, want ErrTotalQuestionMismatch", err)
	}
}

func TestConcurrentSubmissionsLoseNoUpdates(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 4)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every goroutine claims a zero counter; the ledger-wins rule
			// plus per-student serialization must still count all four.
			_, errs[i] = svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
				MissionID:           fx.Mission.ID,
				QuestionID:          fx.Questions[i].ID,
				OptionID:            fx.Correct[i].ID,
				CurrentCorrectCount: 0,
				TotalQuestions:      4,
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent submit %d: %v", i, err)
		}
	}

	progress := loadProgress(t, db, fx.Mission.ID, student.ID)
	if progress.CorrectCount != 4 {
		t.Fatalf("correct_count = %d after 4 concurrent correct answers, want 4", progress.CorrectCount)
	}
	var attemptCount int64
	db.Table("attempts").Count(&attemptCount)
	if attemptCount != 4 {
		t.Fatalf("attempt count = %d, want 4", attemptCount)
	}
}

func TestDiagnoseMissionAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 2)

	issue, err := svc.DiagnoseMissionAvailability(fx.Mission.ID, student.ID)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if issue != IssueNoClasses {
		t.Fatalf("issue = %q, want %q", issue, IssueNoClasses)
	}

	class := createClassWithStudent(t, db, teacher.ID, "")
	assignMission(t, db, fx.Mission.ID, class.ID, 1)

	issue, err = svc.DiagnoseMissionAvailability(fx.Mission.ID, student.ID)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if issue != IssueNotEnrolled {
		t.Fatalf("issue = %q, want %q", issue, IssueNotEnrolled)
	}

	if err := db.Create(&model.Enrollment{ClassID: class.ID, StudentID: student.ID}).Error; err != nil {
		t.Fatalf("enroll: %v", err)
	}
	issue, err = svc.DiagnoseMissionAvailability(fx.Mission.ID, student.ID)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if issue != IssueNone {
		t.Fatalf("issue = %q, want none", issue)
	}

	// Empty mission with class and enrollment in place.
	empty := createPublishedMission(t, db, teacher.ID, 0)
	assignMission(t, db, empty.Mission.ID, class.ID, 2)
	issue, err = svc.DiagnoseMissionAvailability(empty.Mission.ID, student.ID)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if issue != IssueNoQuestions {
		t.Fatalf("issue = %q, want %q", issue, IssueNoQuestions)
	}
}

func TestGetMissionResume(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 4)

	resume, err := svc.GetMissionResume(fx.Mission.ID, student.ID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resume.CorrectCount != 0 || resume.QuestionIndex != 0 || resume.Completed {
		t.Fatalf("fresh resume = %+v, want zero state", resume)
	}

	_, err = svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:      fx.Mission.ID,
		QuestionID:     fx.Questions[0].ID,
		OptionID:       fx.Correct[0].ID,
		TotalQuestions: 4,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:           fx.Mission.ID,
		QuestionID:          fx.Questions[1].ID,
		OptionID:            fx.Wrong[1].ID,
		CurrentCorrectCount: 1,
		TotalQuestions:      4,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	resume, err = svc.GetMissionResume(fx.Mission.ID, student.ID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resume.CorrectCount != 1 {
		t.Fatalf("resume correct = %d, want 1", resume.CorrectCount)
	}
	if resume.QuestionIndex != 2 {
		t.Fatalf("resume question index = %d, want 2", resume.QuestionIndex)
	}
}

func TestGetTotalCorrectSpansMissions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx1 := createPublishedMission(t, db, teacher.ID, 2)
	fx2 := createPublishedMission(t, db, teacher.ID, 2)

	for _, fx := range []*missionFixture{fx1, fx2} {
		for i := 0; i < 2; i++ {
			_, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
				MissionID:           fx.Mission.ID,
				QuestionID:          fx.Questions[i].ID,
				OptionID:            fx.Correct[i].ID,
				CurrentCorrectCount: i,
				TotalQuestions:      2,
				Completed:           i == 1,
			})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
	}

	total, err := svc.GetTotalCorrect(student.ID)
	if err != nil {
		t.Fatalf("total correct: %v", err)
	}
	if total != 4 {
		t.Fatalf("total correct = %d, want 4", total)
	}
}

func TestGetMissionContentHidesAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	fx := createPublishedMission(t, db, teacher.ID, 3)

	content, err := svc.GetMissionContent(context.Background(), fx.Mission.ID)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if len(content.Questions) != 3 {
		t.Fatalf("question count = %d, want 3", len(content.Questions))
	}
	for i := 1; i < len(content.Questions); i++ {
		if content.Questions[i].OrderIndex <= content.Questions[i-1].OrderIndex {
			t.Fatal("questions not in play order")
		}
	}
	for _, opts := range content.OptionsByQuestion {
		if len(opts) != 2 {
			t.Fatalf("option count = %d, want 2", len(opts))
		}
	}
}

func TestAttemptLimitPerQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	fx := createPublishedMission(t, db, teacher.ID, 2)
	class := createClassWithStudent(t, db, teacher.ID, student.ID)

	limit := 2
	mc := &model.MissionClass{
		MissionID:              fx.Mission.ID,
		ClassID:                class.ID,
		OrderIndex:             1,
		MaxAttemptsPerQuestion: &limit,
	}
	if err := db.Create(mc).Error; err != nil {
		t.Fatalf("assign: %v", err)
	}

	req := SubmitAnswerRequest{
		MissionID:      fx.Mission.ID,
		QuestionID:     fx.Questions[0].ID,
		OptionID:       fx.Wrong[0].ID,
		TotalQuestions: 2,
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.SubmitAnswer(context.Background(), student.ID, req); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	_, err := svc.SubmitAnswer(context.Background(), student.ID, req)
	if !errors.Is(err, util.ErrAttemptLimitExceeded) {
		t.Fatalf("err = %v, want ErrAttemptLimitExceeded", err)
	}
}
