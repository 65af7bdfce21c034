package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"gorm.io/gorm"
)

func newTestClassService(db *gorm.DB) *ClassService {
	return NewClassService(
		repository.NewClassRepository(db),
		repository.NewProfileRepository(db),
		repository.NewProgressRepository(db),
		repository.NewMissionRepository(db),
		nil,
	)
}

func TestJoinByCode(t *testing.T) {
	db := newTestDB(t)
	svc := newTestClassService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")

	class, err := svc.CreateClass(teacher.ID, "Turma B")
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if len(class.Code) != joinCodeLength {
		t.Fatalf("code length = %d, want %d", len(class.Code), joinCodeLength)
	}

	joined, err := svc.JoinByCode(context.Background(), student.ID, class.Code)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != class.ID {
		t.Fatalf("joined class %s, want %s", joined.ID, class.ID)
	}

	_, err = svc.JoinByCode(context.Background(), student.ID, class.Code)
	if !errors.Is(err, util.ErrAlreadyEnrolled) {
		t.Fatalf("err = %v, want ErrAlreadyEnrolled", err)
	}

	_, err = svc.JoinByCode(context.Background(), student.ID, "NOSUCH")
	if !errors.Is(err, util.ErrClassNotFound) {
		t.Fatalf("err = %v, want ErrClassNotFound", err)
	}
}

func TestMemberProgressRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newTestClassService(db)
	owner := createTeacher(t, db, "owner")
	other := createTeacher(t, db, "other")
	student := createStudent(t, db, "student1")
	class := createClassWithStudent(t, db, owner.ID, student.ID)

	_, err := svc.MemberProgress(class.ID, other.ID)
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}

	rows, err := svc.MemberProgress(class.ID, owner.ID)
	if err != nil {
		t.Fatalf("member progress: %v", err)
	}
	if len(rows) != 1 || rows[0].Student.ID != student.ID {
		t.Fatalf("rows = %+v, want the one enrolled student", rows)
	}
}

func TestMemberProgressAggregates(t *testing.T) {
	db := newTestDB(t)
	classSvc := newTestClassService(db)
	missionSvc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	class := createClassWithStudent(t, db, teacher.ID, student.ID)
	fx := createPublishedMission(t, db, teacher.ID, 2)
	assignMission(t, db, fx.Mission.ID, class.ID, 1)

	for i := 0; i < 2; i++ {
		if _, err := missionSvc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
			MissionID:           fx.Mission.ID,
			QuestionID:          fx.Questions[i].ID,
			OptionID:            fx.Correct[i].ID,
			CurrentCorrectCount: i,
			TotalQuestions:      2,
			Completed:           i == 1,
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	rows, err := classSvc.MemberProgress(class.ID, teacher.ID)
	if err != nil {
		t.Fatalf("member progress: %v", err)
	}
	if rows[0].TotalCorrect != 2 {
		t.Fatalf("total correct = %d, want 2", rows[0].TotalCorrect)
	}
	if rows[0].MissionsCompleted != 1 {
		t.Fatalf("missions completed = %d, want 1", rows[0].MissionsCompleted)
	}
}
