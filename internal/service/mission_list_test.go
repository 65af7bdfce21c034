package service

import (
	"context"
	"testing"
)

func TestListStudentMissionsOrderAndLocking(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	class := createClassWithStudent(t, db, teacher.ID, student.ID)

	first := createPublishedMission(t, db, teacher.ID, 1)
	second := createPublishedMission(t, db, teacher.ID, 1)
	third := createPublishedMission(t, db, teacher.ID, 1)
	assignMission(t, db, second.Mission.ID, class.ID, 2)
	assignMission(t, db, first.Mission.ID, class.ID, 1)
	assignMission(t, db, third.Mission.ID, class.ID, 3)

	views, err := svc.ListStudentMissions(student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("mission count = %d, want 3", len(views))
	}
	if views[0].Mission.ID != first.Mission.ID || views[2].Mission.ID != third.Mission.ID {
		t.Fatal("missions not in assignment order")
	}
	if views[0].Locked {
		t.Fatal("first mission must be playable")
	}
	if !views[1].Locked || !views[2].Locked {
		t.Fatal("later missions must stay locked before the first is completed")
	}

	// Completing the first unlocks exactly the second.
	if _, err := svc.SubmitAnswer(context.Background(), student.ID, SubmitAnswerRequest{
		MissionID:      first.Mission.ID,
		QuestionID:     first.Questions[0].ID,
		OptionID:       first.Correct[0].ID,
		TotalQuestions: 1,
		Completed:      true,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	views, err = svc.ListStudentMissions(student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !views[0].Completed {
		t.Fatal("first mission should be completed")
	}
	if views[1].Locked {
		t.Fatal("second mission should have unlocked")
	}
	if !views[2].Locked {
		t.Fatal("third mission should stay locked")
	}
}

func TestListStudentMissionsExcludesDrafts(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	authoring := newTestAuthoringService(db)
	teacher := createTeacher(t, db, "teacher1")
	student := createStudent(t, db, "student1")
	class := createClassWithStudent(t, db, teacher.ID, student.ID)

	published := createPublishedMission(t, db, teacher.ID, 1)
	assignMission(t, db, published.Mission.ID, class.ID, 1)

	draft, err := authoring.CreateMission(teacher.ID, "Rascunho", "")
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	assignMission(t, db, draft.ID, class.ID, 2)

	views, err := svc.ListStudentMissions(student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].Mission.ID != published.Mission.ID {
		t.Fatalf("views = %+v, want only the published mission", views)
	}
}

func TestListStudentMissionsWithoutClasses(t *testing.T) {
	db := newTestDB(t)
	svc := newTestMissionService(db)
	student := createStudent(t, db, "student1")

	views, err := svc.ListStudentMissions(student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("views = %d, want 0", len(views))
	}
}
