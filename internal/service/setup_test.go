package service

import (
	"fmt"
	"testing"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named in-memory database so every pooled connection sees the same
	// schema; the name keeps parallel tests isolated from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestMissionService(db *gorm.DB) *MissionService {
	return NewMissionService(
		repository.NewMissionRepository(db),
		repository.NewClassRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewProgressRepository(db),
		db, nil, nil,
	)
}

func createStudent(t *testing.T, db *gorm.DB, name string) *model.Profile {
	t.Helper()
	profile := &model.Profile{
		Name:     name,
		Email:    name + "@test.local",
		Password: "hashed",
		Role:     model.RoleStudent,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return profile
}

func createTeacher(t *testing.T, db *gorm.DB, name string) *model.Profile {
	t.Helper()
	profile := &model.Profile{
		Name:     name,
		Email:    name + "@test.local",
		Password: "hashed",
		Role:     model.RoleTeacher,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	return profile
}

type missionFixture struct {
	Mission   *model.Mission
	Questions []*model.MissionQuestion
	// Correct[i] and Wrong[i] are options of Questions[i].
	Correct []*model.MissionOption
	Wrong   []*model.MissionOption
}

// createPublishedMission builds a published mission with numQuestions
// questions, each carrying one correct and one wrong option.
func createPublishedMission(t *testing.T, db *gorm.DB, teacherID string, numQuestions int) *missionFixture {
	t.Helper()
	mission := &model.Mission{
		Title:     "Sistema Solar",
		Status:    model.MissionStatusPublished,
		CreatedBy: teacherID,
	}
	if err := db.Create(mission).Error; err != nil {
		t.Fatalf("create mission: %v", err)
	}

	fixture := &missionFixture{Mission: mission}
	for i := 0; i < numQuestions; i++ {
		q := &model.MissionQuestion{
			MissionID:  mission.ID,
			Prompt:     fmt.Sprintf("Pergunta %d", i+1),
			OrderIndex: i + 1,
		}
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		correct := &model.MissionOption{QuestionID: q.ID, Text: "certa", IsCorrect: true}
		wrong := &model.MissionOption{QuestionID: q.ID, Text: "errada", IsCorrect: false}
		if err := db.Create(correct).Error; err != nil {
			t.Fatalf("create option: %v", err)
		}
		if err := db.Create(wrong).Error; err != nil {
			t.Fatalf("create option: %v", err)
		}
		fixture.Questions = append(fixture.Questions, q)
		fixture.Correct = append(fixture.Correct, correct)
		fixture.Wrong = append(fixture.Wrong, wrong)
	}
	return fixture
}

func createClassWithStudent(t *testing.T, db *gorm.DB, teacherID, studentID string) *model.Class {
	t.Helper()
	class := &model.Class{Name: "Turma A", Code: model.GenerateUUID()[:8], TeacherID: teacherID}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}
	if studentID != "" {
		enrollment := &model.Enrollment{ClassID: class.ID, StudentID: studentID}
		if err := db.Create(enrollment).Error; err != nil {
			t.Fatalf("enroll student: %v", err)
		}
	}
	return class
}

func assignMission(t *testing.T, db *gorm.DB, missionID, classID string, order int) {
	t.Helper()
	mc := &model.MissionClass{MissionID: missionID, ClassID: classID, OrderIndex: order}
	if err := db.Create(mc).Error; err != nil {
		t.Fatalf("assign mission: %v", err)
	}
}

func loadProfile(t *testing.T, db *gorm.DB, id string) *model.Profile {
	t.Helper()
	var profile model.Profile
	if err := db.First(&profile, "id = ?", id).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return &profile
}

func loadProgress(t *testing.T, db *gorm.DB, missionID, studentID string) *model.Progress {
	t.Helper()
	var progress model.Progress
	err := db.Where("mission_id = ? AND student_id = ?", missionID, studentID).First(&progress).Error
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	return &progress
}
