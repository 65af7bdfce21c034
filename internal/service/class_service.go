package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/logger"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Join codes skip ambiguous characters (0/O, 1/I).
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const joinCodeLength = 6

type ClassService struct {
	ClassRepo    *repository.ClassRepository
	ProfileRepo  *repository.ProfileRepository
	ProgressRepo *repository.ProgressRepository
	MissionRepo  *repository.MissionRepository
	Notifier     *notify.Publisher
}

func NewClassService(
	classRepo *repository.ClassRepository,
	profileRepo *repository.ProfileRepository,
	progressRepo *repository.ProgressRepository,
	missionRepo *repository.MissionRepository,
	notifier *notify.Publisher,
) *ClassService {
	return &ClassService{
		ClassRepo:    classRepo,
		ProfileRepo:  profileRepo,
		ProgressRepo: progressRepo,
		MissionRepo:  missionRepo,
		Notifier:     notifier,
	}
}

// CreateClass creates a class owned by the teacher with a fresh join code.
// Code collisions retry with a new code.
func (s *ClassService) CreateClass(teacherID, name string) (*model.Class, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, err
		}
		class := &model.Class{Name: name, Code: code, TeacherID: teacherID}
		if err := s.ClassRepo.Create(class); err != nil {
			if isDuplicateKey(err) {
				continue
			}
			return nil, err
		}
		logger.Log.Info("class created", zap.String("classId", class.ID), zap.String("code", code))
		return class, nil
	}
	return nil, errors.New("could not allocate a unique join code")
}

// JoinByCode enrolls a student into the class behind a join code.
func (s *ClassService) JoinByCode(ctx context.Context, studentID, code string) (*model.Class, error) {
	class, err := s.ClassRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}

	enrolled, err := s.ClassRepo.IsEnrolled(class.ID, studentID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	if err := s.ClassRepo.Enroll(&model.Enrollment{ClassID: class.ID, StudentID: studentID}); err != nil {
		if isDuplicateKey(err) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.Notifier.TableChanged(ctx, "enrollments", class.ID, studentID)
	return class, nil
}

// ListForProfile returns the classes a profile belongs to: owned classes for
// teachers, enrolled classes for students.
func (s *ClassService) ListForProfile(profileID string, role model.ProfileRole) ([]model.Class, error) {
	if role == model.RoleTeacher || role == model.RoleCoordinator {
		return s.ClassRepo.ListByTeacher(profileID)
	}
	classIDs, err := s.ClassRepo.ClassIDsByStudent(profileID)
	if err != nil {
		return nil, err
	}
	if len(classIDs) == 0 {
		return []model.Class{}, nil
	}
	return s.ClassRepo.ListByIDs(classIDs)
}

// ClassMemberProgress is one row of the teacher's class dashboard.
type ClassMemberProgress struct {
	Student           model.Profile `json:"student"`
	TotalCorrect      int           `json:"totalCorrect"`
	MissionsCompleted int           `json:"missionsCompleted"`
}

// MemberProgress lists every student in the class with their cumulative
// correct answers and how many of the class's missions they completed.
// Only the owning teacher may see it.
func (s *ClassService) MemberProgress(classID, requesterID string) ([]ClassMemberProgress, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	if class.TeacherID != requesterID {
		return nil, util.ErrPermissionDenied
	}

	studentIDs, err := s.ClassRepo.StudentIDsByClass(classID)
	if err != nil {
		return nil, err
	}
	if len(studentIDs) == 0 {
		return []ClassMemberProgress{}, nil
	}

	students, err := s.ProfileRepo.FindByIDs(studentIDs)
	if err != nil {
		return nil, err
	}

	assignments, err := s.MissionRepo.AssignmentsByClassIDs([]string{classID})
	if err != nil {
		return nil, err
	}
	classMissions := map[string]bool{}
	for _, a := range assignments {
		classMissions[a.MissionID] = true
	}

	rows := make([]ClassMemberProgress, 0, len(students))
	for _, student := range students {
		progress, err := s.ProgressRepo.ListByStudent(student.ID)
		if err != nil {
			return nil, err
		}
		row := ClassMemberProgress{Student: student}
		for _, p := range progress {
			row.TotalCorrect += p.CorrectCount
			if p.Completed && classMissions[p.MissionID] {
				row.MissionsCompleted++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func generateJoinCode() (string, error) {
	code := make([]byte, joinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
