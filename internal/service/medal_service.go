package service

import (
	"errors"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/monitoring"

	"gorm.io/gorm"
)

// MedalService manages the medal catalog and evaluates unlocks against the
// student's cumulative correct-answer total.
type MedalService struct {
	MedalRepo    *repository.MedalRepository
	ProgressRepo *repository.ProgressRepository
}

func NewMedalService(medalRepo *repository.MedalRepository, progressRepo *repository.ProgressRepository) *MedalService {
	return &MedalService{MedalRepo: medalRepo, ProgressRepo: progressRepo}
}

// NewlyUnlockedMedals returns the medals whose threshold was crossed when
// the cumulative total moved from prevTotal to nextTotal. A medal unlocks
// exactly when prevTotal < required <= nextTotal, so a threshold can never
// fire twice. A negative prevTotal means the baseline is unknown and
// nothing unlocks.
func NewlyUnlockedMedals(prevTotal, nextTotal int, medals []model.Medal) []model.Medal {
	if prevTotal < 0 {
		return nil
	}
	var unlocked []model.Medal
	for _, m := range medals {
		if prevTotal < m.RequiredCorrect && m.RequiredCorrect <= nextTotal {
			unlocked = append(unlocked, m)
		}
	}
	return unlocked
}

// Catalog lists all medals ordered by threshold.
func (s *MedalService) Catalog() ([]model.Medal, error) {
	return s.MedalRepo.List()
}

// EvaluateUnlocks resolves which medals a progress change unlocked for a
// student, given how many correct answers the change added.
func (s *MedalService) EvaluateUnlocks(studentID string, correctDelta int) ([]model.Medal, error) {
	if correctDelta <= 0 {
		return nil, nil
	}
	total, err := s.ProgressRepo.SumCorrectByStudent(studentID)
	if err != nil {
		return nil, err
	}
	medals, err := s.MedalRepo.List()
	if err != nil {
		return nil, err
	}
	unlocked := NewlyUnlockedMedals(total-correctDelta, total, medals)
	for range unlocked {
		monitoring.MedalUnlocks.Inc()
	}
	return unlocked, nil
}

func (s *MedalService) Get(id string) (*model.Medal, error) {
	medal, err := s.MedalRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMedalNotFound
		}
		return nil, err
	}
	return medal, nil
}

func (s *MedalService) Create(m *model.Medal) error {
	return s.MedalRepo.Create(m)
}

func (s *MedalService) Update(id string, title, description string, requiredCorrect int) (*model.Medal, error) {
	medal, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	medal.Title = title
	medal.Description = description
	medal.RequiredCorrect = requiredCorrect
	if err := s.MedalRepo.Update(medal); err != nil {
		return nil, err
	}
	return medal, nil
}

func (s *MedalService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.MedalRepo.Delete(id)
}
