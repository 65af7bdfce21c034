package service

import (
	"context"
	"errors"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/logger"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthoringService is the teacher-side editing surface for missions.
// Question and option structure is editable while a mission is a draft;
// publishing freezes the structure so students never play a mission whose
// answer key shifts underneath them.
type AuthoringService struct {
	MissionRepo *repository.MissionRepository
	ClassRepo   *repository.ClassRepository
	Missions    *MissionService
	Notifier    *notify.Publisher
}

func NewAuthoringService(
	missionRepo *repository.MissionRepository,
	classRepo *repository.ClassRepository,
	missions *MissionService,
	notifier *notify.Publisher,
) *AuthoringService {
	return &AuthoringService{
		MissionRepo: missionRepo,
		ClassRepo:   classRepo,
		Missions:    missions,
		Notifier:    notifier,
	}
}

func (s *AuthoringService) CreateMission(creatorID, title, description string) (*model.Mission, error) {
	mission := &model.Mission{
		Title:       title,
		Description: description,
		Status:      model.MissionStatusDraft,
		CreatedBy:   creatorID,
	}
	if err := s.MissionRepo.Create(mission); err != nil {
		return nil, err
	}
	return mission, nil
}

func (s *AuthoringService) ListMissions(creatorID string) ([]model.Mission, error) {
	return s.MissionRepo.ListByCreator(creatorID)
}

// ownedMission loads a mission and checks the requester wrote it.
func (s *AuthoringService) ownedMission(missionID, requesterID string) (*model.Mission, error) {
	mission, err := s.MissionRepo.FindByID(missionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMissionNotFound
		}
		return nil, err
	}
	if mission.CreatedBy != requesterID {
		return nil, util.ErrPermissionDenied
	}
	return mission, nil
}

// ownedDraft is ownedMission plus the draft-only edit gate.
func (s *AuthoringService) ownedDraft(missionID, requesterID string) (*model.Mission, error) {
	mission, err := s.ownedMission(missionID, requesterID)
	if err != nil {
		return nil, err
	}
	if mission.Status != model.MissionStatusDraft {
		return nil, util.ErrMissionLocked
	}
	return mission, nil
}

func (s *AuthoringService) UpdateMission(ctx context.Context, missionID, requesterID, title, description string) (*model.Mission, error) {
	mission, err := s.ownedMission(missionID, requesterID)
	if err != nil {
		return nil, err
	}
	mission.Title = title
	mission.Description = description
	if err := s.MissionRepo.Update(mission); err != nil {
		return nil, err
	}
	s.Missions.InvalidateContentCache(ctx, missionID)
	return mission, nil
}

// PublishMission flips a draft to published. A mission without at least one
// question, each with a marked correct option, cannot be published.
func (s *AuthoringService) PublishMission(ctx context.Context, missionID, requesterID string) (*model.Mission, error) {
	mission, err := s.ownedDraft(missionID, requesterID)
	if err != nil {
		return nil, err
	}

	questions, err := s.MissionRepo.QuestionsByMission(missionID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrMissionNotReady
	}
	questionIDs := make([]string, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}
	options, err := s.MissionRepo.OptionsByQuestionIDs(questionIDs)
	if err != nil {
		return nil, err
	}
	hasCorrect := map[string]bool{}
	for _, o := range options {
		if o.IsCorrect {
			hasCorrect[o.QuestionID] = true
		}
	}
	for _, q := range questions {
		if !hasCorrect[q.ID] {
			return nil, util.ErrMissionNotReady
		}
	}

	mission.Status = model.MissionStatusPublished
	if err := s.MissionRepo.Update(mission); err != nil {
		return nil, err
	}
	logger.Log.Info("mission published", zap.String("missionId", missionID))
	s.Notifier.TableChanged(ctx, "missions", missionID)
	return mission, nil
}

func (s *AuthoringService) DeleteMission(missionID, requesterID string) error {
	if _, err := s.ownedDraft(missionID, requesterID); err != nil {
		return err
	}
	return s.MissionRepo.Delete(missionID)
}

// AddQuestion appends a question at the end of the mission's play order.
func (s *AuthoringService) AddQuestion(missionID, requesterID, text string) (*model.MissionQuestion, error) {
	if _, err := s.ownedDraft(missionID, requesterID); err != nil {
		return nil, err
	}
	maxOrder, err := s.MissionRepo.MaxOrderIndex(missionID)
	if err != nil {
		return nil, err
	}
	question := &model.MissionQuestion{
		MissionID:  missionID,
		Prompt:     text,
		OrderIndex: maxOrder + 1,
	}
	if err := s.MissionRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *AuthoringService) UpdateQuestion(questionID, requesterID, text string) (*model.MissionQuestion, error) {
	question, err := s.MissionRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if _, err := s.ownedDraft(question.MissionID, requesterID); err != nil {
		return nil, err
	}
	question.Prompt = text
	if err := s.MissionRepo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *AuthoringService) DeleteQuestion(questionID, requesterID string) error {
	question, err := s.MissionRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if _, err := s.ownedDraft(question.MissionID, requesterID); err != nil {
		return err
	}
	return s.MissionRepo.DeleteQuestion(questionID)
}

// AddOption adds an option to a draft question. Marking it correct clears
// the flag on the question's other options: one correct option per question.
func (s *AuthoringService) AddOption(questionID, requesterID, text string, isCorrect bool) (*model.MissionOption, error) {
	question, err := s.MissionRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if _, err := s.ownedDraft(question.MissionID, requesterID); err != nil {
		return nil, err
	}
	if isCorrect {
		if err := s.MissionRepo.ClearCorrectFlags(questionID); err != nil {
			return nil, err
		}
	}
	option := &model.MissionOption{QuestionID: questionID, Text: text, IsCorrect: isCorrect}
	if err := s.MissionRepo.CreateOption(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *AuthoringService) UpdateOption(optionID, requesterID, text string, isCorrect bool) (*model.MissionOption, error) {
	option, err := s.MissionRepo.FindOptionByID(optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrOptionNotFound
		}
		return nil, err
	}
	question, err := s.MissionRepo.FindQuestionByID(option.QuestionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDraft(question.MissionID, requesterID); err != nil {
		return nil, err
	}
	if isCorrect && !option.IsCorrect {
		if err := s.MissionRepo.ClearCorrectFlags(option.QuestionID); err != nil {
			return nil, err
		}
	}
	option.Text = text
	option.IsCorrect = isCorrect
	if err := s.MissionRepo.UpdateOption(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *AuthoringService) DeleteOption(optionID, requesterID string) error {
	option, err := s.MissionRepo.FindOptionByID(optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrOptionNotFound
		}
		return err
	}
	question, err := s.MissionRepo.FindQuestionByID(option.QuestionID)
	if err != nil {
		return err
	}
	if _, err := s.ownedDraft(question.MissionID, requesterID); err != nil {
		return err
	}
	return s.MissionRepo.DeleteOption(optionID)
}

// AssignToClass puts a published mission onto a class's mission map.
// Re-assigning updates order and attempt limit in place.
func (s *AuthoringService) AssignToClass(ctx context.Context, missionID, classID, requesterID string, orderIndex int, maxAttempts *int) error {
	mission, err := s.ownedMission(missionID, requesterID)
	if err != nil {
		return err
	}
	if mission.Status != model.MissionStatusPublished {
		return util.ErrMissionNotPublished
	}
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrClassNotFound
		}
		return err
	}
	if class.TeacherID != requesterID {
		return util.ErrPermissionDenied
	}

	assignment := &model.MissionClass{
		MissionID:              missionID,
		ClassID:                classID,
		OrderIndex:             orderIndex,
		AddedBy:                requesterID,
		MaxAttemptsPerQuestion: maxAttempts,
	}
	if err := s.MissionRepo.AssignToClass(assignment); err != nil {
		return err
	}
	s.Notifier.TableChanged(ctx, "mission_classes", missionID, classID)
	return nil
}

func (s *AuthoringService) UnassignFromClass(ctx context.Context, missionID, classID, requesterID string) error {
	if _, err := s.ownedMission(missionID, requesterID); err != nil {
		return err
	}
	if err := s.MissionRepo.UnassignFromClass(missionID, classID); err != nil {
		return err
	}
	s.Notifier.TableChanged(ctx, "mission_classes", missionID, classID)
	return nil
}
