package service

import (
	"context"
	"errors"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"

	"gorm.io/gorm"
)

const messagePageSize = 50

// MessageService handles class announcements: teachers post to their
// classes, enrolled students read.
type MessageService struct {
	MessageRepo *repository.MessageRepository
	ClassRepo   *repository.ClassRepository
	Notifier    *notify.Publisher
}

func NewMessageService(
	messageRepo *repository.MessageRepository,
	classRepo *repository.ClassRepository,
	notifier *notify.Publisher,
) *MessageService {
	return &MessageService{MessageRepo: messageRepo, ClassRepo: classRepo, Notifier: notifier}
}

func (s *MessageService) Post(ctx context.Context, classID, authorID, content string) (*model.ClassMessage, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	if class.TeacherID != authorID {
		return nil, util.ErrPermissionDenied
	}

	msg := &model.ClassMessage{ClassID: classID, AuthorID: authorID, Body: content}
	if err := s.MessageRepo.Create(msg); err != nil {
		return nil, err
	}
	s.Notifier.TableChanged(ctx, "class_messages", classID)
	return msg, nil
}

// List returns the newest announcements of a class. Readers must own the
// class or be enrolled in it.
func (s *MessageService) List(classID, requesterID string, role model.ProfileRole) ([]model.ClassMessage, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}

	if class.TeacherID != requesterID && role != model.RoleCoordinator {
		enrolled, err := s.ClassRepo.IsEnrolled(classID, requesterID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, util.ErrNotEnrolled
		}
	}

	return s.MessageRepo.ListByClass(classID, messagePageSize)
}

func (s *MessageService) Delete(messageID, requesterID string) error {
	msg, err := s.MessageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if msg.AuthorID != requesterID {
		return util.ErrPermissionDenied
	}
	return s.MessageRepo.Delete(messageID)
}
