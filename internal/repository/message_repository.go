package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(msg *model.ClassMessage) error {
	return r.DB.Create(msg).Error
}

func (r *MessageRepository) ListByClass(classID string, limit int) ([]model.ClassMessage, error) {
	var msgs []model.ClassMessage
	query := r.DB.Where("class_id = ?", classID).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) Delete(id string) error {
	return r.DB.Delete(&model.ClassMessage{}, "id = ?", id).Error
}

func (r *MessageRepository) FindByID(id string) (*model.ClassMessage, error) {
	var msg model.ClassMessage
	if err := r.DB.First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}
