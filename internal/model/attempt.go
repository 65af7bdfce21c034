package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attempt is an immutable fact: one answer submission. Rows are never
// updated or deleted; the progress ledger, not this log, is authoritative
// for scoring.
type Attempt struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MissionID        string    `gorm:"type:varchar(36);not null;index:idx_attempt_mission_student" json:"missionId"`
	QuestionID       string    `gorm:"index;type:varchar(36);not null" json:"questionId"`
	StudentID        string    `gorm:"type:varchar(36);not null;index:idx_attempt_mission_student,priority:2" json:"studentId"`
	SelectedOptionID string    `gorm:"type:varchar(36);not null" json:"selectedOptionId"`
	IsCorrect        bool      `gorm:"not null" json:"isCorrect"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
