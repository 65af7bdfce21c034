package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
)

// AttemptRepository reads the append-only answer log. Writes happen inside
// the submission transaction, not here.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) ListByMissionStudent(missionID, studentID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("mission_id = ? AND student_id = ?", missionID, studentID).
		Order("created_at asc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByQuestionStudent(questionID, studentID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("question_id = ? AND student_id = ?", questionID, studentID).
		Count(&count).Error
	return count, err
}

// CountAnsweredQuestions counts the distinct questions a student has
// answered in a mission — the resume point for an abandoned session.
func (r *AttemptRepository) CountAnsweredQuestions(missionID, studentID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("mission_id = ? AND student_id = ?", missionID, studentID).
		Distinct("question_id").
		Count(&count).Error
	return count, err
}
