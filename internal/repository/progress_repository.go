package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository reads the per-(student, mission) scoring ledger.
// Ledger writes go through the submission transaction.
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(missionID, studentID string) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.Where("mission_id = ? AND student_id = ?", missionID, studentID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) ListByStudent(studentID string) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.Where("student_id = ?", studentID).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) ListByMission(missionID string) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.Where("mission_id = ?", missionID).Find(&rows).Error
	return rows, err
}

// SumCorrectByStudent is the student's global correct-answer count, the
// baseline medal thresholds are evaluated against.
func (r *ProgressRepository) SumCorrectByStudent(studentID string) (int, error) {
	var total *int64
	err := r.DB.Model(&model.Progress{}).
		Where("student_id = ?", studentID).
		Select("SUM(correct_count)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return int(*total), nil
}
