package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MissionRepository struct {
	DB *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{DB: db}
}

func (r *MissionRepository) Create(mission *model.Mission) error {
	return r.DB.Create(mission).Error
}

func (r *MissionRepository) Update(mission *model.Mission) error {
	return r.DB.Save(mission).Error
}

func (r *MissionRepository) Delete(id string) error {
	return r.DB.Delete(&model.Mission{}, "id = ?", id).Error
}

func (r *MissionRepository) FindByID(id string) (*model.Mission, error) {
	var mission model.Mission
	if err := r.DB.First(&mission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *MissionRepository) ListByCreator(creatorID string) ([]model.Mission, error) {
	var missions []model.Mission
	query := r.DB.Model(&model.Mission{}).Order("created_at desc")
	if creatorID != "" {
		query = query.Where("created_by = ?", creatorID)
	}
	err := query.Find(&missions).Error
	return missions, err
}

func (r *MissionRepository) ListPublishedByIDs(ids []string) ([]model.Mission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var missions []model.Mission
	err := r.DB.Where("id IN ? AND status = ?", ids, model.MissionStatusPublished).
		Order("created_at desc").
		Find(&missions).Error
	return missions, err
}

// Questions

func (r *MissionRepository) CreateQuestion(q *model.MissionQuestion) error {
	return r.DB.Create(q).Error
}

func (r *MissionRepository) UpdateQuestion(q *model.MissionQuestion) error {
	return r.DB.Save(q).Error
}

func (r *MissionRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.MissionQuestion{}, "id = ?", id).Error
}

func (r *MissionRepository) FindQuestionByID(id string) (*model.MissionQuestion, error) {
	var q model.MissionQuestion
	if err := r.DB.First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// QuestionsByMission returns the mission's questions ascending by order
// index — the presentation sequence the client plays through.
func (r *MissionRepository) QuestionsByMission(missionID string) ([]model.MissionQuestion, error) {
	var qs []model.MissionQuestion
	err := r.DB.Where("mission_id = ?", missionID).Order("order_index asc").Find(&qs).Error
	return qs, err
}

func (r *MissionRepository) CountQuestions(missionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MissionQuestion{}).Where("mission_id = ?", missionID).Count(&count).Error
	return count, err
}

func (r *MissionRepository) MaxOrderIndex(missionID string) (int, error) {
	var max *int
	err := r.DB.Model(&model.MissionQuestion{}).
		Where("mission_id = ?", missionID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

// Options

func (r *MissionRepository) CreateOption(o *model.MissionOption) error {
	return r.DB.Create(o).Error
}

func (r *MissionRepository) UpdateOption(o *model.MissionOption) error {
	return r.DB.Save(o).Error
}

func (r *MissionRepository) DeleteOption(id string) error {
	return r.DB.Delete(&model.MissionOption{}, "id = ?", id).Error
}

func (r *MissionRepository) FindOptionByID(id string) (*model.MissionOption, error) {
	var o model.MissionOption
	if err := r.DB.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MissionRepository) OptionsByQuestionIDs(questionIDs []string) ([]model.MissionOption, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var opts []model.MissionOption
	err := r.DB.Where("question_id IN ?", questionIDs).Find(&opts).Error
	return opts, err
}

// ClearCorrectFlags resets is_correct on every option of a question so a
// single option can be marked as the correct one afterwards.
func (r *MissionRepository) ClearCorrectFlags(questionID string) error {
	return r.DB.Model(&model.MissionOption{}).
		Where("question_id = ?", questionID).
		Update("is_correct", false).Error
}

// Class assignments

func (r *MissionRepository) AssignToClass(mc *model.MissionClass) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mission_id"}, {Name: "class_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"order_index", "added_by", "max_attempts_per_question"}),
	}).Create(mc).Error
}

func (r *MissionRepository) UnassignFromClass(missionID, classID string) error {
	return r.DB.Where("mission_id = ? AND class_id = ?", missionID, classID).
		Delete(&model.MissionClass{}).Error
}

func (r *MissionRepository) AssignmentsByMission(missionID string) ([]model.MissionClass, error) {
	var mcs []model.MissionClass
	err := r.DB.Where("mission_id = ?", missionID).Find(&mcs).Error
	return mcs, err
}

func (r *MissionRepository) AssignmentsByClassIDs(classIDs []string) ([]model.MissionClass, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	var mcs []model.MissionClass
	err := r.DB.Where("class_id IN ?", classIDs).Find(&mcs).Error
	return mcs, err
}
