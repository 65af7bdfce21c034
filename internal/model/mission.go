package model

const (
	MissionStatusDraft     = "draft"
	MissionStatusPublished = "published"
)

// Mission is the playable unit: an ordered set of questions.
type Mission struct {
	UUIDBase
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"type:varchar(20);default:'draft'" json:"status"`
	CreatedBy   string `gorm:"index;type:varchar(36)" json:"createdBy"`
}

func (Mission) TableName() string {
	return "missions"
}

// MissionQuestion belongs to exactly one mission. OrderIndex is unique per
// mission and defines the presentation sequence.
type MissionQuestion struct {
	UUIDBase
	MissionID  string `gorm:"type:varchar(36);not null;uniqueIndex:idx_mission_order" json:"missionId"`
	Prompt     string `gorm:"type:text;not null" json:"prompt"`
	OrderIndex int    `gorm:"not null;uniqueIndex:idx_mission_order" json:"orderIndex"`
}

func (MissionQuestion) TableName() string {
	return "mission_questions"
}

// MissionOption belongs to exactly one question. Authoring keeps at least one
// option per question flagged correct; the orchestrator assumes that holds.
type MissionOption struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (MissionOption) TableName() string {
	return "mission_options"
}

// MissionClass assigns a mission to a class. Upsert keyed on
// (mission_id, class_id) so re-assigning updates in place.
type MissionClass struct {
	ID                     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MissionID              string `gorm:"type:varchar(36);not null;uniqueIndex:idx_mission_class" json:"missionId"`
	ClassID                string `gorm:"type:varchar(36);not null;uniqueIndex:idx_mission_class;index" json:"classId"`
	OrderIndex             int    `gorm:"default:0" json:"orderIndex"`
	AddedBy                string `gorm:"type:varchar(36)" json:"addedBy"`
	MaxAttemptsPerQuestion *int   `json:"maxAttemptsPerQuestion,omitempty"`
}

func (MissionClass) TableName() string {
	return "mission_classes"
}
