package model

import "time"

// Progress is the per-(student, mission) scoring ledger. XPAwarded and
// CoinsAwarded carry the cumulative amounts already granted for this
// mission, not deltas; they stay zero until Completed flips true.
// Re-completing overwrites the row, it never duplicates it.
type Progress struct {
	MissionID    string    `gorm:"primaryKey;type:varchar(36)" json:"missionId"`
	StudentID    string    `gorm:"primaryKey;type:varchar(36);index" json:"studentId"`
	CorrectCount int       `gorm:"not null;default:0" json:"correctCount"`
	TotalCount   int       `gorm:"not null;default:0" json:"totalCount"`
	Completed    bool      `gorm:"not null;default:false" json:"completed"`
	XPAwarded    int       `gorm:"not null;default:0" json:"xpAwarded"`
	CoinsAwarded int       `gorm:"not null;default:0" json:"coinsAwarded"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "progress"
}
