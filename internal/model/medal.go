package model

// Medal is a catalog entry unlocked when a student's global correct-answer
// count crosses RequiredCorrect. Unlocks are recomputed from the monotonic
// totals every time; no "unlocked" row is persisted.
type Medal struct {
	UUIDBase
	Title           string `gorm:"size:100;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	RequiredCorrect int    `gorm:"not null" json:"requiredCorrect"`
}

func (Medal) TableName() string {
	return "medals"
}
