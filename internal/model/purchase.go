package model

// Purchase records a cosmetic bought from the store with mission coins.
type Purchase struct {
	UUIDBase
	ProfileID  string `gorm:"index;type:varchar(36);not null" json:"profileId"`
	ItemKey    string `gorm:"size:100;not null" json:"itemKey"`
	CoinsSpent int    `gorm:"not null" json:"coinsSpent"`
}

func (Purchase) TableName() string {
	return "purchases"
}
