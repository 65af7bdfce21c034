package model

import "time"

type ProfileRole string

const (
	RoleStudent     ProfileRole = "student"
	RoleTeacher     ProfileRole = "teacher"
	RoleCoordinator ProfileRole = "coordinator"
)

// Profile is the account record behind every user. XPTotal and CoinsBalance
// are the reward account: running sums across all missions, mutated only by
// the submission orchestrator and the store.
type Profile struct {
	UUIDBase
	Name         string      `gorm:"size:100;not null" json:"name"`
	Email        string      `gorm:"size:100;unique;not null" json:"email"`
	Password     string      `gorm:"size:100;not null" json:"-"`
	Role         ProfileRole `gorm:"type:varchar(20);default:'student'" json:"role"`
	XPTotal      int         `gorm:"default:0" json:"xpTotal"`
	CoinsBalance int         `gorm:"default:0" json:"coinsBalance"`
	AvatarFrame  string      `gorm:"size:100" json:"avatarFrame"`
	AvatarURL    string      `gorm:"size:255" json:"avatarUrl"`
	LastLogin    *time.Time  `json:"lastLogin"`
}

func (Profile) TableName() string {
	return "profiles"
}
