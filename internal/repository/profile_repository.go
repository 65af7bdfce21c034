package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) Create(profile *model.Profile) error {
	return r.DB.Create(profile).Error
}

func (r *ProfileRepository) Update(profile *model.Profile) error {
	return r.DB.Save(profile).Error
}

func (r *ProfileRepository) FindByID(id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.First(&profile, "id = ?", id).Error
	return &profile, err
}

func (r *ProfileRepository) FindByEmail(email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.Where("email = ?", email).First(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) FindTopByXP(limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.DB.Where("role = ?", model.RoleStudent).
		Order("xp_total desc").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) FindByIDs(ids []string) ([]model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []model.Profile
	err := r.DB.Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}
