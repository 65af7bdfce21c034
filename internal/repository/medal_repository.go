package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
)

type MedalRepository struct {
	DB *gorm.DB
}

func NewMedalRepository(db *gorm.DB) *MedalRepository {
	return &MedalRepository{DB: db}
}

// List returns the catalog ascending by threshold, the order the evaluator
// and the client both rely on.
func (r *MedalRepository) List() ([]model.Medal, error) {
	var medals []model.Medal
	err := r.DB.Order("required_correct asc").Find(&medals).Error
	return medals, err
}

func (r *MedalRepository) FindByID(id string) (*model.Medal, error) {
	var m model.Medal
	if err := r.DB.First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedalRepository) Create(m *model.Medal) error {
	return r.DB.Create(m).Error
}

func (r *MedalRepository) Update(m *model.Medal) error {
	return r.DB.Save(m).Error
}

func (r *MedalRepository) Delete(id string) error {
	return r.DB.Delete(&model.Medal{}, "id = ?", id).Error
}
