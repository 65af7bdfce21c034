package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

func (r *PurchaseRepository) ListByProfile(profileID string) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.DB.Where("profile_id = ?", profileID).Order("created_at desc").Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) Exists(profileID, itemKey string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Purchase{}).
		Where("profile_id = ? AND item_key = ?", profileID, itemKey).
		Count(&count).Error
	return count > 0, err
}
