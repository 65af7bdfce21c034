package service

import (
	"context"
	"errors"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"

	"gorm.io/gorm"
)

// StoreItem is a cosmetic students spend coins on. The catalog is fixed in
// code: items change with releases, not at runtime.
type StoreItem struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

var storeCatalog = []StoreItem{
	{Key: "frame-nebula", Name: "Moldura Nebulosa", Price: 50},
	{Key: "frame-comet", Name: "Moldura Cometa", Price: 80},
	{Key: "frame-galaxy", Name: "Moldura Galáxia", Price: 120},
	{Key: "frame-supernova", Name: "Moldura Supernova", Price: 200},
}

type StoreService struct {
	PurchaseRepo *repository.PurchaseRepository
	ProfileRepo  *repository.ProfileRepository
	DB           *gorm.DB
	Notifier     *notify.Publisher
}

func NewStoreService(
	purchaseRepo *repository.PurchaseRepository,
	profileRepo *repository.ProfileRepository,
	db *gorm.DB,
	notifier *notify.Publisher,
) *StoreService {
	return &StoreService{
		PurchaseRepo: purchaseRepo,
		ProfileRepo:  profileRepo,
		DB:           db,
		Notifier:     notifier,
	}
}

func (s *StoreService) Catalog() []StoreItem {
	return storeCatalog
}

func findItem(key string) (StoreItem, bool) {
	for _, item := range storeCatalog {
		if item.Key == key {
			return item, true
		}
	}
	return StoreItem{}, false
}

// OwnedKeys lists the item keys a profile has purchased.
func (s *StoreService) OwnedKeys(profileID string) ([]string, error) {
	purchases, err := s.PurchaseRepo.ListByProfile(profileID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(purchases))
	for i, p := range purchases {
		keys[i] = p.ItemKey
	}
	return keys, nil
}

// Purchase debits the coins and records the purchase atomically. Owning the
// item already or not affording it aborts without writes.
func (s *StoreService) Purchase(ctx context.Context, profileID, itemKey string) (*model.Purchase, error) {
	item, ok := findItem(itemKey)
	if !ok {
		return nil, util.ErrItemNotFound
	}

	var purchase *model.Purchase
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Purchase{}).
			Where("profile_id = ? AND item_key = ?", profileID, itemKey).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrItemAlreadyOwned
		}

		var profile model.Profile
		if err := tx.First(&profile, "id = ?", profileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrProfileNotFound
			}
			return err
		}
		if profile.CoinsBalance < item.Price {
			return util.ErrInsufficientCoins
		}

		profile.CoinsBalance -= item.Price
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		purchase = &model.Purchase{
			ProfileID:  profileID,
			ItemKey:    itemKey,
			CoinsSpent: item.Price,
		}
		return tx.Create(purchase).Error
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.TableChanged(ctx, "purchases", profileID)
	s.Notifier.TableChanged(ctx, "profiles", profileID)
	return purchase, nil
}
