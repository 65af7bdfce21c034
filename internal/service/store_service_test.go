package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"gorm.io/gorm"
)

func newTestStoreService(db *gorm.DB) *StoreService {
	return NewStoreService(
		repository.NewPurchaseRepository(db),
		repository.NewProfileRepository(db),
		db, nil,
	)
}

func TestPurchaseDebitsCoins(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStoreService(db)
	student := createStudent(t, db, "student1")
	db.Model(student).Update("coins_balance", 100)

	purchase, err := svc.Purchase(context.Background(), student.ID, "frame-nebula")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if purchase.CoinsSpent != 50 {
		t.Fatalf("coins spent = %d, want 50", purchase.CoinsSpent)
	}

	profile := loadProfile(t, db, student.ID)
	if profile.CoinsBalance != 50 {
		t.Fatalf("balance = %d, want 50", profile.CoinsBalance)
	}
}

func TestPurchaseRejectsInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStoreService(db)
	student := createStudent(t, db, "student1")
	db.Model(student).Update("coins_balance", 10)

	_, err := svc.Purchase(context.Background(), student.ID, "frame-nebula")
	if !errors.Is(err, util.ErrInsufficientCoins) {
		t.Fatalf("err = %v, want ErrInsufficientCoins", err)
	}

	// The failed purchase must leave no trace.
	profile := loadProfile(t, db, student.ID)
	if profile.CoinsBalance != 10 {
		t.Fatalf("balance = %d, want untouched 10", profile.CoinsBalance)
	}
	var count int64
	db.Table("purchases").Count(&count)
	if count != 0 {
		t.Fatalf("purchase rows = %d, want 0", count)
	}
}

func TestPurchaseRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStoreService(db)
	student := createStudent(t, db, "student1")
	db.Model(student).Update("coins_balance", 500)

	if _, err := svc.Purchase(context.Background(), student.ID, "frame-comet"); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	_, err := svc.Purchase(context.Background(), student.ID, "frame-comet")
	if !errors.Is(err, util.ErrItemAlreadyOwned) {
		t.Fatalf("err = %v, want ErrItemAlreadyOwned", err)
	}

	profile := loadProfile(t, db, student.ID)
	if profile.CoinsBalance != 420 {
		t.Fatalf("balance = %d, want 420 (one debit of 80)", profile.CoinsBalance)
	}
}

func TestPurchaseRejectsUnknownItem(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStoreService(db)
	student := createStudent(t, db, "student1")

	_, err := svc.Purchase(context.Background(), student.ID, "frame-imaginary")
	if !errors.Is(err, util.ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}
