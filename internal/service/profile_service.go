package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"

	"gorm.io/gorm"
)

const leaderboardSize = 20

type ProfileService struct {
	ProfileRepo  *repository.ProfileRepository
	ProgressRepo *repository.ProgressRepository
	PurchaseRepo *repository.PurchaseRepository
	Storage      *StorageService
	Notifier     *notify.Publisher
}

func NewProfileService(
	profileRepo *repository.ProfileRepository,
	progressRepo *repository.ProgressRepository,
	purchaseRepo *repository.PurchaseRepository,
	storage *StorageService,
	notifier *notify.Publisher,
) *ProfileService {
	return &ProfileService{
		ProfileRepo:  profileRepo,
		ProgressRepo: progressRepo,
		PurchaseRepo: purchaseRepo,
		Storage:      storage,
		Notifier:     notifier,
	}
}

// ProfileView is the self-profile screen: account data plus the cumulative
// correctness total driving medal unlocks.
type ProfileView struct {
	Profile      model.Profile `json:"profile"`
	TotalCorrect int           `json:"totalCorrect"`
}

func (s *ProfileService) Get(profileID string) (*ProfileView, error) {
	profile, err := s.ProfileRepo.FindByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	total, err := s.ProgressRepo.SumCorrectByStudent(profileID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: *profile, TotalCorrect: total}, nil
}

// LeaderboardEntry omits everything but what the ranking screen shows.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	AvatarFrame string `json:"avatarFrame"`
	AvatarURL   string `json:"avatarUrl"`
	XPTotal     int    `json:"xpTotal"`
}

// Leaderboard ranks the top students by lifetime XP.
func (s *ProfileService) Leaderboard() ([]LeaderboardEntry, error) {
	profiles, err := s.ProfileRepo.FindTopByXP(leaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, len(profiles))
	for i, p := range profiles {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			Name:        p.Name,
			AvatarFrame: p.AvatarFrame,
			AvatarURL:   p.AvatarURL,
			XPTotal:     p.XPTotal,
		}
	}
	return entries, nil
}

// UploadAvatar stores the image and points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, profileID string, file *multipart.FileHeader) (string, error) {
	profile, err := s.ProfileRepo.FindByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrProfileNotFound
		}
		return "", err
	}

	url, err := s.Storage.SaveAvatar(ctx, profileID, file)
	if err != nil {
		return "", err
	}

	profile.AvatarURL = url
	if err := s.ProfileRepo.Update(profile); err != nil {
		return "", err
	}
	s.Notifier.TableChanged(ctx, "profiles", profileID)
	return url, nil
}

// EquipFrame sets the active avatar frame. Only purchased frames equip;
// an empty key clears the frame.
func (s *ProfileService) EquipFrame(ctx context.Context, profileID, itemKey string) error {
	profile, err := s.ProfileRepo.FindByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProfileNotFound
		}
		return err
	}

	if itemKey != "" {
		owned, err := s.PurchaseRepo.Exists(profileID, itemKey)
		if err != nil {
			return err
		}
		if !owned {
			return util.ErrItemNotOwned
		}
	}

	profile.AvatarFrame = itemKey
	if err := s.ProfileRepo.Update(profile); err != nil {
		return err
	}
	s.Notifier.TableChanged(ctx, "profiles", profileID)
	return nil
}
