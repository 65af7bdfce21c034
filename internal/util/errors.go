package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrMissionNotFound       = errors.New("mission not found")
	ErrMissionNotPublished   = errors.New("mission not published")
	ErrMissionLocked         = errors.New("published mission content cannot be edited")
	ErrMissionNotReady       = errors.New("mission needs at least one question with a correct option")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrOptionNotFound        = errors.New("option not found")
	ErrOptionMismatch        = errors.New("option does not belong to question")
	ErrQuestionMismatch      = errors.New("question does not belong to mission")
	ErrClassNotFound         = errors.New("class not found")
	ErrAlreadyEnrolled       = errors.New("already enrolled in class")
	ErrNotEnrolled           = errors.New("student not enrolled in class")
	ErrMedalNotFound         = errors.New("medal not found")
	ErrInsufficientCoins     = errors.New("insufficient coin balance")
	ErrItemAlreadyOwned      = errors.New("item already purchased")
	ErrItemNotFound          = errors.New("store item not found")
	ErrItemNotOwned          = errors.New("item not purchased")
	ErrAttemptLimitExceeded  = errors.New("attempt limit for question reached")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrTotalQuestionMismatch = errors.New("total question count does not match mission")
)
