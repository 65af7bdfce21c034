package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/logger"
	"github.com/alexandre-rezende616/spacelearn/pkg/monitoring"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reward formula: on mission completion every correct answer is worth a
// fixed amount of XP and coins. In-progress missions carry zero.
const (
	XPPerCorrect    = 10
	CoinsPerCorrect = 5
)

const missionContentCacheTTL = 10 * time.Minute

// MissionService is the mission progression and scoring engine: content
// reads, the answer submission orchestrator, availability diagnosis and the
// global correctness aggregate.
type MissionService struct {
	MissionRepo  *repository.MissionRepository
	ClassRepo    *repository.ClassRepository
	AttemptRepo  *repository.AttemptRepository
	ProgressRepo *repository.ProgressRepository
	DB           *gorm.DB
	Redis        *redis.Client
	Notifier     *notify.Publisher

	// One mutex per student: submissions for the same student serialize so
	// the ledger read-modify-write and the reward account update cannot
	// race between two devices. Independent students proceed in parallel.
	studentLocks sync.Map
}

func NewMissionService(
	missionRepo *repository.MissionRepository,
	classRepo *repository.ClassRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
	rdb *redis.Client,
	notifier *notify.Publisher,
) *MissionService {
	return &MissionService{
		MissionRepo:  missionRepo,
		ClassRepo:    classRepo,
		AttemptRepo:  attemptRepo,
		ProgressRepo: progressRepo,
		DB:           db,
		Redis:        rdb,
		Notifier:     notifier,
	}
}

// OptionView is an option as students see it: correctness never leaves the
// server on the content read path.
type OptionView struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
}

type MissionContent struct {
	Questions         []model.MissionQuestion `json:"questions"`
	OptionsByQuestion map[string][]OptionView `json:"optionsByQuestion"`
}

type AvailabilityIssue string

const (
	IssueNone        AvailabilityIssue = ""
	IssueNoClasses   AvailabilityIssue = "no-classes"
	IssueNotEnrolled AvailabilityIssue = "student-not-enrolled"
	IssueNoQuestions AvailabilityIssue = "no-questions"
)

type SubmitAnswerRequest struct {
	MissionID           string `json:"missionId" binding:"required"`
	QuestionID          string `json:"questionId" binding:"required"`
	OptionID            string `json:"optionId" binding:"required"`
	CurrentCorrectCount int    `json:"currentCorrectCount"`
	TotalQuestions      int    `json:"totalQuestions" binding:"required"`
	Completed           bool   `json:"completed"`
}

// AnswerResult is everything the client needs to advance its local state
// and detect newly unlocked medals without a full re-read.
type AnswerResult struct {
	IsCorrect          bool `json:"isCorrect"`
	NextCorrect        int  `json:"nextCorrect"`
	NextTotal          int  `json:"nextTotal"`
	Completed          bool `json:"completed"`
	DeltaXP            int  `json:"deltaXp"`
	DeltaCoins         int  `json:"deltaCoins"`
	PrevMissionCorrect int  `json:"prevMissionCorrect"`
}

// MissionResume is the stored restart point for a partially played mission:
// the ledger's correct count plus how many questions were already answered.
type MissionResume struct {
	CorrectCount  int  `json:"correctCount"`
	QuestionIndex int  `json:"questionIndex"`
	TotalCount    int  `json:"totalCount"`
	Completed     bool `json:"completed"`
}

// StudentMissionView is a mission as it appears on the student's mission
// map: catalog data merged with that student's ledger row.
type StudentMissionView struct {
	Mission      model.Mission `json:"mission"`
	OrderIndex   int           `json:"orderIndex"`
	CorrectCount int           `json:"correctCount"`
	TotalCount   int           `json:"totalCount"`
	Completed    bool          `json:"completed"`
	Locked       bool          `json:"locked"`
}

// ListStudentMissions returns the published missions assigned to any of the
// student's classes, ordered by assignment order, with the student's
// progress merged in. A mission is locked until every mission before it on
// the map is completed.
func (s *MissionService) ListStudentMissions(studentID string) ([]StudentMissionView, error) {
	classIDs, err := s.ClassRepo.ClassIDsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	if len(classIDs) == 0 {
		return []StudentMissionView{}, nil
	}

	assignments, err := s.MissionRepo.AssignmentsByClassIDs(classIDs)
	if err != nil {
		return nil, err
	}

	// The same mission can be assigned through several classes; the lowest
	// order index wins.
	orderByMission := map[string]int{}
	for _, a := range assignments {
		if existing, ok := orderByMission[a.MissionID]; !ok || a.OrderIndex < existing {
			orderByMission[a.MissionID] = a.OrderIndex
		}
	}
	missionIDs := make([]string, 0, len(orderByMission))
	for id := range orderByMission {
		missionIDs = append(missionIDs, id)
	}

	missions, err := s.MissionRepo.ListPublishedByIDs(missionIDs)
	if err != nil {
		return nil, err
	}

	progressRows, err := s.ProgressRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	progressByMission := map[string]model.Progress{}
	for _, p := range progressRows {
		progressByMission[p.MissionID] = p
	}

	views := make([]StudentMissionView, 0, len(missions))
	for _, m := range missions {
		view := StudentMissionView{Mission: m, OrderIndex: orderByMission[m.ID]}
		if p, ok := progressByMission[m.ID]; ok {
			view.CorrectCount = p.CorrectCount
			view.TotalCount = p.TotalCount
			view.Completed = p.Completed
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].OrderIndex != views[j].OrderIndex {
			return views[i].OrderIndex < views[j].OrderIndex
		}
		return views[i].Mission.ID < views[j].Mission.ID
	})
	for i := 1; i < len(views); i++ {
		views[i].Locked = views[i-1].Locked || !views[i-1].Completed
	}
	return views, nil
}

// GetMissionContent returns a published mission's questions in play order
// with their options. Zero questions is a normal empty result, not an
// error; callers diagnose the reason separately.
func (s *MissionService) GetMissionContent(ctx context.Context, missionID string) (*MissionContent, error) {
	if content, ok := s.cachedContent(ctx, missionID); ok {
		return content, nil
	}

	mission, err := s.MissionRepo.FindByID(missionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMissionNotFound
		}
		return nil, err
	}
	if mission.Status != model.MissionStatusPublished {
		return nil, util.ErrMissionNotPublished
	}

	questions, err := s.MissionRepo.QuestionsByMission(missionID)
	if err != nil {
		return nil, err
	}

	content := &MissionContent{
		Questions:         questions,
		OptionsByQuestion: map[string][]OptionView{},
	}

	questionIDs := make([]string, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}
	options, err := s.MissionRepo.OptionsByQuestionIDs(questionIDs)
	if err != nil {
		return nil, err
	}
	for _, o := range options {
		content.OptionsByQuestion[o.QuestionID] = append(content.OptionsByQuestion[o.QuestionID], OptionView{
			ID:         o.ID,
			QuestionID: o.QuestionID,
			Text:       o.Text,
		})
	}

	s.cacheContent(ctx, missionID, content)
	return content, nil
}

// DiagnoseMissionAvailability explains an empty content result: the mission
// is assigned to no class, the student is in none of its classes, or it
// genuinely has no questions. IssueNone means content exists.
func (s *MissionService) DiagnoseMissionAvailability(missionID, studentID string) (AvailabilityIssue, error) {
	assignments, err := s.MissionRepo.AssignmentsByMission(missionID)
	if err != nil {
		return IssueNone, err
	}
	if len(assignments) == 0 {
		return IssueNoClasses, nil
	}

	classIDs := make([]string, len(assignments))
	for i, a := range assignments {
		classIDs[i] = a.ClassID
	}
	enrolled, err := s.ClassRepo.AnyEnrollmentInClasses(classIDs, studentID)
	if err != nil {
		return IssueNone, err
	}
	if !enrolled {
		return IssueNotEnrolled, nil
	}

	count, err := s.MissionRepo.CountQuestions(missionID)
	if err != nil {
		return IssueNone, err
	}
	if count == 0 {
		return IssueNoQuestions, nil
	}
	return IssueNone, nil
}

// GetTotalCorrect sums the student's correct answers across every mission.
func (s *MissionService) GetTotalCorrect(studentID string) (int, error) {
	return s.ProgressRepo.SumCorrectByStudent(studentID)
}

// GetMissionResume reports where a student left off in a mission. Resuming
// always restarts from the stored ledger, never from zero.
func (s *MissionService) GetMissionResume(missionID, studentID string) (*MissionResume, error) {
	resume := &MissionResume{}

	progress, err := s.ProgressRepo.Find(missionID, studentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if progress != nil {
		resume.CorrectCount = progress.CorrectCount
		resume.TotalCount = progress.TotalCount
		resume.Completed = progress.Completed
	}

	answered, err := s.AttemptRepo.CountAnsweredQuestions(missionID, studentID)
	if err != nil {
		return nil, err
	}
	resume.QuestionIndex = int(answered)
	if resume.TotalCount > 0 && resume.QuestionIndex > resume.TotalCount {
		resume.QuestionIndex = resume.TotalCount
	}
	return resume, nil
}

// SubmitAnswer records one answer and settles its consequences as a single
// atomic unit: append the attempt, recompute the progress ledger row and
// apply the reward delta to the student's account. Submissions for the same
// student serialize; a failure anywhere rolls every write back.
func (s *MissionService) SubmitAnswer(ctx context.Context, studentID string, req SubmitAnswerRequest) (*AnswerResult, error) {
	option, err := s.MissionRepo.FindOptionByID(req.OptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrOptionNotFound
		}
		return nil, err
	}
	if option.QuestionID != req.QuestionID {
		return nil, util.ErrOptionMismatch
	}
	question, err := s.MissionRepo.FindQuestionByID(req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if question.MissionID != req.MissionID {
		return nil, util.ErrQuestionMismatch
	}

	// The client's denominator must match the stored structure, otherwise
	// its completion math is wrong and the ledger would record garbage.
	questionCount, err := s.MissionRepo.CountQuestions(req.MissionID)
	if err != nil {
		return nil, err
	}
	if int64(req.TotalQuestions) != questionCount {
		return nil, util.ErrTotalQuestionMismatch
	}

	if limit, ok, err := s.attemptLimit(req.MissionID, studentID); err != nil {
		return nil, err
	} else if ok {
		attempts, err := s.AttemptRepo.CountByQuestionStudent(req.QuestionID, studentID)
		if err != nil {
			return nil, err
		}
		if attempts >= int64(limit) {
			return nil, util.ErrAttemptLimitExceeded
		}
	}

	isCorrect := option.IsCorrect

	lock := s.lockForStudent(studentID)
	lock.Lock()
	defer lock.Unlock()

	var result *AnswerResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Pre-write ledger row; zero-valued when the student has never
		// answered in this mission.
		var prev model.Progress
		err := tx.Where("mission_id = ? AND student_id = ?", req.MissionID, studentID).First(&prev).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// The caller's running counter is not trusted blindly: when the
		// stored ledger of an unfinished mission is ahead (stale client,
		// reload mid-session), the ledger wins.
		base := req.CurrentCorrectCount
		if !prev.Completed && prev.CorrectCount > base {
			logger.Log.Warn("client correct counter behind ledger, resuming from ledger",
				zap.String("studentId", studentID),
				zap.String("missionId", req.MissionID),
				zap.Int("client", req.CurrentCorrectCount),
				zap.Int("ledger", prev.CorrectCount),
			)
			base = prev.CorrectCount
		}

		nextCorrect := base
		if isCorrect {
			nextCorrect++
		}
		if nextCorrect > req.TotalQuestions {
			nextCorrect = req.TotalQuestions
		}

		attempt := model.Attempt{
			MissionID:        req.MissionID,
			QuestionID:       req.QuestionID,
			StudentID:        studentID,
			SelectedOptionID: req.OptionID,
			IsCorrect:        isCorrect,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		xp, coins := 0, 0
		if req.Completed {
			xp = nextCorrect * XPPerCorrect
			coins = nextCorrect * CoinsPerCorrect
		}

		next := model.Progress{
			MissionID:    req.MissionID,
			StudentID:    studentID,
			CorrectCount: nextCorrect,
			TotalCount:   req.TotalQuestions,
			Completed:    req.Completed,
			XPAwarded:    xp,
			CoinsAwarded: coins,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "mission_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"correct_count", "total_count", "completed", "xp_awarded", "coins_awarded", "updated_at",
			}),
		}).Create(&next).Error; err != nil {
			return err
		}

		// Reward delta against the pre-write row. Re-completions settle
		// the difference, which can be negative.
		deltaXP := xp - prev.XPAwarded
		deltaCoins := coins - prev.CoinsAwarded
		if deltaXP != 0 || deltaCoins != 0 {
			var profile model.Profile
			if err := tx.First(&profile, "id = ?", studentID).Error; err != nil {
				return err
			}
			profile.XPTotal += deltaXP
			if profile.XPTotal < 0 {
				profile.XPTotal = 0
			}
			profile.CoinsBalance += deltaCoins
			if profile.CoinsBalance < 0 {
				profile.CoinsBalance = 0
			}
			if err := tx.Save(&profile).Error; err != nil {
				return err
			}
		}

		result = &AnswerResult{
			IsCorrect:          isCorrect,
			NextCorrect:        nextCorrect,
			NextTotal:          req.TotalQuestions,
			Completed:          req.Completed,
			DeltaXP:            deltaXP,
			DeltaCoins:         deltaCoins,
			PrevMissionCorrect: prev.CorrectCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.AnswerCounter.WithLabelValues(strconv.FormatBool(result.IsCorrect)).Inc()
	if result.Completed && (result.DeltaXP != 0 || result.DeltaCoins != 0) {
		monitoring.MissionCompletions.Inc()
	}

	s.Notifier.TableChanged(ctx, "attempts", req.MissionID)
	s.Notifier.TableChanged(ctx, "progress", req.MissionID, studentID)
	if result.DeltaXP != 0 || result.DeltaCoins != 0 {
		s.Notifier.TableChanged(ctx, "profiles", studentID)
	}

	return result, nil
}

// attemptLimit resolves the per-question attempt limit for a student in a
// mission. Limits live on the class assignment; when the student reaches
// the mission through several classes the most permissive one applies, and
// any reachable assignment without a limit means unlimited.
func (s *MissionService) attemptLimit(missionID, studentID string) (int, bool, error) {
	assignments, err := s.MissionRepo.AssignmentsByMission(missionID)
	if err != nil {
		return 0, false, err
	}
	if len(assignments) == 0 {
		return 0, false, nil
	}
	classIDs, err := s.ClassRepo.ClassIDsByStudent(studentID)
	if err != nil {
		return 0, false, err
	}
	enrolled := map[string]bool{}
	for _, id := range classIDs {
		enrolled[id] = true
	}

	limit, found := 0, false
	for _, a := range assignments {
		if !enrolled[a.ClassID] {
			continue
		}
		if a.MaxAttemptsPerQuestion == nil {
			return 0, false, nil
		}
		if !found || *a.MaxAttemptsPerQuestion > limit {
			limit = *a.MaxAttemptsPerQuestion
			found = true
		}
	}
	return limit, found, nil
}

func (s *MissionService) lockForStudent(studentID string) *sync.Mutex {
	v, _ := s.studentLocks.LoadOrStore(studentID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *MissionService) contentCacheKey(missionID string) string {
	return "spacelearn:mission:content:" + missionID
}

func (s *MissionService) cachedContent(ctx context.Context, missionID string) (*MissionContent, bool) {
	if s.Redis == nil {
		return nil, false
	}
	val, err := s.Redis.Get(ctx, s.contentCacheKey(missionID)).Result()
	if err != nil {
		return nil, false
	}
	var content MissionContent
	if err := json.Unmarshal([]byte(val), &content); err != nil {
		return nil, false
	}
	return &content, true
}

func (s *MissionService) cacheContent(ctx context.Context, missionID string, content *MissionContent) {
	if s.Redis == nil {
		return
	}
	payload, err := json.Marshal(content)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, s.contentCacheKey(missionID), payload, missionContentCacheTTL).Err(); err != nil {
		logger.Log.Warn("mission content cache write failed", zap.Error(err))
	}
}

// InvalidateContentCache drops the cached content after an authoring write.
func (s *MissionService) InvalidateContentCache(ctx context.Context, missionID string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, s.contentCacheKey(missionID))
}
