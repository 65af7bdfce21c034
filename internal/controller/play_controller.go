package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

// PlayController is the student-facing mission surface: the mission map,
// mission content, answer submission and progress reads.
type PlayController struct {
	MissionService *service.MissionService
	MedalService   *service.MedalService
}

func NewPlayController(missionService *service.MissionService, medalService *service.MedalService) *PlayController {
	return &PlayController{MissionService: missionService, MedalService: medalService}
}

func (ctl *PlayController) ListMissions(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	views, err := ctl.MissionService.ListStudentMissions(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, views)
}

// GetContent returns the mission's questions and options. An empty mission
// comes back with a diagnosis explaining which prerequisite is missing.
func (ctl *PlayController) GetContent(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	missionID := c.Param("id")

	content, err := ctl.MissionService.GetMissionContent(c.Request.Context(), missionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if len(content.Questions) == 0 {
		issue, err := ctl.MissionService.DiagnoseMissionAvailability(missionID, claims.UserID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		util.Success(c, gin.H{
			"questions":         []interface{}{},
			"optionsByQuestion": gin.H{},
			"availabilityIssue": issue,
		})
		return
	}

	util.Success(c, content)
}

func (ctl *PlayController) SubmitAnswer(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	var req service.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctl.MissionService.SubmitAnswer(c.Request.Context(), claims.UserID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Medals key off the cross-mission total, so unlocks are resolved here
	// where the submission's correctness delta is known.
	correctDelta := result.NextCorrect - result.PrevMissionCorrect
	unlocked, err := ctl.MedalService.EvaluateUnlocks(claims.UserID, correctDelta)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{
		"result":         result,
		"unlockedMedals": unlocked,
	})
}

func (ctl *PlayController) GetResume(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	resume, err := ctl.MissionService.GetMissionResume(c.Param("id"), claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, resume)
}

func (ctl *PlayController) GetTotalCorrect(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	total, err := ctl.MissionService.GetTotalCorrect(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, gin.H{"totalCorrect": total})
}
