package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

// MissionController is the teacher-facing authoring surface.
type MissionController struct {
	Authoring *service.AuthoringService
}

func NewMissionController(authoring *service.AuthoringService) *MissionController {
	return &MissionController{Authoring: authoring}
}

type missionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (ctl *MissionController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req missionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	mission, err := ctl.Authoring.CreateMission(claims.UserID, req.Title, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, mission)
}

func (ctl *MissionController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	missions, err := ctl.Authoring.ListMissions(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, missions)
}

func (ctl *MissionController) Update(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req missionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	mission, err := ctl.Authoring.UpdateMission(c.Request.Context(), c.Param("id"), claims.UserID, req.Title, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, mission)
}

func (ctl *MissionController) Publish(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	mission, err := ctl.Authoring.PublishMission(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, mission)
}

func (ctl *MissionController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctl.Authoring.DeleteMission(c.Param("id"), claims.UserID); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

type questionRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (ctl *MissionController) AddQuestion(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	question, err := ctl.Authoring.AddQuestion(c.Param("id"), claims.UserID, req.Prompt)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, question)
}

func (ctl *MissionController) UpdateQuestion(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	question, err := ctl.Authoring.UpdateQuestion(c.Param("questionId"), claims.UserID, req.Prompt)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, question)
}

func (ctl *MissionController) DeleteQuestion(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctl.Authoring.DeleteQuestion(c.Param("questionId"), claims.UserID); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

type optionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

func (ctl *MissionController) AddOption(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req optionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	option, err := ctl.Authoring.AddOption(c.Param("questionId"), claims.UserID, req.Text, req.IsCorrect)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, option)
}

func (ctl *MissionController) UpdateOption(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req optionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	option, err := ctl.Authoring.UpdateOption(c.Param("optionId"), claims.UserID, req.Text, req.IsCorrect)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, option)
}

func (ctl *MissionController) DeleteOption(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctl.Authoring.DeleteOption(c.Param("optionId"), claims.UserID); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

type assignRequest struct {
	ClassID                string `json:"classId" binding:"required"`
	OrderIndex             int    `json:"orderIndex"`
	MaxAttemptsPerQuestion *int   `json:"maxAttemptsPerQuestion"`
}

func (ctl *MissionController) AssignToClass(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	err := ctl.Authoring.AssignToClass(c.Request.Context(), c.Param("id"), req.ClassID, claims.UserID, req.OrderIndex, req.MaxAttemptsPerQuestion)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

func (ctl *MissionController) UnassignFromClass(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	err := ctl.Authoring.UnassignFromClass(c.Request.Context(), c.Param("id"), c.Param("classId"), claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
