package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

type MedalController struct {
	MedalService *service.MedalService
}

func NewMedalController(medalService *service.MedalService) *MedalController {
	return &MedalController{MedalService: medalService}
}

func (ctl *MedalController) List(c *gin.Context) {
	medals, err := ctl.MedalService.Catalog()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, medals)
}

type medalRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	RequiredCorrect int    `json:"requiredCorrect" binding:"required,min=1"`
}

func (ctl *MedalController) Create(c *gin.Context) {
	var req medalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	medal := &model.Medal{
		Title:           req.Title,
		Description:     req.Description,
		RequiredCorrect: req.RequiredCorrect,
	}
	if err := ctl.MedalService.Create(medal); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, medal)
}

func (ctl *MedalController) Update(c *gin.Context) {
	var req medalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	medal, err := ctl.MedalService.Update(c.Param("id"), req.Title, req.Description, req.RequiredCorrect)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, medal)
}

func (ctl *MedalController) Delete(c *gin.Context) {
	if err := ctl.MedalService.Delete(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
