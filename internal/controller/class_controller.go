package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{ClassService: classService}
}

func (ctl *ClassController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	class, err := ctl.ClassService.CreateClass(claims.UserID, req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, class)
}

func (ctl *ClassController) Join(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	class, err := ctl.ClassService.JoinByCode(c.Request.Context(), claims.UserID, req.Code)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, class)
}

func (ctl *ClassController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	classes, err := ctl.ClassService.ListForProfile(claims.UserID, claims.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, classes)
}

func (ctl *ClassController) MemberProgress(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	rows, err := ctl.ClassService.MemberProgress(c.Param("id"), claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, rows)
}
