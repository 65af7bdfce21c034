package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

func (ctl *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	profile, err := ctl.AuthService.Register(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, profile)
}

func (ctl *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	token, profile, err := ctl.AuthService.Login(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, gin.H{
		"token":   token,
		"profile": profile,
	})
}
