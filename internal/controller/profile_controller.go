package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

func (ctl *ProfileController) Me(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	view, err := ctl.ProfileService.Get(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

func (ctl *ProfileController) Leaderboard(c *gin.Context) {
	entries, err := ctl.ProfileService.Leaderboard()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, entries)
}

func (ctl *ProfileController) UploadAvatar(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		util.BadRequest(c, "avatar file is required")
		return
	}
	if file.Size > maxAvatarSize {
		util.BadRequest(c, "avatar exceeds the 5MB limit")
		return
	}

	url, err := ctl.ProfileService.UploadAvatar(c.Request.Context(), claims.UserID, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, gin.H{"avatarUrl": url})
}

func (ctl *ProfileController) EquipFrame(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req struct {
		ItemKey string `json:"itemKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if err := ctl.ProfileService.EquipFrame(c.Request.Context(), claims.UserID, req.ItemKey); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
