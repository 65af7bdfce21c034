package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

func (ctl *MessageController) Post(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	msg, err := ctl.MessageService.Post(c.Request.Context(), c.Param("id"), claims.UserID, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, msg)
}

func (ctl *MessageController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	messages, err := ctl.MessageService.List(c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, messages)
}

func (ctl *MessageController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctl.MessageService.Delete(c.Param("messageId"), claims.UserID); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
