package controller

import (
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

type StoreController struct {
	StoreService *service.StoreService
}

func NewStoreController(storeService *service.StoreService) *StoreController {
	return &StoreController{StoreService: storeService}
}

func (ctl *StoreController) Catalog(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	owned, err := ctl.StoreService.OwnedKeys(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, gin.H{
		"items": ctl.StoreService.Catalog(),
		"owned": owned,
	})
}

func (ctl *StoreController) Purchase(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req struct {
		ItemKey string `json:"itemKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	purchase, err := ctl.StoreService.Purchase(c.Request.Context(), claims.UserID, req.ItemKey)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, purchase)
}
