package controller

import (
	"net/http"
	"time"

	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

func (ctl *HealthController) Health(c *gin.Context) {
	util.Success(c, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// Ready checks the backing stores. Redis being down degrades caching and
// change notifications but does not fail readiness.
func (ctl *HealthController) Ready(c *gin.Context) {
	sqlDB, err := ctl.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		util.Error(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	redisOK := true
	if ctl.Redis != nil {
		if err := ctl.Redis.Ping(c.Request.Context()).Err(); err != nil {
			redisOK = false
		}
	}

	util.Success(c, gin.H{"database": "ok", "redis": redisOK})
}
