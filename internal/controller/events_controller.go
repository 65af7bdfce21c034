package controller

import (
	"io"
	"net/http"
	"strings"

	"github.com/alexandre-rezende616/spacelearn/internal/util"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Tables clients may watch. Anything else is rejected so a client cannot
// subscribe to arbitrary Redis channels.
var watchableTables = map[string]bool{
	"attempts":        true,
	"progress":        true,
	"profiles":        true,
	"missions":        true,
	"mission_classes": true,
	"enrollments":     true,
	"purchases":       true,
	"class_messages":  true,
}

// EventsController streams table-change notifications to clients over SSE,
// so the mobile app can re-read affected screens without polling.
type EventsController struct {
	Redis *redis.Client
}

func NewEventsController(rdb *redis.Client) *EventsController {
	return &EventsController{Redis: rdb}
}

func (ctl *EventsController) Stream(c *gin.Context) {
	if ctl.Redis == nil {
		util.Error(c, http.StatusServiceUnavailable, "change feed unavailable")
		return
	}

	var tables []string
	for _, t := range strings.Split(c.Query("tables"), ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !watchableTables[t] {
			util.BadRequest(c, "unknown table "+t)
			return
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		util.BadRequest(c, "tables query parameter is required")
		return
	}

	changes, cancel := notify.Subscribe(c.Request.Context(), ctl.Redis, tables...)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("change", change)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
