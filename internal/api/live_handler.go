package api

import (
	"alcyxob/gymdesk/internal/live"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const heartbeatInterval = 25 * time.Second

type LiveHandler struct {
	hub *live.Hub
}

func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// GetFeeds godoc
// @Summary Names of the live feeds
// @Tags Live
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /live [get]
func (h *LiveHandler) GetFeeds(c *gin.Context) {
	names := h.hub.Feeds()
	sort.Strings(names)
	c.JSON(http.StatusOK, names)
}

// Stream godoc
// @Summary Subscribe to a live feed
// @Description Server-sent events. Every "snapshot" event carries the complete current result set; a "ping" event is sent while idle.
// @Tags Live
// @Produce text/event-stream
// @Security BearerAuth
// @Param feed path string true "Feed name"
// @Success 200 {object} live.Snapshot
// @Failure 404 {object} gin.H "Unknown feed"
// @Router /live/{feed} [get]
func (h *LiveHandler) Stream(c *gin.Context) {
	sub, err := h.hub.Subscribe(c.Request.Context(), c.Param("feed"))
	if err != nil {
		respondError(c, "open live feed", err)
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	// The subscription closes its channel when the request context ends.
	for {
		select {
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			c.SSEvent("snapshot", snap)
		case t := <-heartbeat.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
		}
		c.Writer.Flush()
	}
}
