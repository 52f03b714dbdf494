package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/utils"
)

const (
	streamBuffer      = 16
	heartbeatInterval = 25 * time.Second
)

// EventHandler streams change notifications to the browser as server-sent events.
type EventHandler struct {
	Bus       events.Bus
	Logger    *logging.Logger
	Heartbeat time.Duration
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(bus events.Bus, logger *logging.Logger) *EventHandler {
	return &EventHandler{Bus: bus, Logger: logger, Heartbeat: heartbeatInterval}
}

// Stream subscribes to ?topic= for as long as the client stays connected.
// A slow client drops events rather than holding up the publisher.
func (h *EventHandler) Stream(c *gin.Context) {
	topic := c.Query("topic")
	if !models.IsTopic(topic) {
		utils.BadRequest(c, "Unknown topic")
		return
	}

	ch := make(chan events.Event, streamBuffer)
	unsubscribe := h.Bus.Subscribe(topic, func(_ context.Context, evt events.Event) {
		select {
		case ch <- evt:
		default:
			h.Logger.Warn("event stream lagging, event dropped", "topic", topic)
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.Logger.Debug("event stream opened", "topic", topic)
	defer h.Logger.Debug("event stream closed", "topic", topic)

	interval := h.Heartbeat
	if interval <= 0 {
		interval = heartbeatInterval
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			c.SSEvent("change", evt)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			c.Writer.Flush()
		}
	}
}
