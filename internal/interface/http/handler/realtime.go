package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/infrastructure/realtime"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	"github.com/boipara/bookstore/pkg/response"
)

const defaultHeartbeat = 25 * time.Second

type RealtimeHandler struct {
	hub       *realtime.Hub
	heartbeat time.Duration
	logger    *zap.Logger
}

// NewRealtimeHandler creates the event stream handler.
func NewRealtimeHandler(hub *realtime.Hub, heartbeat time.Duration, logger *zap.Logger) *RealtimeHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &RealtimeHandler{hub: hub, heartbeat: heartbeat, logger: logger}
}

// Stream opens a server-sent event stream. The first event is
// connected{"connectionId"}; the client then joins its rooms with POST /realtime/join.
// @Summary      Push event stream
// @Description  EventSource clients may pass the access token as ?token=
// @Tags         realtime
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        token query string false "access token"
// @Success      200 {string} string "event stream"
// @Router       /api/v1/realtime/stream [get]
func (h *RealtimeHandler) Stream(c *gin.Context) {
	client := h.hub.Connect(middleware.MustGetUserID(c), middleware.GetRole(c))
	defer h.hub.Disconnect(client.ID)

	w := c.Writer
	w.Header().Set("Content-Type", sse.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(200)

	greeting, _ := json.Marshal(map[string]string{"connectionId": client.ID})
	h.write(c, "connected", greeting)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			h.write(c, ev.Name, ev.Data)
		case now := <-ticker.C:
			ping, _ := json.Marshal(map[string]int64{"time": now.Unix()})
			h.write(c, "ping", ping)
		}
	}
}

func (h *RealtimeHandler) write(c *gin.Context, event string, data json.RawMessage) {
	c.Render(-1, sse.Event{Event: event, Data: string(data)})
	c.Writer.Flush()
}

// Join subscribes a stream to the caller's own customer or seller room.
// @Summary      Join a push room
// @Tags         realtime
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.JoinRoomRequest true "connection and room kind"
// @Success      200 {object} response.Response{data=dto.JoinRoomResponse}
// @Failure      403 {object} response.Response "not your connection or room"
// @Failure      404 {object} response.Response "unknown connection"
// @Router       /api/v1/realtime/join [post]
func (h *RealtimeHandler) Join(c *gin.Context) {
	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)
	room, err := h.hub.Join(req.ConnectionID, userID, req.Room)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Debug("realtime room joined",
		zap.String("conn_id", req.ConnectionID),
		zap.Uint("user_id", userID),
		zap.String("room", room),
	)
	response.Success(c, dto.JoinRoomResponse{Room: room})
}
