package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codebloom/codebloom-backend/internal/config"
	"github.com/codebloom/codebloom-backend/internal/middleware"
	"github.com/codebloom/codebloom-backend/internal/service"
)

const (
	scoreboardPushInterval = 15 * time.Second
	scoreboardWriteTimeout = 5 * time.Second
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live scoreboard updates to teacher dashboards.
type WSHandler struct {
	rdb               *redis.Client
	scoreboardService *service.ScoreboardService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, scoreboardService *service.ScoreboardService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:               rdb,
		scoreboardService: scoreboardService,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// ScoreboardStream godoc
// WS /ws/v1/teacher/scoreboard/stream?token=...&session_id=...
// Pushes a fresh scoreboard on every accepted submission (via Redis pub/sub)
// and on a periodic ticker as a safety net.
func (h *WSHandler) ScoreboardStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID := c.Query("session_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("teacher_id", claims.SubjectID).
		Str("session_id", sessionID).
		Logger()
	wsLog.Info().Msg("Teacher connected to scoreboard stream")

	ctx := c.Request.Context()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.ScoreboardChannel())
	defer sub.Close()
	events := sub.Channel()

	// Read pump: detect client-side close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		entries, err := h.scoreboardService.Summarize(ctx, sessionID)
		if err != nil {
			wsLog.Error().Err(err).Msg("Scoreboard refresh failed")
			return true // transient; keep the connection
		}
		_ = conn.SetWriteDeadline(time.Now().Add(scoreboardWriteTimeout))
		if err := conn.WriteJSON(gin.H{"scoreboard": entries}); err != nil {
			wsLog.Debug().Err(err).Msg("Write failed, closing stream")
			return false
		}
		return true
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(scoreboardPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			wsLog.Info().Msg("Teacher disconnected")
			return
		case <-ctx.Done():
			return
		case <-events:
			if !push() {
				return
			}
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}
