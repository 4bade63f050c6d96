package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yigit/scholarpath/internal/middleware"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
)

// Handler upgrades authenticated requests to notification streams
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigin is usually the frontend URL.
func NewHandler(hub *Hub, allowedOrigin string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		upgrader: newUpgrader(allowedOrigin),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Stream notifications
// @Description Upgrades to a WebSocket that receives the caller's new notifications. Browsers may pass the access token as the token query parameter.
// @Tags notifications
// @Security BearerAuth
// @Param token query string false "Access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.APIResponse
// @Router /notifications/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrTokenNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		logger: h.logger,
	}
	if !h.hub.add(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
