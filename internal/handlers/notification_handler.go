package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/services"
	"github.com/venuehub/server/internal/ws"
)

func ListNotifications(ns *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		notifications, err := ns.ListForUser(c.Request.Context(), userID, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(notifications, ""))
	}
}

func MarkNotificationRead(ns *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		notificationID, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := ns.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Notification marked read"))
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy already restricts browser origins at the router level.
		return true
	},
}

// ConnectWebsocket upgrades an authenticated request and registers the
// connection with the hub for notification push.
func ConnectWebsocket(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("websocket upgrade failed"))
			return
		}

		client := hub.NewClient(userID, conn)
		go client.WritePump()
		go client.ReadPump()
	}
}
