package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/ws"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService persists notifications and pushes them over the
// websocket hub. Delivery failures are logged, never propagated: a booking
// operation must not fail because a socket was slow.
type NotificationService struct {
	notificationsRepo models.NotificationsRepo
	hub               *ws.Hub
	logger            *slog.Logger
}

func NewNotificationService(notificationsRepo models.NotificationsRepo, hub *ws.Hub, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		notificationsRepo: notificationsRepo,
		hub:               hub,
		logger:            logger,
	}
}

func (ns *NotificationService) Notify(ctx context.Context, userID uuid.UUID, typ, title, body, bookingID string) {
	n := &models.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		BookingID: bookingID,
	}

	saved, err := ns.notificationsRepo.InsertNotification(ctx, n)
	if err != nil {
		ns.logger.Error("failed to persist notification", "user_id", userID, "type", typ, "error", err)
		return
	}
	if ns.hub != nil {
		ns.hub.SendToUser(userID, saved)
	}
}

func (ns *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return ns.notificationsRepo.ListNotificationsByUser(ctx, userID, limit)
}

func (ns *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, id primitive.ObjectID) error {
	return ns.notificationsRepo.MarkNotificationRead(ctx, userID, id)
}
