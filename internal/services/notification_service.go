package services

import (
	"context"
	"errors"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/repositories"
)

const notificationsLimit = 50

// NotificationService reads and acknowledges a user's notifications
type NotificationService struct {
	store *repositories.Store
}

// NewNotificationService creates a NotificationService
func NewNotificationService(store *repositories.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the user's latest notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifs, err := s.store.Notifications.GetNotificationsByRecipient(ctx, userID, notificationsLimit)
	if err != nil {
		return nil, apperrors.Internal("notifications.list", err)
	}
	return notifs, nil
}

// MarkRead flags one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	err := s.store.Notifications.MarkAsRead(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Notification not found")
	}
	if err != nil {
		return apperrors.Internal("notifications.read", err)
	}
	return nil
}
