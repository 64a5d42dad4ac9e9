package repositories

import (
	"context"

	"github.com/anonto42/circle/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetNotificationsByRecipient(ctx context.Context, recipientID uint, limit int) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, recipientID uint) error
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) error {
	return translate(r.db.WithContext(ctx).Omit("Actor", "Recipient", "Post").Create(notif).Error)
}

// GetNotificationsByRecipient returns a user's notifications, newest first
func (r *PostgresNotificationRepository) GetNotificationsByRecipient(ctx context.Context, recipientID uint, limit int) ([]models.Notification, error) {
	notifs := []models.Notification{}
	err := r.db.WithContext(ctx).
		Preload("Actor", summaryColumns).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

// MarkAsRead flags one of the recipient's notifications as read.
// Someone else's notification is reported as ErrNotFound.
func (r *PostgresNotificationRepository) MarkAsRead(ctx context.Context, id, recipientID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
