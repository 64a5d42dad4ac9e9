package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is returned when a foreign key points at a row that no longer exists
	ErrMissingReference = errors.New("referenced record does not exist")
	// ErrNotOwner is returned when a caller tries to modify a row owned by someone else
	ErrNotOwner = errors.New("not the owner")
	// ErrSelfFollow is returned when a user tries to follow themself
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// Store groups every repository over one connection pool or one transaction
type Store struct {
	db            *gorm.DB
	Users         UserRepository
	Posts         PostRepository
	Replies       ReplyRepository
	Likes         LikeRepository
	Follows       FollowRepository
	Notifications NotificationRepository
	Images        ImageRepository
}

// NewStore builds the repositories on top of db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewPostgresUserRepository(db),
		Posts:         NewPostgresPostRepository(db),
		Replies:       NewPostgresReplyRepository(db),
		Likes:         NewPostgresLikeRepository(db),
		Follows:       NewPostgresFollowRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
		Images:        NewPostgresImageRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps GORM errors onto the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrMissingReference
	default:
		return err
	}
}

// summaryColumns limits a preloaded author to its public summary
func summaryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "image")
}
