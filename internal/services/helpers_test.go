package services

import (
	"io"
	"testing"
	"time"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/repositories"
	"github.com/anonto42/circle/backend/internal/testutil"
	"github.com/anonto42/circle/backend/internal/token"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestStore(t *testing.T) (*repositories.Store, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return repositories.NewStore(db), db
}

func newAuthService(t *testing.T, store *repositories.Store) (*AuthService, *token.Service) {
	t.Helper()
	tokens, err := token.NewService("test_jwt_secret", time.Hour)
	require.NoError(t, err)
	auth, err := NewAuthService(store, tokens, bcrypt.MinCost, quietLogger())
	require.NoError(t, err)
	return auth, tokens
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperrors.KindOf(err), err.Error())
}
