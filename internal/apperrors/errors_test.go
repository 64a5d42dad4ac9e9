package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("Classified errors keep their kind through wrapping", func(t *testing.T) {
		err := fmt.Errorf("delete post: %w", Forbidden("You are not authorized to delete this post"))
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("Unclassified errors are internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("connection reset")))
	})
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidInput:    http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New(`pq: relation "posts" does not exist`)
	err := Internal("posts.list", cause)

	assert.Equal(t, "Internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "posts.list")
}
