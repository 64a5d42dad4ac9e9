package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/circle/backend/internal/testutil"
	"github.com/anonto42/circle/backend/internal/token"
	"github.com/anonto42/circle/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryObjects struct {
	objects map[string][]byte
}

func (m *memoryObjects) Upload(_ context.Context, path, _ string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[path] = data
	return nil
}

func (m *memoryObjects) Delete(_ context.Context, path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memoryObjects) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://storage.example.com/" + path, nil
}

type testServer struct {
	t      *testing.T
	e      *echo.Echo
	tokens *token.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens, err := token.NewService("router_test_secret", time.Hour)
	require.NoError(t, err)

	e, err := New(Deps{
		Config: &config.Config{
			BcryptCost:     bcrypt.MinCost,
			RequestTimeout: 5 * time.Second,
			ImageMaxBytes:  1 << 20,
			ImageURLTTL:    time.Hour,
		},
		Log:     log,
		DB:      testutil.NewTestDB(t),
		Tokens:  tokens,
		Objects: &memoryObjects{objects: map[string][]byte{}},
	})
	require.NoError(t, err)
	return &testServer{t: t, e: e, tokens: tokens}
}

// do sends a JSON request and decodes the JSON response into out when out is not nil
func (s *testServer) do(method, path, bearer string, body interface{}, out interface{}) int {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type userJSON struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type postJSON struct {
	ID         uint   `json:"id"`
	AuthorID   uint   `json:"author_id"`
	Content    string `json:"content"`
	LikeCount  int64  `json:"like_count"`
	ReplyCount int64  `json:"reply_count"`
	LikedByMe  bool   `json:"liked_by_me"`
	Author     *struct {
		Username string `json:"username"`
	} `json:"author"`
}

type errorJSON struct {
	Error string `json:"error"`
}

// signup registers and logs in a user, returning their id and token
func (s *testServer) signup(username string) (uint, string) {
	s.t.Helper()
	email := username + "@example.com"

	var registered struct {
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}
	code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "username": username, "password": "secret1",
	}, &registered)
	require.Equal(s.t, http.StatusCreated, code)

	var login struct {
		Token string   `json:"token"`
		User  userJSON `json:"user"`
	}
	code = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	}, &login)
	require.Equal(s.t, http.StatusOK, code)
	require.NotEmpty(s.t, login.Token)
	return login.User.ID, login.Token
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	t.Run("Register hides the password hash", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"ana@example.com","username":"ana","password":"secret1"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.Contains(t, rec.Body.String(), `"message"`)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		var out errorJSON
		code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "ana@example.com", "username": "other", "password": "secret1",
		}, &out)
		assert.Equal(t, http.StatusConflict, code)
		assert.NotEmpty(t, out.Error)
	})

	t.Run("Missing field", func(t *testing.T) {
		var out errorJSON
		code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "new@example.com", "password": "secret1",
		}, &out)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, out.Error, "username")
	})

	t.Run("Short password", func(t *testing.T) {
		code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "new@example.com", "username": "new", "password": "12345",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("Password over the bcrypt byte limit", func(t *testing.T) {
		// 40 runes but 80 bytes
		var out errorJSON
		code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "long@example.com", "username": "long", "password": strings.Repeat("é", 40),
		}, &out)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, out.Error, "password")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Bad credentials look the same", func(t *testing.T) {
		var wrongPassword, unknownEmail errorJSON
		code := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ana@example.com", "password": "wrong12",
		}, &wrongPassword)
		assert.Equal(t, http.StatusUnauthorized, code)

		code = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "secret1",
		}, &unknownEmail)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, wrongPassword.Error, unknownEmail.Error)
	})

	t.Run("Me", func(t *testing.T) {
		var login struct {
			Token string `json:"token"`
		}
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ana@example.com", "password": "secret1",
		}, &login))

		var me struct {
			User userJSON `json:"user"`
		}
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", login.Token, nil, &me))
		assert.Equal(t, "ana", me.User.Username)

		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "", nil, nil))
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "garbage", nil, nil))

		expired, err := s.tokens.IssueWithExpiry(me.User.ID, me.User.Email, time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", expired, nil, nil))
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	var out errorJSON
	code := s.do(http.MethodPost, "/api/posts", "", map[string]string{"content": "hi"}, &out)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Missing Authorization header", out.Error)

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.signup("alice")
	_, bob := s.signup("bob")

	var post postJSON
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/posts", alice, map[string]string{"content": "hello world"}, &post))
	assert.Equal(t, aliceID, post.AuthorID)
	require.NotNil(t, post.Author)
	assert.Equal(t, "alice", post.Author.Username)

	t.Run("Empty content", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/posts", alice, map[string]string{"content": "  "}, nil))
	})

	t.Run("Non-numeric id", func(t *testing.T) {
		var out errorJSON
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/posts/abc", "", nil, &out))
		assert.Equal(t, "Invalid post ID", out.Error)
	})

	t.Run("Likes are idempotent", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/%d/like", post.ID)
		var liked struct {
			Liked bool `json:"liked"`
		}
		assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, path, bob, nil, &liked))
		assert.True(t, liked.Liked)
		assert.Equal(t, http.StatusOK, s.do(http.MethodPost, path, bob, nil, &liked))
		assert.True(t, liked.Liked)

		var got postJSON
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), bob, nil, &got))
		assert.Equal(t, int64(1), got.LikeCount)
		assert.True(t, got.LikedByMe)
	})

	t.Run("Anonymous listing is never personalized", func(t *testing.T) {
		var posts []postJSON
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/posts", "", nil, &posts))
		require.NotEmpty(t, posts)
		for _, p := range posts {
			assert.False(t, p.LikedByMe)
		}

		// a broken token on an optional route is treated as anonymous
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/posts", "garbage", nil, &posts))
	})

	t.Run("Unlike twice", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/%d/unlike", post.ID)
		var out struct {
			Liked   bool `json:"liked"`
			Removed bool `json:"removed"`
		}
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, bob, nil, &out))
		assert.False(t, out.Liked)
		assert.True(t, out.Removed)
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, bob, nil, &out))
		assert.False(t, out.Removed)
	})

	t.Run("Replies", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/%d/reply", post.ID)
		assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, path, bob, map[string]string{"content": "first"}, nil))
		assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, path, alice, map[string]string{"content": "second"}, nil))
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, path, bob, map[string]string{"content": ""}, nil))
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/posts/9999/reply", bob, map[string]string{"content": "x"}, nil))

		var replies []struct {
			Content string `json:"content"`
		}
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/posts/%d/replies", post.ID), "", nil, &replies))
		require.Len(t, replies, 2)
		assert.Equal(t, "first", replies[0].Content)
		assert.Equal(t, "second", replies[1].Content)

		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/posts/9999/replies", "", nil, nil))
	})

	t.Run("Only the author deletes", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/%d", post.ID)
		assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, path, bob, nil, nil))

		var out struct {
			Message string `json:"message"`
		}
		assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, alice, nil, &out))
		assert.NotEmpty(t, out.Message)

		// already gone: NotFound, not Forbidden
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, bob, nil, nil))
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, "", nil, nil))
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, path+"/like", bob, nil, nil))
	})
}

func TestSocialGraph(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.signup("alice")
	bobID, bob := s.signup("bob")

	followPath := fmt.Sprintf("/api/users/%d/follow", bobID)

	var out errorJSON
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), alice, nil, &out))
	assert.Equal(t, "You cannot follow yourself", out.Error)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/users/9999/follow", alice, nil, nil))

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, followPath, alice, nil, nil))
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, followPath, alice, nil, nil))

	var profile struct {
		User           userJSON `json:"user"`
		FollowerCount  int64    `json:"follower_count"`
		FollowingCount int64    `json:"following_count"`
		IsFollowing    bool     `json:"is_following"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), alice, nil, &profile))
	assert.Equal(t, int64(1), profile.FollowerCount)
	assert.True(t, profile.IsFollowing)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), "", nil, &profile))
	assert.False(t, profile.IsFollowing)

	var followers []userJSON
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/followers", bobID), "", nil, &followers))
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	t.Run("Feed follows the graph", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/posts", bob, map[string]string{"content": "from bob"}, nil))

		var feed struct {
			Posts      []postJSON `json:"posts"`
			Page       int        `json:"page"`
			Limit      int        `json:"limit"`
			TotalItems int64      `json:"total_items"`
		}
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/feed?page=1&limit=5", alice, nil, &feed))
		require.Len(t, feed.Posts, 1)
		assert.Equal(t, "from bob", feed.Posts[0].Content)
		assert.Equal(t, 5, feed.Limit)
	})

	t.Run("Notifications", func(t *testing.T) {
		var notifs []struct {
			ID     uint   `json:"id"`
			Type   string `json:"type"`
			IsRead bool   `json:"is_read"`
		}
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/notifications", bob, nil, &notifs))
		require.Len(t, notifs, 1)
		assert.Equal(t, "follow", notifs[0].Type)

		readPath := fmt.Sprintf("/api/notifications/%d/read", notifs[0].ID)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, readPath, alice, nil, nil))
		assert.Equal(t, http.StatusOK, s.do(http.MethodPut, readPath, bob, nil, nil))
	})

	t.Run("Update own profile only", func(t *testing.T) {
		body := map[string]string{"bio": "hello"}
		assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, fmt.Sprintf("/api/users/%d/update", bobID), alice, body, nil))
		assert.Equal(t, http.StatusOK, s.do(http.MethodPut, fmt.Sprintf("/api/users/%d/update", aliceID), alice, body, nil))
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, fmt.Sprintf("/api/users/%d/update", aliceID), alice,
			map[string]string{"image": "not a url"}, nil))
	})

	t.Run("Search", func(t *testing.T) {
		var users []userJSON
		require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/users/search?q=BO", "", nil, &users))
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/users/search", "", nil, nil))
	})

	t.Run("Unfollow", func(t *testing.T) {
		var res struct {
			Following bool `json:"following"`
			Removed   bool `json:"removed"`
		}
		unfollowPath := fmt.Sprintf("/api/users/%d/unfollow", bobID)
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, unfollowPath, alice, nil, &res))
		assert.True(t, res.Removed)
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, unfollowPath, alice, nil, &res))
		assert.False(t, res.Removed)
	})

	t.Run("Deleted account", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/users/me", bob, nil, nil))
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/auth/me", bob, nil, nil))
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), "", nil, nil))
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/posts", bob, map[string]string{"content": "ghost"}, nil))
	})
}

func TestImageUpload(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.signup("alice")

	var post postJSON
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/posts", alice, map[string]string{"content": "pic"}, &post))

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("post_id", fmt.Sprint(post.ID)))
	part, err := form.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+alice)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var link struct {
		URL string `json:"url"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/images/cat.png", alice, nil, &link))
	assert.True(t, strings.HasPrefix(link.URL, "https://storage.example.com/"))

	var listed struct {
		Images []struct {
			FileName string `json:"file_name"`
			PostID   uint   `json:"post_id"`
		} `json:"images"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/images", alice, nil, &listed))
	require.Len(t, listed.Images, 1)
	assert.Equal(t, "cat.png", listed.Images[0].FileName)
	assert.Equal(t, post.ID, listed.Images[0].PostID)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/images/dog.png", alice, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/images", "", nil, nil))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	var out struct {
		Status string `json:"status"`
	}
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil, &out))
	assert.Equal(t, "healthy", out.Status)
}
