package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskpad/internal/auth"
	"taskpad/internal/handler"
	"taskpad/internal/model"
	"taskpad/internal/router"
	"taskpad/internal/service"
)

// memUserRepo is an in-memory UserRepository for end-to-end handler tests.
type memUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.seq++
	user.ID = r.seq
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *user
	return &found, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// memItemRepo is an in-memory ItemRepository for end-to-end handler tests.
type memItemRepo struct {
	mu    sync.Mutex
	seq   uint
	items map[uint]model.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uint]model.Item)}
}

func (r *memItemRepo) Create(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item.ID = r.seq
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) ListByOwner(_ context.Context, ownerID uint) ([]model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []model.Item{}
	for id := uint(1); id <= r.seq; id++ {
		if item, ok := r.items[id]; ok && item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *memItemRepo) ListAll(_ context.Context) ([]model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []model.Item{}
	for id := uint(1); id <= r.seq; id++ {
		if item, ok := r.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *memItemRepo) FindByOwnerAndID(_ context.Context, ownerID, itemID uint) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	found := item
	return &found, nil
}

func (r *memItemRepo) Update(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Delete(_ context.Context, ownerID, itemID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, itemID)
	return nil
}

type testServer struct {
	e     *echo.Echo
	users *memUserRepo
	items *memItemRepo
	auth  service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := newMemUserRepo()
	items := newMemItemRepo()

	authService := service.NewAuthService(users, auth.NewPasswordHasher(), auth.NewTokenService("test-secret"))
	itemService := service.NewItemService(items)

	e := echo.New()
	router.Register(e, authService, handler.NewAuthHandler(authService), handler.NewItemHandler(itemService))

	return &testServer{e: e, users: users, items: items, auth: authService}
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(payload))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, username, password string) {
	t.Helper()

	rec := s.doJSON(t, http.MethodPost, "/users/", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decodeItems(t *testing.T, rec *httptest.ResponseRecorder) []model.Item {
	t.Helper()

	var items []model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	return items
}

func TestItemLifecycle(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "carol", "pw1secret")
	token := srv.login(t, "carol", "pw1secret")

	// Fresh account starts with no items.
	rec := srv.doJSON(t, http.MethodGet, "/users/me/items/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeItems(t, rec))

	rec = srv.doJSON(t, http.MethodPost, "/users/1/items/", token, map[string]string{
		"title": "buy milk",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.Completed)

	rec = srv.doJSON(t, http.MethodGet, "/users/me/items/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeItems(t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "buy milk", items[0].Title)
	assert.False(t, items[0].Completed)

	rec = srv.doJSON(t, http.MethodPut, fmt.Sprintf("/users/1/items/finish?item_id=%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.doJSON(t, http.MethodGet, "/users/me/items/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = decodeItems(t, rec)
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed)

	rec = srv.doJSON(t, http.MethodDelete, fmt.Sprintf("/users/1/items/delete?item_id=%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.doJSON(t, http.MethodGet, "/users/me/items/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeItems(t, rec))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "bob", "pw1secret")
	before := srv.users.count()

	rec := srv.doJSON(t, http.MethodPost, "/users/", "", map[string]string{
		"username": "bob",
		"email":    "bob2@example.com",
		"password": "pw2secret",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, before, srv.users.count())
}

func TestMissingOrInvalidTokenRejected(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "carol", "pw1secret")

	// Missing, garbage and foreign-secret tokens are rejected uniformly.
	rec := srv.doJSON(t, http.MethodGet, "/users/me/items/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.doJSON(t, http.MethodGet, "/users/me/items/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, err := auth.NewTokenService("wrong-secret").Issue("carol", auth.SessionExpiry)
	require.NoError(t, err)
	rec = srv.doJSON(t, http.MethodGet, "/users/me/items/", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInactiveUserRejected(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "mallory", "pw1secret")

	// Deactivate after registration; login still authenticates but the
	// active gate blocks item operations on the next request.
	srv.users.mu.Lock()
	srv.users.users["mallory"].IsActive = false
	srv.users.mu.Unlock()

	token := srv.login(t, "mallory", "pw1secret")

	rec := srv.doJSON(t, http.MethodGet, "/users/me/items/", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestOwnershipIsolation(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "alice", "pw1secret")
	srv.register(t, "eve", "pw2secret")
	aliceToken := srv.login(t, "alice", "pw1secret")
	eveToken := srv.login(t, "eve", "pw2secret")

	rec := srv.doJSON(t, http.MethodPost, "/users/1/items/", aliceToken, map[string]string{
		"title": "alice's item",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	// Eve cannot finish or delete Alice's item even with its real id; the
	// {user_id} path segment carries no authority either.
	rec = srv.doJSON(t, http.MethodPut, fmt.Sprintf("/users/1/items/finish?item_id=%d", item.ID), eveToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.doJSON(t, http.MethodDelete, fmt.Sprintf("/users/1/items/delete?item_id=%d", item.ID), eveToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.doJSON(t, http.MethodGet, "/users/me/items/", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeItems(t, rec)
	require.Len(t, items, 1)
	assert.False(t, items[0].Completed)

	// The unscoped listing is visible to any active identity.
	rec = srv.doJSON(t, http.MethodGet, "/items/", eveToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeItems(t, rec), 1)
}
