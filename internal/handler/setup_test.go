package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/signup/internal/model"
	appErr "github.com/xxxsen/signup/internal/pkg/errors"
	"github.com/xxxsen/signup/internal/pkg/urls"
	"github.com/xxxsen/signup/internal/service"
	"github.com/xxxsen/signup/internal/ui"
)

const testPrefix = "/accounts"

var testSecret = []byte("test-secret")

type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*model.User)}
}

func (m *memUsers) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return &appErr.ConflictError{Field: "username"}
		}
		if u.Email == user.Email {
			return &appErr.ConflictError{Field: "email"}
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (m *memUsers) Activate(ctx context.Context, userID string, mtime int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.Active != 0 {
		return appErr.ErrNotFound
	}
	u.Active = 1
	u.Mtime = mtime
	return nil
}

func (m *memUsers) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

type captureNotifier struct {
	mu    sync.Mutex
	links []string
}

func (n *captureNotifier) Notify(ctx context.Context, user *model.User, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.links = append(n.links, link)
	return nil
}

func (n *captureNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.links) == 0 {
		return ""
	}
	return n.links[len(n.links)-1]
}

type testEnv struct {
	router   http.Handler
	users    *memUsers
	notifier *captureNotifier
}

// newTestEnv wires the real services over an in-memory user store.
func newTestEnv(t *testing.T, plain bool) *testEnv {
	t.Helper()
	return newLimitedTestEnv(t, plain, 0)
}

func newLimitedTestEnv(t *testing.T, plain bool, window time.Duration) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	routes := urls.NewRegistry(testPrefix)
	pages := ui.MustPages()
	users := newMemUsers()
	notifier := &captureNotifier{}

	activation := service.NewActivationService(users, testSecret, time.Hour, routes, "")
	signup := service.NewSignupService(users, activation, notifier)
	auth := service.NewAuthService(users, testSecret, time.Hour)

	var presenter ActivationPresenter = NewTemplatePresenter(pages, routes)
	if plain {
		presenter = NewPlainTextPresenter()
	}
	engine := gin.New()
	RegisterRoutes(engine.Group(testPrefix), RouterDeps{
		Signup:          NewSignupHandler(signup, pages, routes),
		Login:           NewLoginHandler(auth, pages, routes),
		Activation:      NewActivationHandler(activation, presenter),
		Routes:          routes,
		JWTSecret:       testSecret,
		RateLimitWindow: window,
		RateLimitKeys:   64,
	})
	return &testEnv{router: engine, users: users, notifier: notifier}
}

func signupValues(username, email, pw1, pw2 string) url.Values {
	v := url.Values{}
	v.Set("username", username)
	v.Set("email", email)
	v.Set("password1", pw1)
	v.Set("password2", pw2)
	return v
}

func formRequest(method, path string, values url.Values) *http.Request {
	req, _ := http.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
