package service

import (
	"context"
	"errors"
	"sync"

	"github.com/xxxsen/signup/internal/model"
	appErr "github.com/xxxsen/signup/internal/pkg/errors"
)

type memUserStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	failGet error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*model.User)}
}

func (m *memUserStore) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return appErr.ErrConflict
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) GetByID(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
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

func (m *memUserStore) Activate(ctx context.Context, userID string, mtime int64) error {
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

func (m *memUserStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return appErr.ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

type recordingNotifier struct {
	links []string
	err   error
}

func (r *recordingNotifier) Notify(ctx context.Context, user *model.User, link string) error {
	if r.err != nil {
		return r.err
	}
	r.links = append(r.links, link)
	return nil
}

var errStorage = errors.New("storage down")
