package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/signup/internal/model"
	"github.com/xxxsen/signup/internal/pkg/jwt"
	"github.com/xxxsen/signup/internal/pkg/urls"
)

var testSecret = []byte("test-secret")

func newActivationFixture(t *testing.T) (*memUserStore, *ActivationService, *model.User) {
	t.Helper()
	routes := urls.NewRegistry("/accounts")
	routes.Add(RouteActivate, "/activate/:uidb64/:token/")
	store := newMemUserStore()
	svc := NewActivationService(store, testSecret, time.Hour, routes, "https://example.com")
	user := &model.User{ID: newID(), Username: "alice", Email: "alice@example.com", PasswordHash: "h", Ctime: 100, Mtime: 100}
	require.NoError(t, store.Create(context.Background(), user))
	return store, svc, user
}

// tamper swaps the first signature character so the bytes always differ.
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 1
	repl := "A"
	if token[i] == 'A' {
		repl = "B"
	}
	return token[:i] + repl + token[i+1:]
}

func TestEncodeDecodeID(t *testing.T) {
	id := newID()
	got, err := DecodeID(EncodeID(id))
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = DecodeID("!!!")
	require.Error(t, err)
	_, err = DecodeID("")
	require.Error(t, err)

	for _, encoded := range []string{"AA", "_w", EncodeID("someone-else"), EncodeID(strings.ToUpper(id))} {
		_, err = DecodeID(encoded)
		require.Error(t, err, encoded)
	}
}

func TestActivationService_MalformedIdentifierNeverHitsStorage(t *testing.T) {
	store, svc, user := newActivationFixture(t)
	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	store.failGet = errStorage
	for _, encoded := range []string{"AA", "_w", EncodeID("someone-else")} {
		ok, err := svc.Verify(context.Background(), encoded, token)
		require.NoError(t, err, encoded)
		require.False(t, ok, encoded)
	}
	ok, err := svc.Verify(context.Background(), EncodeID(newID()), "garbage")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestActivationService_TokenForMissingUser(t *testing.T) {
	_, svc, _ := newActivationFixture(t)
	ghost := newID()
	token, err := jwt.GenerateToken(ghost, jwt.PurposeActivate, "fp", testSecret, time.Hour)
	require.NoError(t, err)

	ok, err := svc.Verify(context.Background(), EncodeID(ghost), token)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestActivationService_VerifyValidLink(t *testing.T) {
	store, svc, user := newActivationFixture(t)
	ctx := context.Background()

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	ok, err := svc.Verify(ctx, EncodeID(user.ID), token)
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive())

	ok, err = svc.Verify(ctx, EncodeID(user.ID), token)
	require.NoError(t, err)
	require.False(t, ok, "a link must not activate twice")
}

func TestActivationService_VerifyRejects(t *testing.T) {
	store, svc, user := newActivationFixture(t)
	ctx := context.Background()
	other := &model.User{ID: newID(), Username: "bob", Email: "bob@example.com", PasswordHash: "h", Ctime: 100, Mtime: 100}
	require.NoError(t, store.Create(ctx, other))

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	otherToken, err := svc.IssueToken(other)
	require.NoError(t, err)
	expired, err := jwt.GenerateToken(user.ID, jwt.PurposeActivate, fingerprint(user), testSecret, -time.Minute)
	require.NoError(t, err)
	access, err := jwt.GenerateToken(user.ID, jwt.PurposeAccess, fingerprint(user), testSecret, time.Hour)
	require.NoError(t, err)

	cases := map[string]struct {
		uid   string
		token string
	}{
		"tampered token":     {EncodeID(user.ID), tamper(token)},
		"garbage identifier": {"***", token},
		"unknown user":       {EncodeID(newID()), token},
		"token of other":     {EncodeID(user.ID), otherToken},
		"expired":            {EncodeID(user.ID), expired},
		"wrong purpose":      {EncodeID(user.ID), access},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := svc.Verify(ctx, tc.uid, tc.token)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive())
}

func TestActivationService_VerifyPropagatesStorageErrors(t *testing.T) {
	store, svc, user := newActivationFixture(t)
	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	store.failGet = errStorage
	ok, err := svc.Verify(context.Background(), EncodeID(user.ID), token)
	require.False(t, ok)
	require.True(t, errors.Is(err, errStorage))
}

func TestActivationService_IssueLink(t *testing.T) {
	_, svc, user := newActivationFixture(t)
	link, err := svc.IssueLink(user)
	require.NoError(t, err)
	prefix := "https://example.com/accounts/activate/" + EncodeID(user.ID) + "/"
	require.True(t, strings.HasPrefix(link, prefix), link)
	require.True(t, strings.HasSuffix(link, "/"))

	token := strings.TrimSuffix(strings.TrimPrefix(link, prefix), "/")
	ok, err := svc.Verify(context.Background(), EncodeID(user.ID), token)
	require.NoError(t, err)
	require.True(t, ok)
}
