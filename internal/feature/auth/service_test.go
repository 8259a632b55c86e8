package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	coreauth "hospitalink-admin/internal/core/auth"
	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/kvstore"
	"hospitalink-admin/internal/upstream"
)

func newLocalService(t *testing.T) (*Service, *session.Session) {
	t.Helper()
	sess := session.New(kvstore.NewMemSlot())
	jwter := &coreauth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	svc := NewService(ModeLocal, nil, sess, kvstore.NewMemSlot(), jwter, zap.NewNop())
	return svc, sess
}

func TestLocalLoginRegistersOnFirstAttempt(t *testing.T) {
	svc, sess := newLocalService(t)
	ctx := context.Background()

	res := svc.LoginWeb(ctx, LoginInput{Email: "Admin@Hospital.test", Password: "rahasia"})
	require.True(t, res.Success)
	assert.NotEmpty(t, res.Token)
	assert.True(t, sess.Authenticated())

	var user map[string]string
	require.NoError(t, json.Unmarshal(res.User, &user))
	assert.Equal(t, "admin@hospital.test", user["email"], "email is normalized")
	assert.Equal(t, "admin", user["fullName"], "name defaults to the mailbox part")
	assert.Equal(t, "user", user["role"])
}

func TestLocalLoginChecksPasswordOnReturn(t *testing.T) {
	svc, sess := newLocalService(t)
	ctx := context.Background()

	first := svc.LoginWeb(ctx, LoginInput{Email: "a@b.c", Password: "benar"})
	require.True(t, first.Success)
	require.NoError(t, sess.Clear(ctx))

	wrong := svc.LoginWeb(ctx, LoginInput{Email: "a@b.c", Password: "salah"})
	assert.False(t, wrong.Success)
	assert.Equal(t, "invalid credentials", wrong.Message)
	assert.False(t, sess.Authenticated())

	right := svc.LoginWeb(ctx, LoginInput{Email: "a@b.c", Password: "benar"})
	require.True(t, right.Success)
	assert.True(t, sess.Authenticated())
}

func TestLocalLoginIssuesParsableToken(t *testing.T) {
	svc, _ := newLocalService(t)
	res := svc.LoginWeb(context.Background(), LoginInput{Email: "a@b.c", Password: "pw"})
	require.True(t, res.Success)

	claims, err := svc.jwter.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.UID)
}

func TestRemoteLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/web/login", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"data": {"token": "remote-tok", "user": {"id": "u1", "fullName": "Dr. Andi"}, "loginMethod": "password", "platform": "web"}
		}`))
	}))
	defer srv.Close()

	sess := session.New(kvstore.NewMemSlot())
	api := upstream.New(srv.URL, time.Second, sess, zap.NewNop())
	svc := NewService(ModeRemote, api, sess, nil, nil, zap.NewNop())

	res := svc.LoginWeb(context.Background(), LoginInput{Email: "a@b.c", Password: "pw"})
	require.True(t, res.Success)
	assert.Equal(t, "remote-tok", res.Token)
	assert.Equal(t, "remote-tok", sess.Token())
	assert.JSONEq(t, `{"id":"u1","fullName":"Dr. Andi"}`, string(sess.User()))
}

func TestRemoteLoginFailurePropagatesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"email atau password salah"}`))
	}))
	defer srv.Close()

	sess := session.New(kvstore.NewMemSlot())
	api := upstream.New(srv.URL, time.Second, sess, zap.NewNop())
	svc := NewService(ModeRemote, api, sess, nil, nil, zap.NewNop())

	res := svc.LoginWeb(context.Background(), LoginInput{Email: "a@b.c", Password: "pw"})
	assert.False(t, res.Success)
	assert.Equal(t, "email atau password salah", res.Message)
	assert.False(t, sess.Authenticated())
}

func TestLogoutClearsSession(t *testing.T) {
	svc, sess := newLocalService(t)
	ctx := context.Background()
	svc.LoginWeb(ctx, LoginInput{Email: "a@b.c", Password: "pw"})
	require.True(t, sess.Authenticated())

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.User())
}
