package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/domain"
	"hospitalink-admin/internal/kvstore"
	"hospitalink-admin/internal/upstream"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New(kvstore.NewMemSlot())
	require.NoError(t, sess.Set(context.Background(), "tok", nil))
	api := upstream.New(srv.URL, time.Second, sess, zap.NewNop())
	return NewService(api, zap.NewNop()), srv
}

func TestListFlattensNestedBody(t *testing.T) {
	var gotPath string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(`{
			"success": true,
			"message": "ok",
			"data": {
				"users": [
					{"id": "u1", "email": "a@b.c", "fullName": "Andi", "gender": "MALE"},
					{"id": "u2", "email": "d@e.f", "fullName": "Rina", "gender": "FEMALE"}
				],
				"pagination": {"currentPage": 2, "totalPages": 7, "totalUsers": 65, "limit": 10}
			}
		}`))
	})

	res := svc.List(context.Background(), 2, 10)
	require.True(t, res.Success)
	assert.Equal(t, "/admin/users?page=2&limit=10", gotPath)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Andi", res.Data[0].FullName)
	require.NotNil(t, res.Pagination)
	assert.Equal(t, 2, res.Pagination.CurrentPage)
	assert.Equal(t, 7, res.Pagination.TotalPages)
	assert.Equal(t, 65, res.Pagination.TotalUsers)
}

func TestListDefaultsPageAndLimit(t *testing.T) {
	var gotPath string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(`{"success":true,"data":{"users":[]}}`))
	})

	res := svc.List(context.Background(), 0, -5)
	require.True(t, res.Success)
	assert.Equal(t, "/admin/users?page=1&limit=10", gotPath)
	require.NotNil(t, res.Data, "empty list stays a slice, not nil")
	assert.Empty(t, res.Data)
	assert.Nil(t, res.Pagination, "no metadata from upstream means none downstream")
}

func TestListCollapsesTransportErrors(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	res := svc.List(context.Background(), 1, 10)
	assert.False(t, res.Success)
	assert.Empty(t, res.Data)
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/users/u9", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u9","email":"x@y.z","fullName":"Wati"}}}`))
	})

	res := svc.GetByID(context.Background(), "u9")
	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	assert.Equal(t, "Wati", res.Data.FullName)
}

func TestGetByIDUpstreamFailureCollapses(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"user not found"}`))
	})

	res := svc.GetByID(context.Background(), "ghost")
	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
}

func TestCreateUpdateDeleteVerbs(t *testing.T) {
	var gotMethod, gotPath string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1"}}}`))
	})
	ctx := context.Background()

	t.Run("create posts to collection", func(t *testing.T) {
		res := svc.Create(ctx, domain.UserCreate{Email: "a@b.c", Password: "pw", FullName: "Baru"})
		require.True(t, res.Success)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/admin/users", gotPath)
	})

	t.Run("update puts to item", func(t *testing.T) {
		res := svc.Update(ctx, "u1", domain.UserUpdate{FullName: "Diperbarui"})
		require.True(t, res.Success)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/admin/users/u1", gotPath)
	})

	t.Run("delete hits item", func(t *testing.T) {
		ok := svc.Delete(ctx, "u1")
		assert.True(t, ok)
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/admin/users/u1", gotPath)
	})
}
