package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	coreauth "hospitalink-admin/internal/core/auth"
	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/feature/auth"
	"hospitalink-admin/internal/feature/patient"
	"hospitalink-admin/internal/feature/user"
	"hospitalink-admin/internal/kvstore"
	"hospitalink-admin/internal/upstream"
)

// newTestEngine 本地登录模式的完整引擎，上游用 httptest 顶替
func newTestEngine(t *testing.T, upstreamHandler http.HandlerFunc) (http.Handler, *session.Session) {
	t.Helper()
	if upstreamHandler == nil {
		upstreamHandler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}
	}
	srv := httptest.NewServer(upstreamHandler)
	t.Cleanup(srv.Close)

	log := zap.NewNop()
	sess := session.New(kvstore.NewMemSlot())
	api := upstream.New(srv.URL, time.Second, sess, log)
	jwter := &coreauth.JWTer{Secret: []byte("test"), Issuer: "test", TTL: time.Hour}

	deps := Deps{
		Log:      log,
		Sess:     sess,
		Patients: patient.NewService(kvstore.NewMemSlot(), log),
		Users:    user.NewService(api, log),
		Auth:     auth.NewService(auth.ModeLocal, api, sess, kvstore.NewMemSlot(), jwter, log),
		Jwter:    jwter,
	}
	return NewAPIEngine(deps), sess
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/web/login", "",
		`{"email":"admin@test.id","password":"rahasia"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}

func TestHealth(t *testing.T) {
	h, _ := newTestEngine(t, nil)
	w := doJSON(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardRejectsMissingAndBogusTokens(t *testing.T) {
	h, _ := newTestEngine(t, nil)

	w := doJSON(t, h, http.MethodGet, "/api/v1/patients", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/patients", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPatientTableFlow(t *testing.T) {
	h, _ := newTestEngine(t, nil)
	tok := login(t, h)

	t.Run("first load seeds and renders a view", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/v1/patients?page=1&pageSize=2", tok, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out struct {
			Success bool `json:"success"`
			Data    struct {
				Rows       []map[string]any `json:"rows"`
				TotalItems int              `json:"totalItems"`
				TotalPages int              `json:"totalPages"`
				CanNext    bool             `json:"canNext"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.True(t, out.Success)
		assert.Equal(t, patient.SeedSize, out.Data.TotalItems)
		assert.Len(t, out.Data.Rows, 2)
		assert.Equal(t, 2, out.Data.TotalPages)
		assert.True(t, out.Data.CanNext)
	})

	t.Run("search narrows the table", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/v1/patients?q=siti", tok, "")
		require.Equal(t, http.StatusOK, w.Code)

		var out struct {
			Data struct {
				Rows []map[string]any `json:"rows"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Data.Rows, 1)
		assert.Equal(t, "Siti Aminah", out.Data.Rows[0]["name"])
	})

	t.Run("create then delete", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/v1/patients", tok,
			`{"name":"Dewi","nik":"3173xxxxxxxx004","birthDate":"1995-04-12","gender":"P","phone":"0812","address":"Jl. Melati"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.NotEmpty(t, created.Data.ID)

		w = doJSON(t, h, http.MethodDelete, "/api/v1/patients/"+created.Data.ID, tok, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, h, http.MethodDelete, "/api/v1/patients/"+created.Data.ID, tok, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "second delete misses")
	})

	t.Run("stats add up", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/v1/patients/stats", tok, "")
		require.Equal(t, http.StatusOK, w.Code)

		var out struct {
			Data struct {
				Total  int `json:"total"`
				Male   int `json:"male"`
				Female int `json:"female"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, out.Data.Total, out.Data.Male+out.Data.Female)
	})
}

func TestUserTablePassesThroughServerPagination(t *testing.T) {
	h, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/users", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"data": {
				"users": [{"id":"u1","email":"a@b.c","fullName":"Andi","gender":"MALE"}],
				"pagination": {"currentPage": 3, "totalPages": 9, "totalUsers": 85, "limit": 10}
			}
		}`))
	})
	tok := login(t, h)

	w := doJSON(t, h, http.MethodGet, "/api/v1/users?page=3&limit=10", tok, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Data struct {
			View struct {
				Page       int              `json:"page"`
				TotalPages int              `json:"totalPages"`
				TotalItems int              `json:"totalItems"`
				Rows       []map[string]any `json:"rows"`
			} `json:"view"`
			Counts struct {
				Total int `json:"total"`
				Male  int `json:"male"`
			} `json:"counts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 3, out.Data.View.Page)
	assert.Equal(t, 9, out.Data.View.TotalPages)
	assert.Equal(t, 85, out.Data.View.TotalItems)
	require.Len(t, out.Data.View.Rows, 1)
	assert.Equal(t, "L", out.Data.View.Rows[0]["gender"])
	assert.Equal(t, 1, out.Data.Counts.Total, "counts come from the confirmed page, not the server total")
	assert.Equal(t, 1, out.Data.Counts.Male)
}

func TestUserTableToleratesZeroLimitMetadata(t *testing.T) {
	h, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": true,
			"data": {
				"users": [{"id":"u1","email":"a@b.c","fullName":"Andi"}],
				"pagination": {"currentPage": 1, "totalPages": 9, "totalUsers": 85, "limit": 0}
			}
		}`))
	})
	tok := login(t, h)

	w := doJSON(t, h, http.MethodGet, "/api/v1/users?page=1&limit=10", tok, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Data struct {
			View struct {
				PageSize int `json:"pageSize"`
				From     int `json:"from"`
				To       int `json:"to"`
			} `json:"view"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 10, out.Data.View.PageSize, "zero limit from upstream falls back to the requested one")
	assert.Equal(t, 1, out.Data.View.From)
	assert.Equal(t, 10, out.Data.View.To)
}

func TestUpstream401TranslatesToLoginRedirect(t *testing.T) {
	h, sess := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	tok := login(t, h)
	require.True(t, sess.Authenticated())

	w := doJSON(t, h, http.MethodGet, "/api/v1/users", tok, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, sess.Authenticated(), "the stale session is wiped")

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.False(t, out.Success)
	assert.Equal(t, "/login", out.Data.Redirect)
}

func TestDashboardAggregates(t *testing.T) {
	h, _ := newTestEngine(t, nil)
	tok := login(t, h)

	// 先触发播种
	doJSON(t, h, http.MethodGet, "/api/v1/patients/all", tok, "")

	w := doJSON(t, h, http.MethodGet, "/api/v1/dashboard", tok, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Data struct {
			Stats struct {
				Total int `json:"total"`
			} `json:"stats"`
			Recent []map[string]any `json:"recent"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, patient.SeedSize, out.Data.Stats.Total)
	assert.Len(t, out.Data.Recent, patient.SeedSize)
}

func TestLogout(t *testing.T) {
	h, sess := newTestEngine(t, nil)
	tok := login(t, h)
	require.True(t, sess.Authenticated())

	w := doJSON(t, h, http.MethodPost, "/api/v1/auth/logout", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, sess.Authenticated())
}
