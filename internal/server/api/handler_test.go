package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progitman/progitman/internal/logging"
	"github.com/progitman/progitman/internal/models"
	"github.com/progitman/progitman/internal/server/auth"
	"github.com/progitman/progitman/internal/server/config"
	"github.com/progitman/progitman/internal/server/profiles"
)

type fakeRepo struct {
	items   map[string]*models.Profile
	failAll error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*models.Profile)}
}

func (r *fakeRepo) Create(_ context.Context, p *models.Profile) (*models.Profile, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	stored := p.Clone()
	stored.ID = uuid.NewString()
	stored.UpdatedAt = time.Now().UTC()
	r.items[stored.ID] = stored
	return stored, nil
}

func (r *fakeRepo) Update(_ context.Context, p *models.Profile) (*models.Profile, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	if _, ok := r.items[p.ID]; !ok {
		return nil, profiles.ErrNotFound
	}
	stored := p.Clone()
	stored.UpdatedAt = time.Now().UTC()
	r.items[stored.ID] = stored
	return stored, nil
}

func (r *fakeRepo) GetAll(_ context.Context) ([]*models.Profile, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	var result []*models.Profile
	for _, p := range r.items {
		result = append(result, p.Clone())
	}
	return result, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if r.failAll != nil {
		return r.failAll
	}
	if _, ok := r.items[id]; !ok {
		return profiles.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func newTestServer(t *testing.T, repo profiles.Repository, cfg *config.Config) *httptest.Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(NewRouter(NewHandler(repo, cfg, logger)))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func login(t *testing.T, srv *httptest.Server, cfg *config.Config) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", "",
		map[string]string{"username": cfg.OperatorUser, "password": cfg.OperatorPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sr sessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	require.NotEmpty(t, sr.AccessToken)
	return sr.AccessToken
}

func TestLogin(t *testing.T) {
	cfg := testConfig()
	srv := newTestServer(t, newFakeRepo(), cfg)

	t.Run("valid credentials", func(t *testing.T) {
		token := login(t, srv, cfg)
		username, err := auth.GetUsernameFromToken(token, []byte(cfg.SecretKey))
		require.NoError(t, err)
		assert.Equal(t, cfg.OperatorUser, username)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", "",
			map[string]string{"username": cfg.OperatorUser, "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthentication(t *testing.T) {
	cfg := testConfig()
	srv := newTestServer(t, newFakeRepo(), cfg)

	t.Run("missing token", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/profiles", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/profiles", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		forged, err := auth.GenerateToken(cfg.OperatorUser, []byte("other"), time.Hour)
		require.NoError(t, err)
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/profiles", forged, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProfileCRUD(t *testing.T) {
	cfg := testConfig()
	repo := newFakeRepo()
	srv := newTestServer(t, repo, cfg)
	token := login(t, srv, cfg)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/profiles", token,
		&models.Profile{Name: "Alice", Email: "alice@example.com", Token: "sealed-token"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Profile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.True(t, models.IsRemoteID(created.ID))
	assert.False(t, created.UpdatedAt.IsZero())
	assert.Equal(t, "sealed-token", created.Token, "envelopes must be stored verbatim")

	created.Name = "Alice Updated"
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/profiles/"+created.ID, token, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/profiles", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []*models.Profile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Alice Updated", list[0].Name)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/profiles/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, repo.items)
}

func TestNotFound(t *testing.T) {
	cfg := testConfig()
	srv := newTestServer(t, newFakeRepo(), cfg)
	token := login(t, srv, cfg)

	missing := uuid.NewString()

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/profiles/"+missing, token, &models.Profile{Name: "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/profiles/"+missing, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListEmptyIsArray(t *testing.T) {
	cfg := testConfig()
	srv := newTestServer(t, newFakeRepo(), cfg)
	token := login(t, srv, cfg)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/profiles", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(body))
}

func TestRepositoryFailure(t *testing.T) {
	cfg := testConfig()
	repo := newFakeRepo()
	repo.failAll = errors.New("connection refused")
	srv := newTestServer(t, repo, cfg)
	token := login(t, srv, cfg)

	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/v1/profiles", nil},
		{http.MethodPost, "/api/v1/profiles", &models.Profile{Name: "x"}},
		{http.MethodPut, "/api/v1/profiles/" + uuid.NewString(), &models.Profile{Name: "x"}},
		{http.MethodDelete, "/api/v1/profiles/" + uuid.NewString(), nil},
	} {
		t.Run(fmt.Sprintf("%s %s", tc.method, tc.path), func(t *testing.T) {
			resp := doJSON(t, tc.method, srv.URL+tc.path, token, tc.body)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		})
	}
}
