package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"rex-crm-client/internal/middleware"
	"rex-crm-client/internal/rextest"
	"rex-crm-client/pkg/logger"
	"rex-crm-client/pkg/rex"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitLogger(io.Discard, "ERROR")
	os.Exit(m.Run())
}

type memoryDescribeCache struct {
	mu          sync.Mutex
	entries     map[string]*rex.Description
	invalidated int
	failGet     bool
}

func newMemoryDescribeCache() *memoryDescribeCache {
	return &memoryDescribeCache{entries: map[string]*rex.Description{}}
}

func (m *memoryDescribeCache) Get(ctx context.Context, service string) (*rex.Description, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, stderrors.New("redis down")
	}
	d, ok := m.entries[service]
	return d, ok, nil
}

func (m *memoryDescribeCache) Set(ctx context.Context, service string, d *rex.Description) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[service] = d
	return nil
}

func (m *memoryDescribeCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]*rex.Description{}
	m.invalidated++
	return nil
}

type fixture struct {
	router *gin.Engine
	client *rex.Client
	srv    *rextest.Server
	cache  *memoryDescribeCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := rextest.NewServer(t)
	client := rex.NewClient(rex.WithBaseURL(srv.URL))
	cache := newMemoryDescribeCache()

	sessions := NewSessionHandler(client, cache)
	services := NewServiceHandler(client, cache)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	api := r.Group("/api")
	api.POST("/login", sessions.Login)
	api.POST("/logout", sessions.Logout)
	api.GET("/location", PointToLocation)
	api.GET("/services", services.ListServices)
	api.GET("/services/:service/describe", services.Describe)
	authed := api.Group("/services", middleware.RequireSession(client))
	authed.GET("/:service", services.Search)
	authed.GET("/:service/:id", services.Read)

	return &fixture{router: r, client: client, srv: srv, cache: cache}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/login", LoginRequest{Email: rextest.Email, Password: rextest.Password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, w, &body)
	return body.Error.Code
}

func TestLoginAndLogout(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/login", LoginRequest{Email: rextest.Email, Password: rextest.Password})
	require.Equal(t, http.StatusOK, w.Code)
	var tok TokenResponse
	decode(t, w, &tok)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, f.client.Token(), tok.Token)
	assert.Equal(t, 1, f.cache.invalidated)

	w = f.do(t, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.client.HasToken())
}

func TestLoginRejected(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/login", LoginRequest{Email: rextest.Email, Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, w))
	assert.False(t, f.client.HasToken())
	assert.Zero(t, f.cache.invalidated)
}

func TestLoginRequiresBody(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/login", map[string]string{"email": rextest.Email})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETERS", errorCode(t, w))
	assert.Empty(t, f.srv.Requests())
}

func TestListServices(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/services", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Services []string `json:"services"`
	}
	decode(t, w, &body)
	assert.Equal(t, rex.Services, body.Services)
}

func TestDescribeIsCached(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/services/Listings/describe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var d rex.Description
	decode(t, w, &d)
	assert.Equal(t, "Listings", d.Name)
	assert.NotEmpty(t, d.Methods)

	w = f.do(t, http.MethodGet, "/api/services/Listings/describe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Len(t, f.srv.Requests(), 1)
}

func TestDescribeFallsBackWhenCacheFails(t *testing.T) {
	f := newFixture(t)
	f.cache.failGet = true

	w := f.do(t, http.MethodGet, "/api/services/Contacts/describe", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestDescribeWithoutCache(t *testing.T) {
	srv := rextest.NewServer(t)
	client := rex.NewClient(rex.WithBaseURL(srv.URL))
	h := NewServiceHandler(client, nil)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/api/services/:service/describe", h.Describe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/services/Notes/describe", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestUnknownService(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	w := f.do(t, http.MethodGet, "/api/services/Widgets/describe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SERVICE_NOT_FOUND", errorCode(t, w))

	w = f.do(t, http.MethodGet, "/api/services/Widgets", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadNeedsSession(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/services/Listings/68", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "NO_SESSION", errorCode(t, w))
	assert.Empty(t, f.srv.Requests())
}

func TestReadWithFields(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	w := f.do(t, http.MethodGet, "/api/services/Listings/68?fields=_id,%20property", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var rec rex.Record
	decode(t, w, &rec)
	assert.EqualValues(t, 68, rec["_id"])

	last, ok := f.srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "read", last.Method)
	assert.Equal(t, []interface{}{"_id", "property"}, last.Body["fields"])
}

func TestReadErrors(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	w := f.do(t, http.MethodGet, "/api/services/Listings/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/services/Listings/424242", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECORD_NOT_FOUND", errorCode(t, w))
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	w := f.do(t, http.MethodGet, "/api/services/Properties?limit=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var res SearchResponse
	decode(t, w, &res)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Limit)
	assert.Equal(t, "/api/services/Properties?limit=2&offset=2", res.Links.Next)
	assert.Empty(t, res.Links.Prev)
	for _, row := range res.Rows {
		assert.Contains(t, row, "_id")
	}
}

func TestSearchRejectsBadPaging(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	for _, q := range []string{"limit=0", "limit=x", "limit=1000", "offset=-1"} {
		w := f.do(t, http.MethodGet, "/api/services/Properties?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestPointToLocation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/location?point=POINT(-38.294285%20143.175875)", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ok LocationResponse
	decode(t, w, &ok)
	assert.True(t, ok.Valid)
	require.NotNil(t, ok.Location.Lat)
	assert.InDelta(t, -38.294285, *ok.Location.Lat, 1e-9)
	assert.InDelta(t, 143.175875, *ok.Location.Lng, 1e-9)

	w = f.do(t, http.MethodGet, "/api/location?point=bad%20value", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bad LocationResponse
	decode(t, w, &bad)
	assert.False(t, bad.Valid)
	assert.Nil(t, bad.Location.Lat)
	assert.Nil(t, bad.Location.Lng)
}
