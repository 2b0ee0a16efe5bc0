package prices

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcharger-search/evcharger-search/internal/platform/dbtest"
	"github.com/evcharger-search/evcharger-search/internal/shared"
)

type recordingScheduler struct {
	reasons []string
}

func (s *recordingScheduler) ScheduleWarmup(ctx context.Context, reason string) error {
	s.reasons = append(s.reasons, reason)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, *recordingScheduler) {
	t.Helper()
	repo := NewSQLiteRepository(dbtest.NewSQLite(t))
	cache := NewCache(nil, time.Hour)
	scheduler := &recordingScheduler{}
	handler := NewHandler(nil, NewService(repo), NewLister(repo, cache), cache,
		NewRefresher(cache, scheduler, nil), shared.NewTranslator("tr"))

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.MountRoutes(r)
		r.Route("/admin", handler.MountAdminRoutes)
	})
	return r, scheduler
}

func doRequest(t *testing.T, h http.Handler, method, target, body, lang string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandlerCreateInvalidatesListing(t *testing.T) {
	router, scheduler := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPost, "/api/admin/prices", `{"name":"Acme","acPrice":10,"dcPrice":20}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	rec, env = doRequest(t, router, http.MethodGet, "/api/prices", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing []Listing
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing, 1)

	rec, _ = doRequest(t, router, http.MethodPost, "/api/admin/prices", `{"name":"Volt","dcPrice":15}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env = doRequest(t, router, http.MethodGet, "/api/prices?sortBy=dc&order=asc", "", "")
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	assert.Equal(t, []string{"Volt", "Acme"}, listingNames(listing))
	assert.Equal(t, []string{"price created", "price created"}, scheduler.reasons)
}

func TestHandlerErrors(t *testing.T) {
	router, _ := newTestRouter(t)
	rec, _ := doRequest(t, router, http.MethodPost, "/api/admin/prices", `{"name":"Acme"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		lang   string
		status int
		msg    string
	}{
		{name: "duplicate", method: http.MethodPost, target: "/api/admin/prices", body: `{"name":"Acme"}`, status: http.StatusConflict, msg: "Bu firma adı zaten mevcut"},
		{name: "blank name", method: http.MethodPost, target: "/api/admin/prices", body: `{"name":"  "}`, status: http.StatusBadRequest, msg: "Firma adı boş olamaz"},
		{name: "negative price english", method: http.MethodPost, target: "/api/admin/prices", body: `{"name":"B","acPrice":-2}`, lang: "en-US", status: http.StatusBadRequest, msg: "AC price must be a valid number"},
		{name: "bad id", method: http.MethodPut, target: "/api/admin/prices/abc", body: `{"name":"B"}`, status: http.StatusBadRequest, msg: "Geçersiz ID"},
		{name: "missing", method: http.MethodDelete, target: "/api/admin/prices/42", status: http.StatusNotFound, msg: "Fiyat kaydı bulunamadı"},
		{name: "malformed json", method: http.MethodPost, target: "/api/admin/prices", body: `{`, lang: "en", status: http.StatusBadRequest, msg: "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, router, tt.method, tt.target, tt.body, tt.lang)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.msg, env.Error)
		})
	}
}

func TestHandlerCacheInfo(t *testing.T) {
	router, _ := newTestRouter(t)
	rec, env := doRequest(t, router, http.MethodGet, "/api/admin/cache", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info CacheInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, "memory", info.Backend)
}

func TestHandlerLegacyData(t *testing.T) {
	repo := NewSQLiteRepository(dbtest.NewSQLite(t))
	_, err := repo.Create(context.Background(), Input{Name: "Zes", ACPrice: ptr(8.5)})
	require.NoError(t, err)
	handler := NewHandler(nil, NewService(repo), NewLister(repo, nil), nil, nil, shared.NewTranslator("tr"))
	r := chi.NewRouter()
	handler.MountLegacyRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data?filter=ze", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var items []Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Zes", items[0].Name)
}
