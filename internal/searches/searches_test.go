package searches

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcharger-search/evcharger-search/internal/platform/dbtest"
	"github.com/evcharger-search/evcharger-search/internal/shared"
)

func TestNewShortID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := newShortID()
		require.Len(t, id, shortIDLength)
		for _, c := range id {
			assert.True(t, strings.ContainsRune(shortIDAlphabet, c), id)
		}
		seen[id] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestServiceRetriesOnCollision(t *testing.T) {
	svc := NewService(NewSQLiteRepository(dbtest.NewSQLite(t)))
	ids := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	svc.shortID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	ctx := context.Background()

	first, err := svc.Save(ctx, json.RawMessage(`{"filter":"zes"}`), true)
	require.NoError(t, err)
	second, err := svc.Save(ctx, json.RawMessage(`{"filter":"esarj"}`), false)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", first.ShortID)
	assert.Equal(t, "BBBBBB", second.ShortID)
}

func TestServiceRejectsMissingCriteria(t *testing.T) {
	svc := NewService(NewSQLiteRepository(dbtest.NewSQLite(t)))
	for _, raw := range []string{"", "  ", "null", "{broken"} {
		_, err := svc.Save(context.Background(), json.RawMessage(raw), true)
		assert.ErrorIs(t, err, ErrCriteriaRequired, raw)
	}
}

func TestHandlerRoundTrip(t *testing.T) {
	svc := NewService(NewSQLiteRepository(dbtest.NewSQLite(t)))
	r := chi.NewRouter()
	NewHandler(nil, svc, shared.NewTranslator("tr")).MountRoutes(r)

	do := func(method, target, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		var env map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		return rec, env
	}

	rec, env := do(http.MethodPost, "/searches", `{"criteria":{"filter":"zes","sortBy":"ac"},"visibility":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ShortID string `json:"shortId"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &created))
	require.Len(t, created.ShortID, shortIDLength)

	rec, env = do(http.MethodGet, "/searches/"+created.ShortID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got savedSearch
	require.NoError(t, json.Unmarshal(env["data"], &got))
	assert.JSONEq(t, `{"filter":"zes","sortBy":"ac"}`, string(got.Criteria))
	assert.True(t, got.Visibility)

	rec, env = do(http.MethodGet, "/searches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []Search
	require.NoError(t, json.Unmarshal(env["data"], &all))
	assert.Len(t, all, 1)

	rec, _ = do(http.MethodDelete, "/searches/"+created.ShortID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(http.MethodGet, "/searches/"+created.ShortID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `"Arama bulunamadı"`, string(env["error"]))

	rec, _ = do(http.MethodPost, "/searches", `{"visibility":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
