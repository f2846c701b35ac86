package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScriptTestRouter wires a ScriptHandler onto a chi router backed by the
// given fake store.
func newScriptTestRouter(scripts *fakeScriptStore, now time.Time) chi.Router {
	svc := service.NewScriptService(scripts, nil, func() time.Time { return now })
	handler := NewScriptHandler(svc, nil)

	r := chi.NewRouter()
	r.Post("/scripts", handler.Create)
	r.Get("/scripts", handler.List)
	r.Get("/scripts/{id}", handler.Get)
	r.Put("/scripts/{id}", handler.Update)
	r.Post("/scripts/{id}/complete", handler.Complete)
	r.Delete("/scripts/{id}", handler.Delete)
	return r
}

func decodeScript(t *testing.T, w *httptest.ResponseRecorder) ScriptResponse {
	t.Helper()
	var resp ScriptResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestScriptCreateReturns201ForNewScript(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	router := newScriptTestRouter(newFakeScriptStore(), now)
	ownerID := uuid.New()

	body := `{"name": "laundry", "content": "whites only"}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/scripts", strings.NewReader(body)), ownerID)
	w := doRequest(router, req)

	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeScript(t, w)
	assert.Equal(t, "laundry", resp.Name)
	assert.Equal(t, ownerID.String(), resp.UserID)
	assert.Equal(t, 0, resp.UsageCount)
	assert.Equal(t, now, resp.ScheduledOn, "scheduled date defaults to the creation time")
}

func TestScriptCreateReturns200ForReuse(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	router := newScriptTestRouter(scripts, now)
	ownerID := uuid.New()

	first := withOwner(httptest.NewRequest(http.MethodPost, "/scripts",
		strings.NewReader(`{"name": "laundry", "content": "whites only"}`)), ownerID)
	w := doRequest(router, first)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeScript(t, w)

	second := withOwner(httptest.NewRequest(http.MethodPost, "/scripts",
		strings.NewReader(`{"name": "laundry", "content": "different content"}`)), ownerID)
	w = doRequest(router, second)
	require.Equal(t, http.StatusOK, w.Code)

	reused := decodeScript(t, w)
	assert.Equal(t, created.ID, reused.ID)
	assert.Equal(t, 1, reused.UsageCount)
	assert.Equal(t, "whites only", reused.Content, "reuse keeps the original content")
}

func TestScriptCreateRequiresAuthentication(t *testing.T) {
	t.Parallel()

	router := newScriptTestRouter(newFakeScriptStore(), time.Now())

	req := httptest.NewRequest(http.MethodPost, "/scripts",
		strings.NewReader(`{"name": "laundry", "content": "whites"}`))
	w := doRequest(router, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScriptCreateValidatesBody(t *testing.T) {
	t.Parallel()

	router := newScriptTestRouter(newFakeScriptStore(), time.Now())
	ownerID := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name": `},
		{"missing name", `{"content": "whites"}`},
		{"missing content", `{"name": "laundry"}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := withOwner(httptest.NewRequest(http.MethodPost, "/scripts",
				strings.NewReader(tc.body)), ownerID)
			w := doRequest(router, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestScriptListReturnsOwnScriptsOnly(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	scripts := newFakeScriptStore()
	router := newScriptTestRouter(scripts, now)

	ownerID := uuid.New()
	otherID := uuid.New()

	for _, tc := range []struct {
		owner uuid.UUID
		name  string
	}{
		{ownerID, "mine one"},
		{ownerID, "mine two"},
		{otherID, "not mine"},
	} {
		body, err := json.Marshal(map[string]string{"name": tc.name, "content": "x"})
		require.NoError(t, err)
		req := withOwner(httptest.NewRequest(http.MethodPost, "/scripts", bytes.NewReader(body)), tc.owner)
		require.Equal(t, http.StatusCreated, doRequest(router, req).Code)
	}

	req := withOwner(httptest.NewRequest(http.MethodGet, "/scripts", nil), ownerID)
	w := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []ScriptResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestScriptGetUnknownID(t *testing.T) {
	t.Parallel()

	router := newScriptTestRouter(newFakeScriptStore(), time.Now())

	req := withOwner(httptest.NewRequest(http.MethodGet, "/scripts/"+uuid.NewString(), nil), uuid.New())
	w := doRequest(router, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScriptGetMalformedID(t *testing.T) {
	t.Parallel()

	router := newScriptTestRouter(newFakeScriptStore(), time.Now())

	req := withOwner(httptest.NewRequest(http.MethodGet, "/scripts/not-a-uuid", nil), uuid.New())
	w := doRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScriptUpdateRenameResetsUsage(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	router := newScriptTestRouter(scripts, now)
	ownerID := uuid.New()

	// Create, then reuse three times.
	var created ScriptResponse
	for i := 0; i < 4; i++ {
		req := withOwner(httptest.NewRequest(http.MethodPost, "/scripts",
			strings.NewReader(`{"name": "laundry", "content": "whites"}`)), ownerID)
		w := doRequest(router, req)
		if i == 0 {
			require.Equal(t, http.StatusCreated, w.Code)
			created = decodeScript(t, w)
		} else {
			require.Equal(t, http.StatusOK, w.Code)
		}
	}

	req := withOwner(httptest.NewRequest(http.MethodPut, "/scripts/"+created.ID,
		strings.NewReader(`{"name": "ironing"}`)), ownerID)
	w := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeScript(t, w)
	assert.Equal(t, "ironing", updated.Name)
	assert.Equal(t, 1, updated.UsageCount)
	assert.Equal(t, "whites", updated.Content, "omitted fields stay unchanged")
}

func TestScriptComplete(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scripts := newFakeScriptStore()
	router := newScriptTestRouter(scripts, now)
	ownerID := uuid.New()

	req := withOwner(httptest.NewRequest(http.MethodPost, "/scripts",
		strings.NewReader(`{"name": "laundry", "content": "whites"}`)), ownerID)
	w := doRequest(router, req)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeScript(t, w)

	req = withOwner(httptest.NewRequest(http.MethodPost, "/scripts/"+created.ID+"/complete", nil), ownerID)
	w = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	completed := decodeScript(t, w)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletionDate)
	assert.Equal(t, now, *completed.CompletionDate)
}

func TestScriptDelete(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	scripts := newFakeScriptStore()
	router := newScriptTestRouter(scripts, now)
	ownerID := uuid.New()

	req := withOwner(httptest.NewRequest(http.MethodPost, "/scripts",
		strings.NewReader(`{"name": "laundry", "content": "whites"}`)), ownerID)
	w := doRequest(router, req)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeScript(t, w)

	req = withOwner(httptest.NewRequest(http.MethodDelete, "/scripts/"+created.ID, nil), ownerID)
	w = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = withOwner(httptest.NewRequest(http.MethodDelete, "/scripts/"+created.ID, nil), ownerID)
	w = doRequest(router, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
