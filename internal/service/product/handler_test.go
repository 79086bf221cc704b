package product

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/idempotency"
	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/server"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	log := logger.NewNop()
	cfg := &config.Config{Server: config.ServerConfig{RequestTimeout: time.Second}}

	idem := idempotency.NewService(idempotency.NewMemoryStorage(), idempotency.NewJSONSerializer(), time.Hour, log)
	t.Cleanup(func() { _ = idem.Close() })

	h := NewProductHandler(NewProductService(NewMemoryRepository(), log), idem)
	srv := server.NewEchoServer(cfg, log, server.NewMetrics())
	srv.Mount([]server.Route{
		{Method: http.MethodGet, Path: "/products", Handler: h.List},
		{Method: http.MethodPost, Path: "/products", Handler: h.Create},
		{Method: http.MethodGet, Path: "/products/:id", Handler: h.Get},
		{Method: http.MethodPut, Path: "/products/:id", Handler: h.Update},
		{Method: http.MethodPatch, Path: "/products/:id", Handler: h.Update},
		{Method: http.MethodDelete, Path: "/products/:id", Handler: h.Delete},
	})
	return srv
}

func call(t *testing.T, srv *server.Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.GetEcho().ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body server.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestHandler_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	created := call(t, srv, http.MethodPost, "/products", `{"name":"Widget","price":9.99}`)
	require.Equal(t, http.StatusCreated, created.Code)

	var p Product
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &p))
	assert.Equal(t, uint(1), p.ID)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 9.99, p.Price)
	assert.Nil(t, p.CreatedBy)
	assert.NotContains(t, created.Body.String(), "created_by")

	fetched := call(t, srv, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, fetched.Code)
	assert.JSONEq(t, created.Body.String(), fetched.Body.String())

	patched := call(t, srv, http.MethodPatch, "/products/1", `{"stock":3}`)
	require.Equal(t, http.StatusOK, patched.Code)
	require.NoError(t, json.Unmarshal(patched.Body.Bytes(), &p))
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, "Widget", p.Name, "absent fields are kept")

	put := call(t, srv, http.MethodPut, "/products/1", `{"price":0}`)
	require.Equal(t, http.StatusOK, put.Code)
	require.NoError(t, json.Unmarshal(put.Body.Bytes(), &p))
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, 3, p.Stock)

	list := call(t, srv, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, list.Code)
	var all []Product
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodDelete, "/products/1", "").Code)

	gone := call(t, srv, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusNotFound, gone.Code)
	assert.Equal(t, "not_found", errorCode(t, gone))
}

func TestHandler_StoredPriceMatchesResponse(t *testing.T) {
	srv := newTestServer(t)

	created := call(t, srv, http.MethodPost, "/products", `{"name":"Widget","price":9999999999.99}`)
	require.Equal(t, http.StatusCreated, created.Code)

	fetched := call(t, srv, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, fetched.Code)
	assert.JSONEq(t, created.Body.String(), fetched.Body.String())
}

func TestHandler_EmptyListIsArray(t *testing.T) {
	rec := call(t, newTestServer(t), http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_NotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/products/42", "/products/abc", "/products/0", "/products/-1"} {
		rec := call(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "not_found", errorCode(t, rec), path)
	}

	rec := call(t, srv, http.MethodPut, "/products/42", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, srv, http.MethodDelete, "/products/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Validation(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]string{
		"missing name":     `{"price":1}`,
		"missing price":    `{"name":"Widget"}`,
		"negative price":   `{"name":"Widget","price":-1}`,
		"negative stock":   `{"name":"Widget","price":1,"stock":-1}`,
		"long name":        `{"name":"` + strings.Repeat("n", 256) + `","price":1}`,
		"long sku":         `{"name":"Widget","price":1,"sku":"` + strings.Repeat("s", 65) + `"}`,
		"malformed":        `{"name":`,
		"blank name":       `{"name":"   ","price":1}`,
		"long description": `{"name":"Widget","price":1,"description":"` + strings.Repeat("d", 2001) + `"}`,
		"price scale":      `{"name":"Widget","price":9.999}`,
		"price overflow":   `{"name":"Widget","price":10000000000}`,
	}
	for name, body := range cases {
		rec := call(t, srv, http.MethodPost, "/products", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, name)
		assert.Equal(t, "validation_failed", errorCode(t, rec), name)
	}

	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/products", `{"name":"Widget","price":1}`).Code)

	rec := call(t, srv, http.MethodPatch, "/products/1", `{"name":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(t, srv, http.MethodPatch, "/products/1", `{"stock":-5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	for _, body := range []string{`{"price":1.005}`, `{"price":1e10}`, `{}`} {
		rec = call(t, srv, http.MethodPut, "/products/1", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.Equal(t, "validation_failed", errorCode(t, rec), body)
	}
}

func TestHandler_ListQuery(t *testing.T) {
	srv := newTestServer(t)
	for _, body := range []string{`{"name":"Blue Widget","price":1}`, `{"name":"Gadget","price":1}`} {
		require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/products", body).Code)
	}

	rec := call(t, srv, http.MethodGet, "/products?q=widget", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Blue Widget", found[0].Name)
}

func TestHandler_IdempotentCreate(t *testing.T) {
	srv := newTestServer(t)
	body := `{"name":"Widget","price":9.99}`

	first := call(t, srv, http.MethodPost, "/products", body, server.HeaderIdempotencyKey, "abc")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(HeaderIdempotentReplayed))

	second := call(t, srv, http.MethodPost, "/products", body, server.HeaderIdempotencyKey, "abc")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(HeaderIdempotentReplayed))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	reused := call(t, srv, http.MethodPost, "/products", `{"name":"Other","price":1}`, server.HeaderIdempotencyKey, "abc")
	assert.Equal(t, http.StatusConflict, reused.Code)
	assert.Equal(t, "conflict", errorCode(t, reused))

	list := call(t, srv, http.MethodGet, "/products", "")
	var all []Product
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &all))
	assert.Len(t, all, 1, "replays create nothing")
}
