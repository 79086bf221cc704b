package catalog

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/server"
	"myapi/internal/service/auth"
	"myapi/internal/service/product"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

const testSecret = "test-secret-test-secret-test-secret"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("APP_JWT_SECRET", testSecret)

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.Logger.Level = "error"
	cfg.Session.PurgeSchedule = ""
	return cfg
}

// startAPI builds the app graph without starting the listener and serves it
// through httptest
func startAPI(t *testing.T, cfg *config.Config) *resty.Client {
	t.Helper()

	var srv *server.Server
	app := fx.New(NewApp(cfg), fx.NopLogger, fx.Populate(&srv))
	require.NoError(t, app.Err())

	ts := httptest.NewServer(srv.GetEcho())
	t.Cleanup(ts.Close)

	return resty.New().SetBaseURL(ts.URL)
}

func buildRoutes(t *testing.T, cfg *config.Config) []server.Route {
	t.Helper()

	var routes []server.Route
	app := fx.New(NewApp(cfg), fx.NopLogger, fx.Populate(&routes))
	require.NoError(t, app.Err())
	return routes
}

func registerUser(t *testing.T, client *resty.Client, email string) auth.TokenResponse {
	t.Helper()

	var token auth.TokenResponse
	resp, err := client.R().
		SetBody(map[string]string{"name": "Ada", "email": email, "password": "correct horse"}).
		SetResult(&token).
		Post("/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	return token
}

func errorCode(t *testing.T, resp *resty.Response) string {
	t.Helper()
	body, ok := resp.Error().(*server.ErrorBody)
	require.True(t, ok, "response %d carries no error body: %s", resp.StatusCode(), resp.String())
	return body.Error.Code
}

func TestScenario_ProductLifecycle(t *testing.T) {
	client := startAPI(t, testConfig(t))

	var created product.Product
	resp, err := client.R().
		SetBody(map[string]any{"name": "Widget", "price": 9.99}).
		SetResult(&created).
		Post("/products")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Widget", created.Name)
	assert.Equal(t, 9.99, created.Price)

	fetched, err := client.R().Get("/products/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, fetched.StatusCode())
	assert.JSONEq(t, resp.String(), fetched.String())

	deleted, err := client.R().Delete("/products/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, deleted.StatusCode())

	gone, err := client.R().SetError(&server.ErrorBody{}).Get("/products/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode())
	assert.Equal(t, "not_found", errorCode(t, gone))
}

func TestAuthFlow_RegisterLoginUserLogout(t *testing.T) {
	client := startAPI(t, testConfig(t))

	registered := registerUser(t, client, "Ada@Example.com")
	assert.Equal(t, "Bearer", registered.TokenType)
	assert.Equal(t, "ada@example.com", registered.User.Email)

	var login auth.TokenResponse
	resp, err := client.R().
		SetBody(map[string]string{"email": "ada@example.com", "password": "correct horse"}).
		SetResult(&login).
		Post("/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var me auth.UserResponse
	resp, err = client.R().SetAuthToken(login.Token).SetResult(&me).Get("/user")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, registered.User.ID, me.ID)
	assert.NotContains(t, resp.String(), "password")

	resp, err = client.R().SetAuthToken(login.Token).Post("/logout")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	for _, call := range []func() (*resty.Response, error){
		func() (*resty.Response, error) {
			return client.R().SetAuthToken(login.Token).SetError(&server.ErrorBody{}).Get("/user")
		},
		func() (*resty.Response, error) {
			return client.R().SetAuthToken(login.Token).SetError(&server.ErrorBody{}).Post("/logout")
		},
	} {
		resp, err := call()
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, "unauthenticated", errorCode(t, resp))
	}

	resp, err = client.R().SetAuthToken(registered.Token).Get("/user")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode(), "other sessions survive a logout")
}

func TestAuthFlow_Failures(t *testing.T) {
	client := startAPI(t, testConfig(t))
	registerUser(t, client, "ada@example.com")

	resp, err := client.R().
		SetBody(map[string]string{"name": "Again", "email": "ADA@example.com", "password": "correct horse"}).
		SetError(&server.ErrorBody{}).
		Post("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
	assert.Equal(t, "validation_failed", errorCode(t, resp))
	assert.Contains(t, resp.Error().(*server.ErrorBody).Error.Details, "email")

	resp, err = client.R().
		SetBody(map[string]string{"name": "Bob", "email": "bob@example.com", "password": "correct horse", "password_confirmation": "other"}).
		SetError(&server.ErrorBody{}).
		Post("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
	assert.Contains(t, resp.Error().(*server.ErrorBody).Error.Details, "password_confirmation")

	resp, err = client.R().
		SetBody(map[string]string{"email": "ada@example.com", "password": "wrong horse"}).
		SetError(&server.ErrorBody{}).
		Post("/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	resp, err = client.R().SetAuthToken("garbage").SetError(&server.ErrorBody{}).Get("/user")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	resp, err = client.R().SetError(&server.ErrorBody{}).Get("/user")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestAuthFlow_LoginAcceptsRegistrationInput(t *testing.T) {
	client := startAPI(t, testConfig(t))

	creds := map[string]string{"name": "Ada", "email": " Ada@Example.com ", "password": "correct horse"}
	resp, err := client.R().SetBody(creds).Post("/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	var login auth.TokenResponse
	resp, err = client.R().SetBody(creds).SetResult(&login).Post("/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	assert.Equal(t, "ada@example.com", login.User.Email)
}

func TestAuthFlow_MultibytePasswordOverLimit(t *testing.T) {
	client := startAPI(t, testConfig(t))

	resp, err := client.R().
		SetBody(map[string]string{"name": "Ada", "email": "ada@example.com", "password": strings.Repeat("é", 40)}).
		SetError(&server.ErrorBody{}).
		Post("/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
	assert.Equal(t, "validation_failed", errorCode(t, resp))
	assert.Equal(t, "must be at most 72 bytes", resp.Error().(*server.ErrorBody).Error.Details["password"])
}

func TestRouteNotFound(t *testing.T) {
	client := startAPI(t, testConfig(t))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodDelete, "/products"},
		{http.MethodGet, "/logout"},
	} {
		resp, err := client.R().SetError(&server.ErrorBody{}).Execute(tc.method, tc.path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode(), tc.path)
		assert.Equal(t, "route_not_found", errorCode(t, resp), tc.path)
		assert.NotEmpty(t, resp.Error().(*server.ErrorBody).Error.RequestID)
	}
}

func TestProducts_RequireAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Products.RequireAuth = true
	client := startAPI(t, cfg)

	resp, err := client.R().SetError(&server.ErrorBody{}).Get("/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	token := registerUser(t, client, "ada@example.com")

	var created product.Product
	resp, err = client.R().
		SetAuthToken(token.Token).
		SetBody(map[string]any{"name": "Widget", "price": 1}).
		SetResult(&created).
		Post("/products")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, token.User.ID, *created.CreatedBy)

	resp, err = client.R().SetAuthToken(token.Token).Get("/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestRouteTable_ToggleKeepsShape(t *testing.T) {
	shape := func(routes []server.Route) []string {
		out := make([]string, 0, len(routes))
		for _, r := range routes {
			out = append(out, r.Name+" "+r.Method+" "+r.Path)
		}
		sort.Strings(out)
		return out
	}
	guarded := func(routes []server.Route, name string) bool {
		for _, r := range routes {
			if r.Name == name {
				return len(r.Middleware) > 0
			}
		}
		t.Fatalf("route %s not found", name)
		return false
	}

	publicCfg := testConfig(t)
	privateCfg := testConfig(t)
	privateCfg.Products.RequireAuth = true

	public := buildRoutes(t, publicCfg)
	private := buildRoutes(t, privateCfg)

	assert.Equal(t, shape(public), shape(private))
	for _, name := range []string{"products.index", "products.store", "products.show", "products.update", "products.patch", "products.destroy"} {
		assert.False(t, guarded(public, name), name)
		assert.True(t, guarded(private, name), name)
	}
	assert.True(t, guarded(public, "auth.user"))
	assert.True(t, guarded(public, "auth.logout"))
}

func TestRateLimit_Login(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Requests = 2
	client := startAPI(t, cfg)

	body := map[string]string{"email": "nobody@example.com", "password": "whatever1"}
	for i := 0; i < 2; i++ {
		resp, err := client.R().SetBody(body).Post("/login")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	}

	resp, err := client.R().SetBody(body).SetError(&server.ErrorBody{}).Post("/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())
	assert.Equal(t, "rate_limited", errorCode(t, resp))
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))
}

func TestHealthAndMetrics(t *testing.T) {
	client := startAPI(t, testConfig(t))

	resp, err := client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.String(), `"UP"`)

	resp, err = client.R().Get("/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.String(), "catalog_http_requests_total")
}

func TestNewApp_ValidatesWithExternalBackends(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = config.DriverPostgres
	cfg.Session.Store = config.DriverRedis
	cfg.RateLimit.Storage = config.DriverRedis
	cfg.Idempotency.Storage = config.DriverRedis
	cfg.Session.PurgeSchedule = "@every 5m"

	assert.NoError(t, fx.ValidateApp(NewApp(cfg), fx.NopLogger))
	assert.NoError(t, fx.ValidateApp(NewMigrationApp(cfg), fx.NopLogger))
}

func TestNewApp_WithoutOptionalComponents(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = false
	cfg.Idempotency.Enabled = false
	cfg.Metrics.Enabled = false

	routes := buildRoutes(t, cfg)
	for _, r := range routes {
		assert.NotEqual(t, "metrics", r.Name)
		if r.Name == "auth.login" {
			assert.Empty(t, r.Middleware)
		}
	}
}
