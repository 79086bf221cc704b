package catalog

import (
	"net/http"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/health"
	"myapi/internal/pkg/rate"
	"myapi/internal/pkg/server"
	"myapi/internal/service/auth"
	"myapi/internal/service/product"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouteDeps are the handlers and middleware the route table is built from
type RouteDeps struct {
	fx.In

	Config   *config.Config
	Auth     *auth.AuthHandler
	Guard    *auth.Guard
	Products *product.ProductHandler
	Health   *health.Service
	Metrics  *server.Metrics
	// Limiter is absent when rate limiting is disabled
	Limiter rate.Limiter `optional:"true"`
}

// BuildRoutes returns the full route table in registration order
func BuildRoutes(d RouteDeps) []server.Route {
	requireAuth := []echo.MiddlewareFunc{server.GuardMiddleware(d.Guard)}

	var productMW []echo.MiddlewareFunc
	if d.Config.Products.RequireAuth {
		productMW = requireAuth
	}

	routes := []server.Route{
		{Name: "auth.user", Method: http.MethodGet, Path: "/user", Middleware: requireAuth, Handler: d.Auth.Me},
		{Name: "auth.register", Method: http.MethodPost, Path: "/register", Middleware: throttle(d.Limiter, "register"), Handler: d.Auth.Register},
		{Name: "auth.login", Method: http.MethodPost, Path: "/login", Middleware: throttle(d.Limiter, "login"), Handler: d.Auth.Login},
		{Name: "auth.logout", Method: http.MethodPost, Path: "/logout", Middleware: requireAuth, Handler: d.Auth.Logout},

		{Name: "products.index", Method: http.MethodGet, Path: "/products", Middleware: productMW, Handler: d.Products.List},
		{Name: "products.store", Method: http.MethodPost, Path: "/products", Middleware: productMW, Handler: d.Products.Create},
		{Name: "products.show", Method: http.MethodGet, Path: "/products/:id", Middleware: productMW, Handler: d.Products.Get},
		{Name: "products.update", Method: http.MethodPut, Path: "/products/:id", Middleware: productMW, Handler: d.Products.Update},
		{Name: "products.patch", Method: http.MethodPatch, Path: "/products/:id", Middleware: productMW, Handler: d.Products.Update},
		{Name: "products.destroy", Method: http.MethodDelete, Path: "/products/:id", Middleware: productMW, Handler: d.Products.Delete},

		{Name: "health", Method: http.MethodGet, Path: "/health", Handler: health.Handler(d.Health)},
	}

	if d.Config.Metrics.Enabled {
		routes = append(routes, server.Route{
			Name:    "metrics",
			Method:  http.MethodGet,
			Path:    d.Config.Metrics.Path,
			Handler: d.Metrics.Handler(),
		})
	}

	return routes
}

// throttle limits credential endpoints per client IP
func throttle(limiter rate.Limiter, scope string) []echo.MiddlewareFunc {
	if limiter == nil {
		return nil
	}
	return []echo.MiddlewareFunc{rate.Middleware(limiter, rate.IPKeyFunc(scope))}
}
