package adapthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"storefront/internal/app"
)

// Deps are the collaborators a Server routes requests to. Metrics,
// LoginLimiter and OIDC are optional.
type Deps struct {
	Auth   *app.AuthService
	Users  *app.UserService
	Items  *app.ItemService
	Carts  *app.CartService
	Orders *app.OrderService

	Log            *zap.Logger
	Metrics        *Metrics
	LoginLimiter   RateLimiter
	OIDC           *OIDCConfig
	RequestTimeout time.Duration
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	authSvc *app.AuthService
	users   *app.UserService
	items   *app.ItemService
	carts   *app.CartService
	orders  *app.OrderService
	log     *zap.Logger
	metrics *Metrics
	limiter RateLimiter
	oidc    *OIDCConfig
	timeout time.Duration
}

// New creates a Server wired to the given application services.
func New(d Deps) *Server {
	s := &Server{
		authSvc: d.Auth,
		users:   d.Users,
		items:   d.Items,
		carts:   d.Carts,
		orders:  d.Orders,
		log:     d.Log,
		metrics: d.Metrics,
		limiter: d.LoginLimiter,
		oidc:    d.OIDC,
		timeout: d.RequestTimeout,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.oidc == nil {
		s.oidc = &OIDCConfig{}
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.metrics.middleware)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(withNoCache)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.With(s.loginRateLimit).Post("/login", s.handleLogin)
	r.Post("/api/user/create", s.handleCreateUser)

	r.Get("/auth/config", s.handleConfig)
	r.Get("/auth/sso/login", s.handleSSOLogin)
	r.Get("/auth/sso/callback", s.handleSSOCallback)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/api/user/{username}", s.handleUserByName)
		r.Get("/api/user/id/{id}", s.handleUserByID)

		r.Get("/api/item", s.handleItems)
		r.Get("/api/item/{id}", s.handleItemByID)
		r.Get("/api/item/name/{name}", s.handleItemsByName)

		r.Get("/api/cart", s.handleCart)
		r.Post("/api/cart/addToCart", s.handleAddToCart)
		r.Post("/api/cart/removeFromCart", s.handleRemoveFromCart)

		r.Post("/api/order/submit/{username}", s.handleSubmitOrder)
		r.Get("/api/order/history/{username}", s.handleOrderHistory)
	})

	return otelhttp.NewHandler(r, "storefront")
}
