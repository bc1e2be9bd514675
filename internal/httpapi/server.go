package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

const defaultRequestTimeout = 30 * time.Second

// Server объединяет обработчики HTTP API поверх сервисов домена.
type Server struct {
	auth     Authenticator
	accounts *auth.Service
	catalog  *catalog.Service
	cart     *cart.Service
	checkout *checkout.Engine
	logger   *log.Entry
	metrics  *metrics.HTTPMetrics
	timeout  time.Duration
}

// Option настраивает Server.
type Option func(*Server)

// WithLogger задаёт logger для HTTP-слоя.
func WithLogger(logger *log.Entry) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRequestTimeout задаёт таймаут обработки запроса.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewServer создаёт HTTP-слой поверх сервисов.
func NewServer(
	accounts *auth.Service,
	catalogSvc *catalog.Service,
	cartSvc *cart.Service,
	checkoutEngine *checkout.Engine,
	options ...Option,
) *Server {
	s := &Server{
		auth:     accounts,
		accounts: accounts,
		catalog:  catalogSvc,
		cart:     cartSvc,
		checkout: checkoutEngine,
		logger:   log.WithField("component", "httpapi"),
		metrics:  metrics.NewHTTPMetrics(),
		timeout:  defaultRequestTimeout,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Router собирает маршруты API со всеми middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(httpMetrics(s.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.timeout))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Get("/categories", s.handleListCategories)
		r.Get("/categories/{id}", s.handleGetCategory)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/auth/profile", s.handleProfile)
			r.Put("/auth/profile", s.handleUpdateProfile)

			r.Get("/cart", s.handleGetCart)
			r.Post("/cart/items", s.handleAddCartItem)
			r.Put("/cart/items/{productId}", s.handleUpdateCartItem)
			r.Delete("/cart/items/{productId}", s.handleRemoveCartItem)
			r.Delete("/cart", s.handleClearCart)

			r.Post("/orders", s.handlePlaceOrder)
			r.Get("/orders", s.handleListOrders)
			r.Get("/orders/{id}", s.handleGetOrder)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Post("/products", s.handleCreateProduct)
				r.Put("/products/{id}", s.handleUpdateProduct)
				r.Delete("/products/{id}", s.handleDeleteProduct)

				r.Post("/categories", s.handleCreateCategory)
				r.Put("/categories/{id}", s.handleUpdateCategory)
				r.Delete("/categories/{id}", s.handleDeleteCategory)

				r.Patch("/orders/{id}/status", s.handleUpdateOrderStatus)
			})
		})
	})

	return r
}
