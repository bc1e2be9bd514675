package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Authenticator проверяет bearer-токен и возвращает удостоверенную личность.
type Authenticator interface {
	Authenticate(token string) (domain.Identity, error)
}

type contextKey struct{ name string }

var identityKey = &contextKey{"identity"}

// IdentityFromContext извлекает личность, помещённую auth middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// authenticate проверяет заголовок Authorization и кладёт Identity в контекст.
// Обработчики дальше по цепочке токен не перепроверяют.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		identity, err := s.auth.Authenticate(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin пропускает только административные учётные записи.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger пишет структурированную строку на каждый завершённый запрос.
func requestLogger(logger *log.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.WithFields(log.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(started).String(),
				"request_id": chimiddleware.GetReqID(r.Context()),
				"remote":     r.RemoteAddr,
			}).Info("http request")
		})
	}
}

// httpMetrics наблюдает запросы по шаблону маршрута chi, а не по сырому пути,
// чтобы кардинальность метрик оставалась ограниченной.
func httpMetrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, ww.Status(), time.Since(started))
		})
	}
}
