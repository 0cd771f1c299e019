package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	contextKeyAdminID contextKey = "admin_id"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAdmin admits requests carrying a valid access token whose role
// claim is ADMIN and stores the subject as the acting admin id.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := s.accessToken(r)
		if !ok {
			s.writeUnauthorized(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := s.verifyAccessToken(raw)
		if err != nil {
			s.logger.WithError(err).Debug("rejected access token")
			s.writeUnauthorized(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		if !claims.isAdmin() {
			s.logger.WithField("user_id", claims.userID).Warn("non-admin access to admin api")
			s.writeUnauthorized(w, http.StatusForbidden, "admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyAdminID, claims.userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKeyAdminID).(int64)
	return id, ok
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
