package server

import (
	"net/http"
	"time"

	"github.com/nanum-dev/nanum/internal/logging"
	"github.com/nanum-dev/nanum/internal/recovery"
)

// statusRecorder captures the status code written by a downstream handler so
// the access log can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMiddleware wraps next with a Server response header and structured
// access logging.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "nanum-relay")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		func() {
			defer recovery.RecoverWithCallback(s.logger, r.URL.Path, func(recovered any) {
				rec.status = http.StatusInternalServerError
				http.Error(rec, "internal error", http.StatusInternalServerError)
			})
			next.ServeHTTP(rec, r)
		}()

		elapsed := time.Since(start)
		s.metrics.RecordRequest(r.URL.Path, rec.status, elapsed.Seconds())
		s.logger.Info("request",
			logging.KeyMethod, r.Method,
			logging.KeyPath, r.URL.Path,
			logging.KeyStatus, rec.status,
			logging.KeyDuration, elapsed.String(),
			logging.KeyRemoteAddr, r.RemoteAddr,
		)
	})
}
