package middleware

import (
	"net/http"

	"github.com/google/uuid"

	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

const RequestIDHeader = "X-Request-ID"

// RequestID takes the request id from the header or generates one, and puts it into the
// log context and the response.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(wrap.WithRequestID(r.Context(), id)))
	})
}
