package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

var errInvalidAuthHeader = errors.New("invalid Authorization header format")

// Auth validates the bearer token and puts the actor into the context. Requests without
// credentials continue anonymously; endpoints that need an actor reject them later.
// GET requests may pass the token as ?token= since EventSource cannot set headers.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := tokenFrom(r)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := h.auth.Authenticate(ctx, token)
		if err != nil || actor == nil {
			h.log.Warn(wrap.WithAction(ctx, "authenticate"), "failed to authenticate request", "error", errString(err))
			errorResponse(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx = wrap.WithUserID(models.WithActor(ctx, actor), actor.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests with 401.
func (h *Middleware) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if models.ActorFromContext(r.Context()) == nil {
			errorResponse(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFrom(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		return extractBearerToken(header)
	}
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("token"), nil
	}
	return "", nil
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errInvalidAuthHeader
	}
	return parts[1], nil
}

func errString(err error) string {
	if err == nil {
		return "no actor"
	}
	return err.Error()
}
