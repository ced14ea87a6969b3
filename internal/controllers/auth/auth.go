package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/api/idtoken"
)

// Config holds the settings of the API authenticator.
type Config struct {
	// Audience is the expected "aud" claim of incoming Google ID tokens.
	Audience       string
	AllowedEmails  []string
	AllowedDomains []string
}

// ValidateFunc verifies an ID token for the given audience.
type ValidateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Handler authenticates API callers with Google-signed ID tokens.
type Handler struct {
	audience       string
	allowedEmails  map[string]struct{}
	allowedDomains map[string]struct{}
	validate       ValidateFunc
}

// NewHandler creates an authenticator. A nil validate uses idtoken.Validate.
func NewHandler(cfg Config, validate ValidateFunc) *Handler {
	if validate == nil {
		validate = idtoken.Validate
	}

	emailMap := make(map[string]struct{})
	for _, e := range cfg.AllowedEmails {
		if e != "" {
			emailMap[strings.ToLower(e)] = struct{}{}
		}
	}
	domainMap := make(map[string]struct{})
	for _, d := range cfg.AllowedDomains {
		if d != "" {
			domainMap[strings.ToLower(d)] = struct{}{}
		}
	}

	return &Handler{
		audience:       cfg.Audience,
		allowedEmails:  emailMap,
		allowedDomains: domainMap,
		validate:       validate,
	}
}

// Middleware rejects requests without a valid ID token from an allowed account.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			slog.WarnContext(r.Context(), "Authorization header is missing")
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "bearer ID token required")
			return
		}

		// A misconfigured audience must not let every token through.
		if h.audience == "" {
			slog.ErrorContext(r.Context(), "Critical Config Error: API audience is not configured. Rejecting all requests.")
			writeAuthError(w, http.StatusInternalServerError, "internal_error", "authentication is misconfigured")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		payload, err := h.validate(r.Context(), token, h.audience)
		if err != nil {
			slog.WarnContext(r.Context(), "ID token validation failed", "error", err, "audience", h.audience)
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid ID token")
			return
		}

		email := emailClaim(payload)
		if !h.isAuthorized(email) {
			slog.WarnContext(r.Context(), "Access attempt from an account that is not allowed", "email", email, "sub", payload.Subject)
			writeAuthError(w, http.StatusForbidden, "forbidden", "account is not allowed")
			return
		}

		slog.DebugContext(r.Context(), "API caller authenticated", "email", email)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) isAuthorized(email string) bool {
	if email == "" {
		return false
	}
	email = strings.ToLower(email)
	if _, ok := h.allowedEmails[email]; ok {
		return true
	}
	parts := strings.Split(email, "@")
	if len(parts) == 2 {
		if _, ok := h.allowedDomains[parts[1]]; ok {
			return true
		}
	}
	return false
}

// emailClaim returns the verified email of the token, or "".
func emailClaim(p *idtoken.Payload) string {
	if p == nil {
		return ""
	}
	email, _ := p.Claims["email"].(string)
	if verified, ok := p.Claims["email_verified"].(bool); ok && !verified {
		return ""
	}
	return email
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
