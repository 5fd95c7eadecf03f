package middleware

import (
	"context"
	"net/http"
	"strings"

	"credit-engine/internal/service"
)

type contextKey string

const (
	AdminIDKey     contextKey = "adminId"
	EmployerIDKey  contextKey = "employerId"
	ScreeningIDKey contextKey = "screeningId"
	EmployeeIDKey  contextKey = "employeeId"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireAdmin validates an employer admin JWT from the Authorization header
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateAdminToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, AdminIDKey, claims.AdminID)
		ctx = context.WithValue(ctx, EmployerIDKey, claims.EmployerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireScreening validates an applicant JWT from the Authorization header
// or the token query param
func (m *AuthMiddleware) RequireScreening(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			// Try query param for WebSocket
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateScreeningToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ScreeningIDKey, claims.ScreeningID)
		ctx = context.WithValue(ctx, EmployeeIDKey, claims.EmployeeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminID extracts the admin ID from context
func GetAdminID(ctx context.Context) string {
	if v := ctx.Value(AdminIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetEmployerID extracts the employer ID from context
func GetEmployerID(ctx context.Context) string {
	if v := ctx.Value(EmployerIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetScreeningID extracts the screening ID from context
func GetScreeningID(ctx context.Context) string {
	if v := ctx.Value(ScreeningIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
