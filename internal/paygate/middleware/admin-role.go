package middleware

import (
	"net/http"

	"go-vnpay/pkg/jwtfactory"
	"go-vnpay/pkg/logging"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

// AdminRole lets through only requests whose verified token carries the
// admin role. It must run after jwtauth.Verifier.
type AdminRole struct {
	logger *logging.ZapLogger
}

func NewAdminRole(logger *logging.ZapLogger) *AdminRole {
	return &AdminRole{
		logger: logger,
	}
}

func (ar *AdminRole) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if role, _ := claims[jwtfactory.RoleClaim].(string); role != jwtfactory.RoleAdmin {
			ar.logger.WarnCtx(r.Context(), "token without admin role", zap.Any("sub", claims["sub"]))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
