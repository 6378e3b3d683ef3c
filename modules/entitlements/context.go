package entitlements

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/handler"
)

// TenantHeader carries the tenant identifier on every API request.
const TenantHeader = "X-Tenant-ID"

type tenantIDKey struct{}

// TenantMiddleware extracts and validates the tenant ID header, storing
// it in the request context. Requests without a valid UUID are rejected
// before reaching any handler.
func TenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(r.Header.Get(TenantHeader))
		if err != nil {
			_ = handler.JSONError(errMissingTenant).Render(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tenantIDKey{}, tenantID)))
	})
}

func tenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantIDKey{}).(uuid.UUID)
	return id, ok
}
