package entitlements

import (
	"errors"
	"net/http"

	"github.com/confeitech/bakekit/handler"
	"github.com/confeitech/bakekit/pkg/adbonus"
	"github.com/confeitech/bakekit/pkg/entitlement"
	"github.com/confeitech/bakekit/svc/gate"
)

// API errors with stable codes the clients key their UI off.
var (
	errQuotaExceeded   = handler.NewHTTPError(http.StatusForbidden, "quota_exceeded")
	errRecordNotFound  = handler.NewHTTPError(http.StatusNotFound, "record_not_found")
	errMissingTenant   = handler.NewHTTPError(http.StatusUnauthorized, "missing_tenant")
	errInvalidResource = handler.NewHTTPError(http.StatusBadRequest, "invalid_resource")
)

// apiError translates domain errors into the response envelope. Unmapped
// errors render as 500 so callers never mistake an outage for a denial.
func apiError(err error) handler.Response {
	switch {
	case errors.Is(err, gate.ErrRecordNotFound):
		return handler.JSONError(errRecordNotFound)
	case gate.IsEntitlementDenied(err):
		return handler.JSONError(errQuotaExceeded)
	case errors.Is(err, gate.ErrInvalidTier):
		return handler.JSONError(handler.ValidationError{"plan": {"unknown or non-upgradable plan"}})
	case errors.Is(err, adbonus.ErrUnknownCategory):
		return handler.JSONError(handler.ValidationError{"category": {"unknown category"}})
	case errors.Is(err, gate.ErrInvalidResource), errors.Is(err, entitlement.ErrInvalidResource):
		return handler.JSONError(errInvalidResource)
	default:
		return handler.JSONError(err)
	}
}
