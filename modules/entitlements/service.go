package entitlements

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/confeitech/bakekit/handler"
	"github.com/confeitech/bakekit/pkg/adbonus"
	"github.com/confeitech/bakekit/pkg/binder"
	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/svc/gate"
)

// Service exposes one gate.Service as an HTTP handler.
type Service struct {
	gate         *gate.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewService creates the entitlements HTTP service. A nil errorHandler
// falls back to the package default.
func NewService(gateSvc *gate.Service, errorHandler handler.ErrorHandler[handler.Context]) *Service {
	if gateSvc == nil {
		panic("entitlements: gate service is required")
	}
	return &Service{
		gate:         gateSvc,
		errorHandler: errorHandler,
	}
}

// Handle builds the module router. All routes require the tenant header.
func (s *Service) Handle() http.Handler {
	pathBinder := binder.Path(func(r *http.Request, name string) string {
		return chi.URLParam(r, name)
	})

	r := chi.NewRouter()
	r.Use(TenantMiddleware)

	r.Get("/tier", handler.Wrap(s.tier,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	r.Get("/features/{feature}", handler.Wrap(s.feature,
		handler.WithBinders[handler.Context, FeatureRequest](pathBinder),
		handler.WithErrorHandler[handler.Context, FeatureRequest](s.errorHandler),
	))

	r.Get("/resources/{resource}/allowance", handler.Wrap(s.allowance,
		handler.WithBinders[handler.Context, ResourceRequest](pathBinder),
		handler.WithErrorHandler[handler.Context, ResourceRequest](s.errorHandler),
	))

	r.Get("/resources/{resource}/partition", handler.Wrap(s.partition,
		handler.WithBinders[handler.Context, ResourceRequest](pathBinder),
		handler.WithErrorHandler[handler.Context, ResourceRequest](s.errorHandler),
	))

	r.Post("/resources/{resource}/records/{id}/authorize", handler.Wrap(s.authorize,
		handler.WithBinders[handler.Context, AuthorizeRequest](pathBinder),
		handler.WithErrorHandler[handler.Context, AuthorizeRequest](s.errorHandler),
	))

	r.Post("/resources/{resource}/changed", handler.Wrap(s.changed,
		handler.WithBinders[handler.Context, ResourceRequest](pathBinder),
		handler.WithErrorHandler[handler.Context, ResourceRequest](s.errorHandler),
	))

	r.Post("/ads/watch", handler.Wrap(s.watchAd,
		handler.WithBinders[handler.Context, WatchAdRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, WatchAdRequest](s.errorHandler),
	))

	r.Post("/plan/upgrade", handler.Wrap(s.upgrade,
		handler.WithBinders[handler.Context, UpgradeRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, UpgradeRequest](s.errorHandler),
	))

	return r
}

// FeatureRequest identifies a feature gate check.
type FeatureRequest struct {
	Feature string `path:"feature"`
}

// ResourceRequest identifies a countable resource type.
type ResourceRequest struct {
	Resource string `path:"resource"`
}

// AuthorizeRequest identifies a single record mutation.
type AuthorizeRequest struct {
	Resource string `path:"resource"`
	RecordID string `path:"id"`
}

// WatchAdRequest records one rewarded ad watch.
type WatchAdRequest struct {
	Category string `json:"category"`
}

// UpgradeRequest moves the tenant to a paid plan.
type UpgradeRequest struct {
	Plan string `json:"plan"`
}

// TierResponse reports the tier currently in force.
type TierResponse struct {
	Tier plan.Tier `json:"tier"`
}

// FeatureResponse reports a single feature gate decision.
type FeatureResponse struct {
	Feature plan.Feature `json:"feature"`
	Enabled bool         `json:"enabled"`
}

// AllowanceResponse reports whether one more record may be created.
type AllowanceResponse struct {
	Resource  plan.Resource `json:"resource"`
	CanCreate bool          `json:"can_create"`
	Reason    string        `json:"reason,omitempty"`
}

// RecordView is the wire form of a partitioned record.
type RecordView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PartitionResponse splits the tenant's records into the visible prefix
// and the read-only remainder, both in display order.
type PartitionResponse struct {
	Allowed []RecordView `json:"allowed"`
	Blocked []RecordView `json:"blocked"`
}

func (s *Service) tier(ctx handler.Context, _ struct{}) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}
	return handler.JSON(TierResponse{Tier: s.gate.EffectiveTier(ctx, tenantID)})
}

func (s *Service) feature(ctx handler.Context, req FeatureRequest) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}

	feature := plan.Feature(req.Feature)
	return handler.JSON(FeatureResponse{
		Feature: feature,
		Enabled: s.gate.CanUseFeature(ctx, tenantID, feature),
	})
}

func (s *Service) allowance(ctx handler.Context, req ResourceRequest) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}

	res := plan.Resource(req.Resource)
	err := s.gate.CanCreateMore(ctx, tenantID, res)
	switch {
	case err == nil:
		return handler.JSON(AllowanceResponse{Resource: res, CanCreate: true})
	case gate.IsEntitlementDenied(err):
		// A full quota is an answer, not an error.
		return handler.JSON(AllowanceResponse{Resource: res, CanCreate: false, Reason: "quota_exceeded"})
	default:
		return apiError(err)
	}
}

func (s *Service) partition(ctx handler.Context, req ResourceRequest) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}

	result, err := s.gate.PartitionView(ctx, tenantID, plan.Resource(req.Resource))
	if err != nil {
		return apiError(err)
	}

	return handler.JSON(PartitionResponse{
		Allowed: toRecordViews(result.Allowed),
		Blocked: toRecordViews(result.Blocked),
	})
}

func (s *Service) authorize(ctx handler.Context, req AuthorizeRequest) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}

	recordID, err := uuid.Parse(req.RecordID)
	if err != nil {
		return handler.JSONError(handler.ValidationError{"id": {"must be a UUID"}})
	}

	if err := s.gate.AuthorizeMutation(ctx, tenantID, plan.Resource(req.Resource), recordID); err != nil {
		return apiError(err)
	}
	return handler.Empty()
}

func (s *Service) changed(ctx handler.Context, req ResourceRequest) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}

	res := plan.Resource(req.Resource)
	if !validResource(res) {
		return handler.JSONError(errInvalidResource)
	}

	s.gate.NotifyChanged(ctx, tenantID, res)
	return handler.Empty()
}

func (s *Service) watchAd(ctx handler.Context, req WatchAdRequest) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}

	if err := s.gate.WatchAd(ctx, tenantID, adbonus.Category(req.Category)); err != nil {
		return apiError(err)
	}
	return handler.Empty()
}

func (s *Service) upgrade(ctx handler.Context, req UpgradeRequest) handler.Response {
	tenantID, ok := tenantIDFromContext(ctx)
	if !ok {
		return handler.JSONError(errMissingTenant)
	}

	target := plan.Tier(req.Plan)
	if err := s.gate.Upgrade(ctx, tenantID, target); err != nil {
		return apiError(err)
	}

	return handler.JSON(TierResponse{Tier: s.gate.EffectiveTier(ctx, tenantID)})
}

func toRecordViews(records []gate.Record) []RecordView {
	views := make([]RecordView, len(records))
	for i, rec := range records {
		views[i] = RecordView{
			ID:         rec.ID,
			Name:       rec.Name,
			CreatedAt:  rec.CreatedAt,
			OccurredAt: rec.OccurredAt,
		}
	}
	return views
}

func validResource(res plan.Resource) bool {
	for _, known := range plan.Resources() {
		if res == known {
			return true
		}
	}
	return false
}
