package entitlements

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/confeitech/bakekit/handler"
	"github.com/confeitech/bakekit/svc/gate"
)

// JobsService exposes the scheduled maintenance entry points. These are
// not tenant-scoped: the deployment's scheduler calls them, typically on
// an internal listener or behind an auth proxy.
type JobsService struct {
	gate         *gate.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewJobsService creates the jobs HTTP service.
func NewJobsService(gateSvc *gate.Service, errorHandler handler.ErrorHandler[handler.Context]) *JobsService {
	if gateSvc == nil {
		panic("entitlements: gate service is required")
	}
	return &JobsService{gate: gateSvc, errorHandler: errorHandler}
}

// Handle builds the jobs router.
func (s *JobsService) Handle() http.Handler {
	r := chi.NewRouter()

	// Once per day at midnight UTC: zero the watched-today counters.
	r.Post("/ad-counters/reset", handler.Wrap(s.resetAdCounters,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	return r
}

func (s *JobsService) resetAdCounters(ctx handler.Context, _ struct{}) handler.Response {
	if err := s.gate.ResetDailyAdCounts(ctx); err != nil {
		return handler.JSONError(err)
	}
	return handler.Empty()
}
