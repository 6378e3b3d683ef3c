package entitlements

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the entitlements
// module. Each service is optional and only mounted if provided.
type RouterOptions struct {
	Entitlements Mountable
	Jobs         Mountable
}

// Router creates the entitlements module router.
//
// Example:
//
//	svc := entitlements.NewService(gateSvc, errorHandler)
//	jobs := entitlements.NewJobsService(gateSvc, errorHandler)
//
//	r := chi.NewRouter()
//	r.Mount("/entitlements", entitlements.Router(entitlements.RouterOptions{
//	    Entitlements: svc,
//	    Jobs:         jobs,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Entitlements != nil {
		r.Mount("/", opts.Entitlements.Handle())
	}
	if opts.Jobs != nil {
		r.Mount("/jobs", opts.Jobs.Handle())
	}

	return r
}
