// Package handler provides type-safe HTTP request handling for the JSON
// API: generic handlers with typed request structs, stackable request
// binders, structured JSON responses and a shared error handler.
//
// A handler is a function from (Context, Request) to Response:
//
//	watchAd := func(ctx handler.Context, req WatchAdRequest) handler.Response {
//		if err := svc.WatchAd(ctx, req.TenantID, req.Category); err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.Empty()
//	}
//
//	r.Post("/ads/watch", handler.Wrap(watchAd,
//		handler.WithBinders[handler.Context, WatchAdRequest](binder.JSON()),
//	))
package handler
