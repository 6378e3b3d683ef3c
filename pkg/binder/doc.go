// Package binder parses HTTP requests into typed request structs.
//
// Each binder processes a single source (JSON body, query string, path
// parameters) driven by struct tags, so handlers can stack them:
//
//	type WatchAdRequest struct {
//		Category string `json:"category"`
//	}
//
//	handler.Wrap(svc.watchAd,
//		handler.WithBinders[handler.Context, WatchAdRequest](binder.JSON()),
//	)
//
// A binder that does not apply to the request (for example the JSON
// binder on a bodyless GET) returns ErrBinderNotApplicable so the
// wrapping layer can skip it and move on.
package binder
