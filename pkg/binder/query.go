package binder

import "net/http"

// Query creates a binder that populates fields tagged `query:"name"`
// from the URL query string. Untagged exported fields bind by their
// lowercased name; `query:"-"` skips a field. Missing parameters leave
// the field's zero value untouched.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
