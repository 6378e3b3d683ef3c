package binder

import "net/http"

// PathExtractor returns the raw value of one path parameter for a
// request. Routers plug in their own lookup, e.g. chi.URLParam.
type PathExtractor func(r *http.Request, name string) string

// Path creates a binder that populates fields tagged `path:"name"`
// using the extractor. Empty extractor results leave the field's
// current value in place. A nil extractor makes the binder a no-op.
func Path(extract PathExtractor) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extract == nil {
			return nil
		}

		values := make(map[string][]string)
		collect := func(name string) {
			if name == "" || name == "-" {
				return
			}
			if v := extract(r, name); v != "" {
				values[name] = []string{v}
			}
		}

		forEachTaggedField(v, "path", collect)
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
