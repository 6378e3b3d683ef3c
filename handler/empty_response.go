package handler

import "net/http"

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates a bodyless 204 response for operations that succeed
// without returning data.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus creates a bodyless response with a custom status code.
func EmptyWithStatus(status int) Response {
	return emptyResponse{status: status}
}
