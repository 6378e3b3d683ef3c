package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confeitech/bakekit/pkg/binder"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	type watchAdRequest struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}

	newRequest := func(body, contentType string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/ads/watch", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req
	}

	t.Run("binds valid body", func(t *testing.T) {
		t.Parallel()

		var req watchAdRequest
		err := binder.JSON()(newRequest(`{"category":"reports","count":2}`, "application/json"), &req)

		require.NoError(t, err)
		assert.Equal(t, "reports", req.Category)
		assert.Equal(t, 2, req.Count)
	})

	t.Run("accepts charset parameter", func(t *testing.T) {
		t.Parallel()

		var req watchAdRequest
		err := binder.JSON()(newRequest(`{"category":"sales"}`, "application/json; charset=utf-8"), &req)

		require.NoError(t, err)
		assert.Equal(t, "sales", req.Category)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		var req watchAdRequest
		err := binder.JSON()(newRequest(`{"category":"reports","plan":"basic"}`, "application/json"), &req)

		require.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		t.Parallel()

		var req watchAdRequest
		err := binder.JSON()(newRequest(`{"category":"reports"}{"category":"sales"}`, "application/json"), &req)

		require.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("rejects wrong media type", func(t *testing.T) {
		t.Parallel()

		var req watchAdRequest
		err := binder.JSON()(newRequest(`{"category":"reports"}`, "text/plain"), &req)

		require.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("rejects missing content type", func(t *testing.T) {
		t.Parallel()

		var req watchAdRequest
		err := binder.JSON()(newRequest(`{"category":"reports"}`, ""), &req)

		require.ErrorIs(t, err, binder.ErrMissingContentType)
	})

	t.Run("not applicable on GET", func(t *testing.T) {
		t.Parallel()

		var req watchAdRequest
		err := binder.JSON()(httptest.NewRequest(http.MethodGet, "/ads/watch", nil), &req)

		require.ErrorIs(t, err, binder.ErrBinderNotApplicable)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type listRequest struct {
		Resource string   `query:"resource"`
		Limit    int      `query:"limit"`
		Tags     []string `query:"tags"`
		All      bool     `query:"all"`
		Internal string   `query:"-"`
	}

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/records?resource=recipes&limit=20&tags=a,b&all=yes&internal=x", nil)

		var out listRequest
		require.NoError(t, binder.Query()(req, &out))
		assert.Equal(t, "recipes", out.Resource)
		assert.Equal(t, 20, out.Limit)
		assert.Equal(t, []string{"a", "b"}, out.Tags)
		assert.True(t, out.All)
		assert.Empty(t, out.Internal)
	})

	t.Run("missing parameters keep zero values", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/records", nil)

		var out listRequest
		require.NoError(t, binder.Query()(req, &out))
		assert.Empty(t, out.Resource)
		assert.Zero(t, out.Limit)
	})

	t.Run("invalid numeric value fails", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/records?limit=twenty", nil)

		var out listRequest
		err := binder.Query()(req, &out)
		require.ErrorIs(t, err, binder.ErrFailedToParseQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	type recordRequest struct {
		Resource string `path:"resource"`
		ID       string `path:"id"`
		Page     uint   `path:"page"`
	}

	t.Run("binds via extractor", func(t *testing.T) {
		t.Parallel()

		params := map[string]string{"resource": "recipes", "id": "abc", "page": "3"}
		extract := func(r *http.Request, name string) string { return params[name] }

		var out recordRequest
		err := binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/x", nil), &out)

		require.NoError(t, err)
		assert.Equal(t, "recipes", out.Resource)
		assert.Equal(t, "abc", out.ID)
		assert.Equal(t, uint(3), out.Page)
	})

	t.Run("empty extractor result keeps existing value", func(t *testing.T) {
		t.Parallel()

		extract := func(r *http.Request, name string) string { return "" }

		out := recordRequest{Resource: "original"}
		err := binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/x", nil), &out)

		require.NoError(t, err)
		assert.Equal(t, "original", out.Resource)
	})

	t.Run("nil extractor is a no-op", func(t *testing.T) {
		t.Parallel()

		var out recordRequest
		require.NoError(t, binder.Path(nil)(httptest.NewRequest(http.MethodGet, "/x", nil), &out))
		assert.Empty(t, out.Resource)
	})
}
