package entitlements_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confeitech/bakekit/modules/entitlements"
	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/pkg/subscription"
	"github.com/confeitech/bakekit/svc/gate"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T) (*httptest.Server, *gate.MemoryStore) {
	t.Helper()

	store := gate.NewMemoryStore()
	gateSvc := gate.NewService(
		plan.NewCatalog(),
		store.Subscriptions(),
		store.Ledgers(),
		store,
		gate.WithClock(func() time.Time { return testNow }),
	)
	t.Cleanup(gateSvc.Close)

	router := entitlements.Router(entitlements.RouterOptions{
		Entitlements: entitlements.NewService(gateSvc, nil),
		Jobs:         entitlements.NewJobsService(gateSvc, nil),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, store
}

func doRequest(t *testing.T, srv *httptest.Server, method, path string, tenantID uuid.UUID, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if tenantID != uuid.Nil {
		req.Header.Set(entitlements.TenantHeader, tenantID.String())
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, raw
}

func TestTenantHeaderRequired(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	resp, _ := doRequest(t, srv, http.MethodGet, "/tier", uuid.Nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTierEndpoint(t *testing.T) {
	t.Parallel()

	srv, store := newServer(t)
	tenantID := uuid.New()

	resp, raw := doRequest(t, srv, http.MethodGet, "/tier", tenantID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"tier":"free"`)

	expiry := testNow.Add(time.Hour)
	require.NoError(t, store.Subscriptions().Save(t.Context(), &subscription.Record{
		TenantID:  tenantID,
		Plan:      plan.TierPremium,
		ExpiresAt: &expiry,
		Status:    subscription.StatusActive,
	}))

	resp, raw = doRequest(t, srv, http.MethodGet, "/tier", tenantID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"tier":"premium"`)
}

func TestAllowanceEndpoint(t *testing.T) {
	t.Parallel()

	srv, store := newServer(t)
	tenantID := uuid.New()

	resp, raw := doRequest(t, srv, http.MethodGet, "/resources/recipes/allowance", tenantID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"can_create":true`)

	store.AddRecord(tenantID, plan.ResourceRecipes, gate.Record{CreatedAt: testNow.Add(-time.Hour)})

	resp, raw = doRequest(t, srv, http.MethodGet, "/resources/recipes/allowance", tenantID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"can_create":false`)
	assert.Contains(t, string(raw), `"reason":"quota_exceeded"`)

	resp, _ = doRequest(t, srv, http.MethodGet, "/resources/cupcakes/allowance", tenantID, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPartitionAndAuthorizeEndpoints(t *testing.T) {
	t.Parallel()

	srv, store := newServer(t)
	tenantID := uuid.New()

	var ids []uuid.UUID
	for i := range 3 {
		rec := store.AddRecord(tenantID, plan.ResourceRecipes, gate.Record{
			Name:      fmt.Sprintf("recipe-%d", i),
			CreatedAt: testNow.Add(-time.Duration(i+1) * time.Hour),
		})
		ids = append(ids, rec.ID)
	}

	resp, raw := doRequest(t, srv, http.MethodGet, "/resources/recipes/partition", tenantID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data entitlements.PartitionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Len(t, envelope.Data.Allowed, 1)
	assert.Equal(t, ids[0], envelope.Data.Allowed[0].ID)
	require.Len(t, envelope.Data.Blocked, 2)

	// The visible record may be mutated, a blocked one may not.
	resp, _ = doRequest(t, srv, http.MethodPost,
		"/resources/recipes/records/"+ids[0].String()+"/authorize", tenantID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = doRequest(t, srv, http.MethodPost,
		"/resources/recipes/records/"+ids[2].String()+"/authorize", tenantID, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(raw), `"code":"quota_exceeded"`)

	resp, _ = doRequest(t, srv, http.MethodPost,
		"/resources/recipes/records/"+uuid.NewString()+"/authorize", tenantID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, srv, http.MethodPost,
		"/resources/recipes/records/not-a-uuid/authorize", tenantID, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestWatchAdEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	tenantID := uuid.New()

	resp, raw := doRequest(t, srv, http.MethodGet, "/features/reports", tenantID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"enabled":false`)

	resp, _ = doRequest(t, srv, http.MethodPost, "/ads/watch", tenantID, `{"category":"reports"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = doRequest(t, srv, http.MethodGet, "/features/reports", tenantID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"enabled":true`)

	resp, raw = doRequest(t, srv, http.MethodPost, "/ads/watch", tenantID, `{"category":"decorations"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(raw), `"code":"validation_error"`)
}

func TestUpgradeEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	tenantID := uuid.New()

	resp, raw := doRequest(t, srv, http.MethodPost, "/plan/upgrade", tenantID, `{"plan":"basic"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"tier":"basic"`)

	resp, _ = doRequest(t, srv, http.MethodPost, "/plan/upgrade", tenantID, `{"plan":"free"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestJobsResetEndpoint(t *testing.T) {
	t.Parallel()

	srv, store := newServer(t)
	tenantID := uuid.New()

	_, _ = doRequest(t, srv, http.MethodPost, "/ads/watch", tenantID, `{"category":"sales"}`)

	// Jobs routes are not tenant-scoped.
	resp, _ := doRequest(t, srv, http.MethodPost, "/jobs/ad-counters/reset", uuid.Nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	ledger, err := store.Ledgers().GetOrCreate(t.Context(), tenantID)
	require.NoError(t, err)
	assert.Zero(t, ledger.WatchedToday)
	assert.Equal(t, 1, ledger.Sales.AdsWatched)
}
