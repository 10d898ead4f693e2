package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
	"github.com/MikeSquared-Agency/Pledge/internal/catalog"
	"github.com/MikeSquared-Agency/Pledge/internal/config"
	"github.com/MikeSquared-Agency/Pledge/internal/hermes"
)

type published struct {
	subject string
	msgID   string
	data    interface{}
}

type mockHermes struct {
	mu     sync.Mutex
	events []published
}

func (m *mockHermes) Publish(_ context.Context, subject, msgID string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, published{subject: subject, msgID: msgID, data: data})
	return nil
}
func (m *mockHermes) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (m *mockHermes) Close()                                           {}

// emptyCatalog never has categories loaded.
type emptyCatalog struct{}

func (emptyCatalog) Categories() ([]allocation.Category, error) {
	return nil, allocation.ErrInvalidCatalog
}
func (emptyCatalog) Reload(context.Context) ([]allocation.Category, error) {
	return nil, io.ErrUnexpectedEOF
}

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{AdminToken: "test-token", RequestsPerMinute: 0},
		Allocation: config.AllocationConfig{SliderStep: 5},
	}
}

func setupTestRouter(t *testing.T) (http.Handler, *mockHermes) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := catalog.NewRegistry(catalog.Builtin{}, logger)
	_, err := reg.Reload(context.Background())
	require.NoError(t, err)

	mh := &mockHermes{}
	alloc := allocation.NewAllocator(allocation.DefaultUrgencyWeights(), logger)
	return NewRouter(reg, alloc, mh, testConfig(), logger), mh
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeAllocation(t *testing.T, w *httptest.ResponseRecorder) AllocationResponse {
	t.Helper()
	var resp AllocationResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestListCategories(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := do(t, router, "GET", "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var cats []allocation.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cats))
	assert.Equal(t, catalog.DefaultCategories(), cats)
}

func TestCreateAllocationWeighted(t *testing.T) {
	router, mh := setupTestRouter(t)
	w := do(t, router, "POST", "/api/v1/allocations", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeAllocation(t, w)
	assert.NotEmpty(t, resp.AllocationID)
	assert.Equal(t, allocation.Allocation{"school": 18, "flood": 37, "food": 27, "general": 18}, resp.Allocation)
	assert.Equal(t, "school", resp.Shares[0].CategoryID)
	assert.Equal(t, 87, resp.ImpactScore)
	assert.Nil(t, resp.Split)

	require.Len(t, mh.events, 1)
	assert.Equal(t, hermes.SubjectAllocationCreated(resp.AllocationID), mh.events[0].subject)
	assert.Equal(t, resp.AllocationID, mh.events[0].msgID)
}

func TestCreateAllocationPinnedWithSplit(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := do(t, router, "POST", "/api/v1/allocations", `{"pinned_category_id":"flood","amount_minor":5000}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeAllocation(t, w)
	assert.Equal(t, 100, resp.Allocation["flood"])
	assert.Equal(t, 92, resp.ImpactScore)
	require.Len(t, resp.Split, 4)
	assert.Equal(t, int64(5000), resp.Split[1].AmountMinor)
}

func TestCreateAllocationUnknownPinned(t *testing.T) {
	router, mh := setupTestRouter(t)
	w := do(t, router, "POST", "/api/v1/allocations", `{"pinned_category_id":"housing"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_category")
	assert.Empty(t, mh.events)
}

func TestCreateAllocationBadBody(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := do(t, router, "POST", "/api/v1/allocations", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRebalance(t *testing.T) {
	router, mh := setupTestRouter(t)
	id := "6f1c1f38-4d59-4a4c-9d5e-2f0c7f7a9b10"
	body := `{"allocation_id":"` + id + `","allocation":{"school":25,"flood":25,"food":25,"general":25},"changed_id":"flood","new_value":41}`

	w := do(t, router, "POST", "/api/v1/allocations/rebalance", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeAllocation(t, w)
	assert.Equal(t, id, resp.AllocationID)
	require.NotNil(t, resp.AppliedValue)
	assert.Equal(t, 40, *resp.AppliedValue, "41 snaps to the 5-point slider")
	assert.Equal(t, allocation.Allocation{"school": 20, "flood": 40, "food": 20, "general": 20}, resp.Allocation)

	require.Len(t, mh.events, 1)
	assert.Equal(t, hermes.SubjectAllocationRebalanced(id), mh.events[0].subject)
	ev, ok := mh.events[0].data.(hermes.AllocationRebalancedEvent)
	require.True(t, ok)
	assert.Equal(t, 41, ev.RequestedValue)
	assert.Equal(t, 40, ev.AppliedValue)
}

func TestRebalanceCustomStepAndClamp(t *testing.T) {
	router, _ := setupTestRouter(t)
	body := `{"allocation":{"school":25,"flood":25,"food":25,"general":25},"changed_id":"food","new_value":140,"step":1}`
	w := do(t, router, "POST", "/api/v1/allocations/rebalance", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeAllocation(t, w)
	assert.Equal(t, 100, resp.Allocation["food"])
	assert.Equal(t, 100, resp.Allocation.Sum())
	assert.NotEmpty(t, resp.AllocationID)
}

func TestRebalanceErrors(t *testing.T) {
	router, _ := setupTestRouter(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing changed id", `{"allocation":{"flood":100}}`, ""},
		{"bad allocation id", `{"allocation_id":"nope","allocation":{"flood":100},"changed_id":"flood","new_value":50}`, ""},
		{"unknown category", `{"allocation":{"flood":100},"changed_id":"housing","new_value":50}`, "unknown_category"},
		{"sum not 100", `{"allocation":{"flood":60},"changed_id":"food","new_value":20}`, "invalid_allocation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, "POST", "/api/v1/allocations/rebalance", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), tt.code)
			}
		})
	}
}

func TestImpact(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "POST", "/api/v1/allocations/impact", `{"allocation":{"school":0,"flood":0}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"impact_score":0}`, w.Body.String())

	w = do(t, router, "POST", "/api/v1/allocations/impact", `{"allocation":{"flood":50,"food":50}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"impact_score":90}`, w.Body.String())

	w = do(t, router, "POST", "/api/v1/allocations/impact", `{"allocation":{"school":200,"flood":-100}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_allocation")
}

func TestSplitLargeAmount(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := do(t, router, "POST", "/api/v1/allocations/split",
		`{"allocation":{"school":60,"flood":40,"food":0,"general":0},"amount_minor":9223372036854775807}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSplit(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := do(t, router, "POST", "/api/v1/allocations/split",
		`{"allocation":{"school":18,"flood":37,"food":27,"general":18},"amount_minor":1001}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AmountMinor int64              `json:"amount_minor"`
		Split       []allocation.Share `json:"split"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Split, 4)
	assert.Equal(t, int64(371), resp.Split[1].AmountMinor)

	w = do(t, router, "POST", "/api/v1/allocations/split", `{"allocation":{"flood":100},"amount_minor":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_amount")
}

func TestCatalogUnavailable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	alloc := allocation.NewAllocator(allocation.DefaultUrgencyWeights(), logger)
	router := NewRouter(emptyCatalog{}, alloc, nil, testConfig(), logger)

	w := do(t, router, "POST", "/api/v1/allocations", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	req := httptest.NewRequest("POST", "/api/v1/admin/catalog/reload", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAdminReloadRequiresToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "POST", "/api/v1/admin/catalog/reload", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("POST", "/api/v1/admin/catalog/reload", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"reloaded","categories":4}`, rec.Body.String())
}

func TestMetricsRouter(t *testing.T) {
	router := NewMetricsRouter()

	w := do(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pledge_catalog_categories")
}
