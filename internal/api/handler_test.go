package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/pallet-optimizer/internal/pallet"
	"github.com/eugenenazirov/pallet-optimizer/internal/storage"
)

var fixedNow = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	err := store.SetProfiles([]storage.Profile{
		{Name: "euro", Spec: pallet.Spec{Length: 47.24, Width: 31.5, MaxHeight: 70}},
	}, "")
	if err != nil {
		t.Fatalf("SetProfiles returned error: %v", err)
	}

	logger := zaptest.NewLogger(t)
	handler := NewHandler(store,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger),
	)
	return NewRouter(handler, logger, WithLogging(false))
}

func postJSON(t *testing.T, router http.Handler, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/optimize", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type optimizeBody struct {
	Success bool `json:"success"`
	Data    struct {
		BoxDimensions struct {
			Length float64 `json:"length"`
			Unit   string  `json:"unit"`
			Input  struct {
				Length float64 `json:"length"`
				Unit   string  `json:"unit"`
			} `json:"input"`
		} `json:"box_dimensions"`
		PalletDimensions struct {
			Name      string  `json:"name"`
			Length    float64 `json:"length"`
			Width     float64 `json:"width"`
			MaxHeight float64 `json:"max_height"`
		} `json:"pallet_dimensions"`
		Optimization struct {
			BoxesPerLayer   int     `json:"boxes_per_layer"`
			LayersPerPallet int     `json:"layers_per_pallet"`
			BoxesPerPallet  int     `json:"boxes_per_pallet"`
			TotalPallets    int     `json:"total_pallets"`
			RemainingBoxes  int     `json:"remaining_boxes"`
			ActualHeight    float64 `json:"actual_height"`
			Orientation     struct {
				Length  float64 `json:"length"`
				Width   float64 `json:"width"`
				Rotated bool    `json:"rotated"`
			} `json:"orientation"`
		} `json:"optimization"`
	} `json:"data"`
}

type errorBody struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var body T
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decode[struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}](t, rec)

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(fixedNow) {
		t.Fatalf("expected timestamp %s, got %s", fixedNow, body.Timestamp)
	}
}

func TestListPallets(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pallets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decode[struct {
		Pallets []struct {
			Name      string  `json:"name"`
			Length    float64 `json:"length"`
			Width     float64 `json:"width"`
			MaxHeight float64 `json:"max_height"`
		} `json:"pallets"`
		Default string `json:"default"`
	}](t, rec)

	if body.Default != storage.StandardProfile {
		t.Fatalf("expected default %s, got %s", storage.StandardProfile, body.Default)
	}
	if len(body.Pallets) != 2 {
		t.Fatalf("expected 2 pallets, got %d", len(body.Pallets))
	}
	std := body.Pallets[1]
	if std.Name != storage.StandardProfile || std.Length != 48 || std.Width != 40 || std.MaxHeight != 90 {
		t.Fatalf("unexpected standard pallet: %+v", std)
	}
}

func TestOptimizeEndpointSuccess(t *testing.T) {
	router := setupTestRouter(t)

	rec := postJSON(t, router, map[string]any{
		"length":   30,
		"width":    30,
		"height":   20,
		"quantity": 100,
		"unit":     "cm",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode[optimizeBody](t, rec)
	if !body.Success {
		t.Fatalf("expected success")
	}
	opt := body.Data.Optimization
	if opt.BoxesPerLayer != 12 || opt.LayersPerPallet != 11 || opt.BoxesPerPallet != 132 {
		t.Fatalf("unexpected load: %+v", opt)
	}
	if opt.TotalPallets != 1 || opt.RemainingBoxes != 100 {
		t.Fatalf("unexpected pallet counts: %+v", opt)
	}
	if opt.Orientation.Rotated {
		t.Fatalf("expected unrotated orientation for square box")
	}
	if body.Data.BoxDimensions.Unit != "inches" || body.Data.BoxDimensions.Input.Unit != "cm" {
		t.Fatalf("unexpected units: %+v", body.Data.BoxDimensions)
	}
	if body.Data.BoxDimensions.Input.Length != 30 {
		t.Fatalf("expected input length to be echoed, got %f", body.Data.BoxDimensions.Input.Length)
	}
	if body.Data.PalletDimensions.Name != storage.StandardProfile || body.Data.PalletDimensions.MaxHeight != 90 {
		t.Fatalf("unexpected pallet: %+v", body.Data.PalletDimensions)
	}
}

func TestOptimizeEndpointLargestQuantity(t *testing.T) {
	router := setupTestRouter(t)

	rec := postJSON(t, router, map[string]any{
		"length":   12,
		"width":    10,
		"height":   10,
		"quantity": math.MaxInt,
		"unit":     "in",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	opt := decode[optimizeBody](t, rec).Data.Optimization
	if opt.TotalPallets != math.MaxInt/144+1 {
		t.Fatalf("unexpected pallet count %d", opt.TotalPallets)
	}
	if opt.ActualHeight <= 0 {
		t.Fatalf("expected positive height, got %f", opt.ActualHeight)
	}
}

func TestOptimizeEndpointUsesDefaultUnitAndProfile(t *testing.T) {
	router := setupTestRouter(t)

	rec := postJSON(t, router, map[string]any{
		"length":   12,
		"width":    10,
		"height":   10,
		"quantity": 50,
		"unit":     "in",
		"pallet":   "euro",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode[optimizeBody](t, rec)
	if body.Data.PalletDimensions.Name != "euro" {
		t.Fatalf("expected euro pallet, got %s", body.Data.PalletDimensions.Name)
	}
	if body.Data.Optimization.BoxesPerPallet != 63 {
		t.Fatalf("expected 63 boxes per pallet, got %d", body.Data.Optimization.BoxesPerPallet)
	}
}

func TestOptimizeEndpointAcceptsForm(t *testing.T) {
	router := setupTestRouter(t)

	form := url.Values{
		"action":   {"calculate"},
		"length":   {"50"},
		"width":    {"20"},
		"height":   {"10"},
		"quantity": {"10"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode[optimizeBody](t, rec)
	opt := body.Data.Optimization
	if opt.BoxesPerLayer != 12 || !opt.Orientation.Rotated {
		t.Fatalf("expected rotated 12 per layer, got %+v", opt)
	}
	if body.Data.BoxDimensions.Input.Unit != "cm" {
		t.Fatalf("expected default unit cm, got %s", body.Data.BoxDimensions.Input.Unit)
	}
}

func TestOptimizeEndpointValidation(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name    string
		payload map[string]any
		status  int
	}{
		{
			name:    "ZeroDimensions",
			payload: map[string]any{"length": 0, "width": 0, "height": 0, "quantity": 10},
			status:  http.StatusBadRequest,
		},
		{
			name:    "ZeroQuantity",
			payload: map[string]any{"length": 10, "width": 10, "height": 10, "quantity": 0},
			status:  http.StatusBadRequest,
		},
		{
			name:    "UnknownUnit",
			payload: map[string]any{"length": 10, "width": 10, "height": 10, "quantity": 1, "unit": "ft"},
			status:  http.StatusBadRequest,
		},
		{
			name:    "UnknownPallet",
			payload: map[string]any{"length": 10, "width": 10, "height": 10, "quantity": 1, "pallet": "nope"},
			status:  http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, tc.payload)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			if body := decode[errorBody](t, rec); body.Success || body.Message == "" {
				t.Fatalf("expected failure with message, got %+v", body)
			}
		})
	}
}

func TestOptimizeEndpointRejectsMalformedJSON(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestOptimizeEndpointCoreFailures(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name           string
		payload        map[string]any
		wantKind       string
		wantSuggestion bool
	}{
		{
			name:           "BoxExceedsPallet",
			payload:        map[string]any{"length": 130, "width": 30, "height": 20, "quantity": 10, "unit": "cm"},
			wantKind:       pallet.KindBoxExceedsPallet,
			wantSuggestion: true,
		},
		{
			name:           "TooTall",
			payload:        map[string]any{"length": 30, "width": 30, "height": 250, "quantity": 10, "unit": "cm"},
			wantKind:       pallet.KindNoFit,
			wantSuggestion: true,
		},
		{
			name:     "TooSmallToCount",
			payload:  map[string]any{"length": 10, "width": 10, "height": 1e-20, "quantity": 10, "unit": "in"},
			wantKind: pallet.KindInvalidDimension,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, tc.payload)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected status 422, got %d", rec.Code)
			}
			body := decode[errorBody](t, rec)
			if body.Success {
				t.Fatalf("expected success=false")
			}
			if body.Error != tc.wantKind {
				t.Fatalf("expected kind %s, got %s", tc.wantKind, body.Error)
			}
			if body.Message == "" {
				t.Fatalf("expected message to be populated")
			}
			if tc.wantSuggestion && body.Suggestion == "" {
				t.Fatalf("expected suggestion to be populated")
			}
		})
	}
}

func TestCorsPreflight(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/optimize", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}
}
