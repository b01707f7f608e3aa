package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/pallet-optimizer/internal/pallet"
	"github.com/eugenenazirov/pallet-optimizer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const maxRequestBytes = 1 << 16

// Handler wires pallet profile storage into HTTP handlers.
type Handler struct {
	storage     storage.Storage
	defaultUnit pallet.Unit
	logger      *zap.Logger

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithDefaultUnit sets the unit assumed when a request omits one.
func WithDefaultUnit(unit pallet.Unit) HandlerOption {
	return func(h *Handler) {
		h.defaultUnit = unit
	}
}

// WithLogger attaches a logger used for rejected calculations.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:     store,
		defaultUnit: pallet.Centimeters,
		logger:      zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListPallets(w http.ResponseWriter, r *http.Request) {
	_ = r
	profiles, err := h.storage.ListProfiles()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := palletsResponse{
		Pallets: make([]palletDimensions, 0, len(profiles)),
		Default: h.storage.DefaultProfile(),
	}
	for _, p := range profiles {
		resp.Pallets = append(resp.Pallets, newPalletDimensions(p.Name, p.Spec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	req, err := decodeOptimizeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if req.Length <= 0 || req.Width <= 0 || req.Height <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "all dimensions must be greater than 0")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "quantity must be greater than 0")
		return
	}

	unit, err := pallet.ParseUnit(req.Unit, h.defaultUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid unit", err.Error())
		return
	}

	profile, err := h.storage.GetProfile(req.Pallet)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "Unknown pallet", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	optimizer, err := pallet.New(profile.Spec)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	box := pallet.Dimensions{Length: req.Length, Width: req.Width, Height: req.Height}
	result, optErr := optimizer.Optimize(box, req.Quantity, unit)
	if optErr != nil {
		kind, ok := pallet.KindOf(optErr)
		if !ok {
			writeInternalError(w, optErr)
			return
		}
		h.logger.Debug("optimization rejected",
			zap.String("kind", kind),
			zap.String("pallet", profile.Name),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(optErr),
		)
		writeOptimizeError(w, kind, optErr, profile.Spec)
		return
	}

	writeJSON(w, http.StatusOK, optimizeResponse{
		Success: true,
		Data:    newOptimizeData(profile.Name, box, unit, result),
	})
}

// decodeOptimizeRequest accepts a JSON body or the url-encoded form posted
// by the HTML calculator.
func decodeOptimizeRequest(r *http.Request) (optimizeRequest, error) {
	var req optimizeRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return req, errors.New("unable to parse form payload")
		}
		return optimizeRequestFromForm(r)
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errors.New("unable to parse JSON payload")
		}
		return req, nil
	}
}

func optimizeRequestFromForm(r *http.Request) (optimizeRequest, error) {
	req := optimizeRequest{
		Unit:   r.PostFormValue("unit"),
		Pallet: r.PostFormValue("pallet"),
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"length", &req.Length},
		{"width", &req.Width},
		{"height", &req.Height},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(r.PostFormValue(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("%s must be a number", f.name)
		}
		*f.dst = v
	}

	if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.New("quantity must be an integer")
		}
		req.Quantity = v
	}
	return req, nil
}

func writeOptimizeError(w http.ResponseWriter, kind string, err error, spec pallet.Spec) {
	resp := errorResponse{
		Success: false,
		Error:   kind,
		Message: err.Error(),
	}
	switch kind {
	case pallet.KindBoxExceedsPallet:
		resp.Suggestion = fmt.Sprintf("Box length must be at most %.2f in and width at most %.2f in; try swapping length and width", spec.Length, spec.Width)
	case pallet.KindNoFit:
		resp.Suggestion = fmt.Sprintf("Box height must be at most %.2f in", spec.MaxHeight)
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	resp := errorResponse{
		Success: false,
		Error:   message,
		Message: details,
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
