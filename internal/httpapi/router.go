package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rustyeddy/lotsize/internal/logging"
	"github.com/rustyeddy/lotsize/internal/service"
	"github.com/rustyeddy/lotsize/pricing"
	"github.com/rustyeddy/lotsize/risk"
)

const maxBody = 1 << 16

type ErrorResponse struct {
	Error string `json:"error"`
}

type safeRequest struct {
	Instrument  string  `json:"instrument"`
	Balance     float64 `json:"balance"`
	RiskPercent float64 `json:"risk_percent"`
	MaxLoss     float64 `json:"max_loss"`
}

type handler struct {
	svc *service.Service
}

// NewRouter exposes the sizer over JSON. Requests share nothing but the
// read-only instrument table.
func NewRouter(svc *service.Service) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(logging.Middleware(svc.Log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/v1", func(r chi.Router) {
		r.Get("/instruments", h.instruments)
		r.Get("/instruments/{symbol}", h.instrument)
		r.Post("/setup", h.setup)
		r.Post("/safe", h.safe)
	})
	return r
}

func (h *handler) instruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Catalog.Instruments())
}

func (h *handler) instrument(w http.ResponseWriter, r *http.Request) {
	in, err := h.svc.Catalog.Lookup(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *handler) setup(w http.ResponseWriter, r *http.Request) {
	var p risk.Params
	if !decode(w, r, &p) {
		return
	}
	e, err := h.svc.Compute(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *handler) safe(w http.ResponseWriter, r *http.Request) {
	var req safeRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Safe(req.Instrument, req.Balance, req.RiskPercent, req.MaxLoss)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps sizing errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, risk.ErrUnknownInstrument):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrPriceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, risk.ErrDivisionByZero), errors.Is(err, risk.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
