package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"QuantTerminal/internal/model"
	"QuantTerminal/internal/notifier"
	"QuantTerminal/internal/scan"
	"QuantTerminal/internal/scheduler"
	"QuantTerminal/internal/store"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store *store.Store
	sched *scheduler.Scheduler
}

// NewHandler creates a new Handler
func NewHandler(st *store.Store, sched *scheduler.Scheduler) *Handler {
	return &Handler{store: st, sched: sched}
}

// GetWatchlist handles GET /watchlist
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.store.ListSymbols()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"symbols": symbols})
}

// AddToWatchlist handles POST /watchlist
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	if err := h.store.AddSymbol(req.Symbol); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"symbol": model.NormalizeSymbol(req.Symbol)})
}

// RemoveFromWatchlist handles DELETE /watchlist/{symbol}
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if err := h.store.RemoveSymbol(symbol); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPositions handles GET /positions
func (h *Handler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.store.CurrentPositions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if positions == nil {
		positions = []*model.Position{}
	}
	respondJSON(w, http.StatusOK, positions)
}

// RecordPosition handles POST /positions
func (h *Handler) RecordPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol     string          `json:"symbol"`
		EntryPrice decimal.Decimal `json:"entry_price"`
		Quantity   decimal.Decimal `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}
	if req.EntryPrice.IsNegative() || req.Quantity.IsNegative() {
		http.Error(w, "entry_price and quantity must not be negative", http.StatusBadRequest)
		return
	}

	p := &model.Position{
		Symbol:     req.Symbol,
		EntryPrice: req.EntryPrice,
		Quantity:   req.Quantity,
	}
	if err := h.store.AppendPosition(p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// GetAggregatePosition handles GET /positions/{symbol}
func (h *Handler) GetAggregatePosition(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	agg, err := h.store.AggregatePosition(symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if agg == nil {
		http.Error(w, "no position for symbol", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, agg)
}

// GetAlerts handles GET /alerts
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	alerts, err := h.store.ListAlerts(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []*model.AlertEvent{}
	}
	respondJSON(w, http.StatusOK, alerts)
}

// TriggerScan handles POST /scan. It runs a full watchlist scan
// synchronously and returns the summary; a notification delivery problem is
// reported in the payload rather than failing the request.
func (h *Handler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	sum, report, err := h.sched.RunScan(r.Context())
	if sum == nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := struct {
		*scan.Summary
		Report        string `json:"report"`
		DispatchError string `json:"dispatch_error,omitempty"`
	}{Summary: sum, Report: report}
	if err != nil {
		resp.DispatchError = err.Error()
		if errors.Is(err, notifier.ErrConfigMissing) {
			resp.DispatchError = "telegram credentials missing; report not delivered"
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetYTD handles GET /ytd
func (h *Handler) GetYTD(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.store.ListSymbols()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	entries, failures := h.sched.Evaluator.YTDReturns(r.Context(), symbols)
	if entries == nil {
		entries = []scan.YTDEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries":  entries,
		"failures": failures,
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
