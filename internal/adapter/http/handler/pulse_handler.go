package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/dto"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// PulseHandler handles pulse recorder HTTP requests.
type PulseHandler struct {
	pulseUC *usecase.PulseUseCase
}

// NewPulseHandler creates a new PulseHandler.
func NewPulseHandler(pulseUC *usecase.PulseUseCase) *PulseHandler {
	return &PulseHandler{pulseUC: pulseUC}
}

// Record appends a transaction from the caller to the receiver.
func (h *PulseHandler) Record(w http.ResponseWriter, r *http.Request) {
	sender, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.pulseUC.RecordTransaction(r.Context(), sender, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get resolves a transaction hash to its full record.
func (h *PulseHandler) Get(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		writeError(w, http.StatusBadRequest, "missing transaction hash", "")
		return
	}

	txn, err := h.pulseUC.GetTransaction(r.Context(), hash)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Recent returns up to ?count=N hashes, most recent first.
func (h *PulseHandler) Recent(w http.ResponseWriter, r *http.Request) {
	count := parseIntQuery(r, "count", 10)

	hashes, err := h.pulseUC.GetRecentTransactions(r.Context(), count)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list recent transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HashListResponse{Hashes: hashes})
}

// Score returns the identity's score aggregate.
func (h *PulseHandler) Score(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing identity", "")
		return
	}

	score, err := h.pulseUC.GetPulseScore(r.Context(), identity)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get score", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PulseScoreFromDomain(score))
}

// UserTransactions lists the hashes the identity participated in.
func (h *PulseHandler) UserTransactions(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing identity", "")
		return
	}

	hashes, err := h.pulseUC.GetUserTransactions(r.Context(), identity)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HashListResponse{Hashes: hashes})
}

// Stats returns the global transaction count and volume.
func (h *PulseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pulseUC.GetSystemStats(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SystemStatsResponse{
		TotalTransactions: stats.TotalTransactions,
		TotalVolume:       stats.TotalVolume,
	})
}

// Consistency verifies the system aggregates against the log.
func (h *PulseHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	consistent, err := h.pulseUC.CheckConsistency(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentPulse) {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: consistent})
}
