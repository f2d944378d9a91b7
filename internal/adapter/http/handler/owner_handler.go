package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/dto"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// OwnerHandler handles ownership HTTP requests.
type OwnerHandler struct {
	ownershipUC *usecase.OwnershipUseCase
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(ownershipUC *usecase.OwnershipUseCase) *OwnerHandler {
	return &OwnerHandler{ownershipUC: ownershipUC}
}

// Show returns the current owner identity.
func (h *OwnerHandler) Show(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownershipUC.Owner(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotInitialized) {
			writeError(w, http.StatusNotFound, "owner not initialized", "")
			return
		}
		writeError(w, mapDomainError(err), "failed to get owner", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OwnerResponse{Owner: owner})
}

// Transfer hands the owner role to a new identity. Owner only.
func (h *OwnerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.TransferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.ownershipUC.TransferOwnership(r.Context(), caller, req.NewOwner); err != nil {
		writeError(w, mapDomainError(err), "failed to transfer ownership", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OwnerResponse{Owner: req.NewOwner})
}
