package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

func (h *Handler) handleToken(w http.ResponseWriter, _ *http.Request) {
	meta := h.tokens.Metadata()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"name":         meta.Name,
		"symbol":       meta.Symbol,
		"decimals":     meta.Decimals,
		"total_supply": h.tokens.TotalSupply(),
	})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"account": account,
		"balance": h.tokens.BalanceOf(account),
	})
}

func (h *Handler) handleAllowance(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.addressParam(w, r, "owner")
	if !ok {
		return
	}
	spender, ok := h.addressParam(w, r, "spender")
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"owner":     owner,
		"spender":   spender,
		"allowance": h.tokens.Allowance(owner, spender),
	})
}

func (h *Handler) handleCheckTransfer(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := id.ParseAddress(query.Get("from"))
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "from: "+err.Error()))
		return
	}
	to, err := id.ParseAddress(query.Get("to"))
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "to: "+err.Error()))
		return
	}
	amount, err := strconv.ParseUint(query.Get("amount"), 10, 64)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "amount must be a non-negative integer"))
		return
	}

	decision, err := h.tokens.Check(r.Context(), from, to, amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"allowed": decision.Allowed,
		"reason":  decision.Reason,
	})
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	to, err := id.ParseAddress(req.To)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "to: "+err.Error()))
		return
	}

	result, err := h.tokens.Transfer(r.Context(), to, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Spender string `json:"spender"`
		Amount  uint64 `json:"amount"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	spender, err := id.ParseAddress(req.Spender)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "spender: "+err.Error()))
		return
	}

	if err := h.tokens.Approve(r.Context(), spender, req.Amount); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNextRecordID(w http.ResponseWriter, r *http.Request) {
	next, err := h.trail.NextID(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]uint64{"next_record_id": next})
}

func (h *Handler) handleGetAuditRecord(w http.ResponseWriter, r *http.Request) {
	recordID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "record id must be a non-negative integer"))
		return
	}
	record, err := h.trail.Get(r.Context(), recordID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}
