package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/requestcontext"
)

func (h *Handler) handleRoles(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"owner":              h.authz.Owner(),
		"compliance_officer": h.authz.ComplianceOfficer(),
	})
}

func (h *Handler) handleIsProvider(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"account":  account,
		"provider": h.authz.IsProvider(account),
	})
}

func (h *Handler) handleGetIdentity(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	record, err := h.identities.Get(r.Context(), account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleIsAllowlisted(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	member, err := h.allowlists.IsAllowlisted(r.Context(), account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"account":     account,
		"allowlisted": member,
	})
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	pol, err := h.policies.Policy(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	blocked, err := h.policies.BlockedJurisdictions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"policy":                pol,
		"blocked_jurisdictions": blocked,
	})
}

func (h *Handler) handleAttest(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	var req struct {
		Level        uint8  `json:"level"`
		Jurisdiction string `json:"jurisdiction"`
		DailyLimit   uint64 `json:"daily_limit"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	level, err := id.ParseKYCLevel(req.Level)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, err.Error()))
		return
	}

	if err := h.identities.Attest(r.Context(), account, level, req.Jurisdiction, req.DailyLimit); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFreeze(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.identities.Freeze(r.Context(), account, req.Reason); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnfreeze(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	if err := h.identities.Unfreeze(r.Context(), account); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateAllowlist(w http.ResponseWriter, r *http.Request) {
	account, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	var req struct {
		Status bool `json:"status"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.allowlists.Update(r.Context(), account, req.Status); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleBlockJurisdiction(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req struct {
		Blocked bool `json:"blocked"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.policies.BlockJurisdiction(r.Context(), code, req.Blocked); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	var req struct {
		Status bool `json:"status"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	caller := requestcontext.Caller(r.Context())
	if err := h.authz.UpdateIdentityProvider(caller, provider, req.Status); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetOfficer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	officer, err := id.ParseAddress(req.Address)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, err.Error()))
		return
	}

	caller := requestcontext.Caller(r.Context())
	if err := h.authz.SetComplianceOfficer(caller, officer); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	newOwner, err := id.ParseAddress(req.Address)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, err.Error()))
		return
	}

	caller := requestcontext.Caller(r.Context())
	if err := h.authz.TransferOwnership(caller, newOwner); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetKYCRequired(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Required bool  `json:"required"`
		MinLevel uint8 `json:"min_level"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	level, err := id.ParseKYCLevel(req.MinLevel)
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, err.Error()))
		return
	}

	if err := h.policies.SetKYCRequired(r.Context(), req.Required, level); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetAllowlistOnly(w http.ResponseWriter, r *http.Request) {
	h.setPolicyFlag(w, r, h.policies.SetAllowlistOnly)
}

func (h *Handler) handleSetJurisdictionRestrictions(w http.ResponseWriter, r *http.Request) {
	h.setPolicyFlag(w, r, h.policies.SetJurisdictionRestrictions)
}

func (h *Handler) handleSetAuditTrail(w http.ResponseWriter, r *http.Request) {
	h.setPolicyFlag(w, r, h.policies.SetAuditTrail)
}

func (h *Handler) handleSetMaxTransferAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount uint64 `json:"amount"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.policies.SetMaxTransferAmount(r.Context(), req.Amount); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetDefaultDailyLimit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit uint64 `json:"limit"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.policies.SetDefaultDailyLimit(r.Context(), req.Limit); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setPolicyFlag(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, enabled bool) error) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := set(r.Context(), req.Enabled); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
