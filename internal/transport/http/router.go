package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the public surface: open reads, role-gated writes, and the
// operational endpoints.
func NewRouter(h *Handler, signingKey string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(RequestTime)
	r.Use(Logger(logger))
	r.Use(CallerAuth(signingKey, logger))

	r.Route("/v1", func(r chi.Router) {
		// Reads: no caller restriction, latest committed state.
		r.Get("/token", h.handleToken)
		r.Get("/balances/{address}", h.handleBalance)
		r.Get("/allowances/{owner}/{spender}", h.handleAllowance)
		r.Get("/roles", h.handleRoles)
		r.Get("/roles/providers/{address}", h.handleIsProvider)
		r.Get("/identities/{address}", h.handleGetIdentity)
		r.Get("/allowlist/{address}", h.handleIsAllowlisted)
		r.Get("/policy", h.handleGetPolicy)
		r.Get("/audit/next-id", h.handleNextRecordID)
		r.Get("/audit/{id}", h.handleGetAuditRecord)
		r.Get("/transfers/check", h.handleCheckTransfer)

		// Writes: each service enforces its own role requirement.
		r.Post("/transfers", h.handleTransfer)
		r.Post("/approvals", h.handleApprove)
		r.Post("/identities/{address}", h.handleAttest)
		r.Post("/identities/{address}/freeze", h.handleFreeze)
		r.Post("/identities/{address}/unfreeze", h.handleUnfreeze)
		r.Put("/allowlist/{address}", h.handleUpdateAllowlist)
		r.Put("/policy/jurisdictions/{code}", h.handleBlockJurisdiction)
		r.Put("/roles/providers/{address}", h.handleUpdateProvider)
		r.Put("/roles/officer", h.handleSetOfficer)
		r.Put("/roles/owner", h.handleTransferOwnership)
		r.Put("/policy/kyc", h.handleSetKYCRequired)
		r.Put("/policy/allowlist-only", h.handleSetAllowlistOnly)
		r.Put("/policy/jurisdiction-restrictions", h.handleSetJurisdictionRestrictions)
		r.Put("/policy/max-transfer-amount", h.handleSetMaxTransferAmount)
		r.Put("/policy/default-daily-limit", h.handleSetDefaultDailyLimit)
		r.Put("/policy/audit-trail", h.handleSetAuditTrail)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
