package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tokenguard/internal/access"
	"tokenguard/internal/allowlist"
	"tokenguard/internal/identity"
	"tokenguard/internal/ledger"
	"tokenguard/internal/policy"
	"tokenguard/internal/token"
	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/requestcontext"
)

// Handler is the thin HTTP layer over the compliance core. It decodes
// requests, delegates to services, and translates coded errors; no business
// logic lives here.
type Handler struct {
	logger     *slog.Logger
	tokens     *token.Service
	identities *identity.Service
	policies   *policy.Service
	allowlists *allowlist.Service
	trail      *ledger.Service
	authz      *access.Authority
}

func NewHandler(
	logger *slog.Logger,
	tokens *token.Service,
	identities *identity.Service,
	policies *policy.Service,
	allowlists *allowlist.Service,
	trail *ledger.Service,
	authz *access.Authority,
) *Handler {
	return &Handler{
		logger:     logger,
		tokens:     tokens,
		identities: identities,
		policies:   policies,
		allowlists: allowlists,
		trail:      trail,
		authz:      authz,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler returns the same JSON error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	h.writeJSON(w, status, map[string]string{"error": string(code)})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// addressParam parses a chi URL parameter as an address.
func (h *Handler) addressParam(w http.ResponseWriter, r *http.Request, name string) (id.Address, bool) {
	addr, err := id.ParseAddress(chi.URLParam(r, name))
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, err.Error()))
		return "", false
	}
	return addr, true
}
