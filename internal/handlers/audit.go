package handlers

import (
	"net/http"

	"docgraph/internal/audit"
	"docgraph/internal/contextutil"
)

// AuditHandler handles HTTP requests for consistency audits.
type AuditHandler struct {
	auditor *audit.Auditor
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditor *audit.Auditor) *AuditHandler {
	return &AuditHandler{auditor: auditor}
}

// ServeHTTP runs a cross-store consistency audit and returns the report.
// The report is diagnostic only; nothing is repaired.
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	report, err := h.auditor.Audit(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "audit failed", "error", err)
		writeError(ctx, w, http.StatusServiceUnavailable, "Audit could not reach both stores")
		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}
