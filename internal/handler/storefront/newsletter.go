package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
	"github.com/dukerupert/vortex/internal/telemetry"
)

// NewsletterHandler handles POST /newsletter/subscribe
type NewsletterHandler struct {
	newsletter Newsletter
	validator  Validator
	metrics    *telemetry.BusinessMetrics
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletter Newsletter, validator Validator, metrics *telemetry.BusinessMetrics) *NewsletterHandler {
	return &NewsletterHandler{
		newsletter: newsletter,
		validator:  validator,
		metrics:    metrics,
	}
}

func (h *NewsletterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req domain.NewsletterSubscription
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validator.Struct("newsletter.subscribe", req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	if err := h.newsletter.Subscribe(r.Context(), req.Email); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.RecordNewsletterSubscription()
	handler.WriteJSON(w, http.StatusOK, messageResponse{Message: "Thanks for subscribing!"})
}
