package payment

import (
	"net/url"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
)

// Verge interprets callbacks from the Verge hosted payment page, which
// redirects back with Id/id and Status/status parameters.
type Verge struct {
	successCode string
}

// NewVerge creates a Verge gateway. An empty successCode means "00".
func NewVerge(successCode string) *Verge {
	if successCode == "" {
		successCode = "00"
	}
	return &Verge{successCode: successCode}
}

func (v *Verge) Method() domain.PaymentMethod {
	return domain.PaymentMethodVerge
}

func (v *Verge) Interpret(query url.Values) domain.CallbackResult {
	return v.InterpretStatus(
		firstParam(query, "Id", "id"),
		firstParam(query, "Status", "status"),
	)
}

func (v *Verge) InterpretStatus(transactionID, status string) domain.CallbackResult {
	status = strings.TrimSpace(status)

	switch {
	case status == "":
		return domain.CallbackResult{
			Status:        domain.CallbackLoading,
			TransactionID: transactionID,
			Message:       MessageVerifying,
		}
	case status == v.successCode || strings.EqualFold(status, "success"):
		return domain.CallbackResult{
			Status:        domain.CallbackSuccess,
			TransactionID: transactionID,
			Message:       MessageSuccess,
		}
	default:
		return domain.CallbackResult{
			Status:        domain.CallbackFailed,
			TransactionID: transactionID,
			Message:       status,
		}
	}
}
