package payment

import "time"

// Status is the internal two-state view of a transaction. The gateway's
// richer vocabulary is preserved verbatim in GatewayStatus.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
)

// StatusFromGateway maps a Midtrans-style transaction_status to the
// internal status. Only settlement and capture count as money received;
// everything else (pending, deny, cancel, expire, failure, ...) stays
// PENDING until a later notification settles it.
func StatusFromGateway(transactionStatus string) Status {
	switch transactionStatus {
	case "settlement", "capture":
		return StatusSuccess
	default:
		return StatusPending
	}
}

type Payment struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	CheckoutID    string    `json:"checkout_id"`
	Status        Status    `json:"payment_status"`
	PaymentType   string    `json:"payment_type,omitempty"`
	GatewayStatus string    `json:"gateway_status,omitempty"`
	GrossAmount   string    `json:"gross_amount,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NotificationRequest is the webhook body as the gateway sends it.
// swagger:model NotificationRequest
type NotificationRequest struct {
	TransactionStatus string `json:"transaction_status" example:"settlement"`
	OrderID           string `json:"order_id"           example:"INV-20240301-0007"`
	PaymentType       string `json:"payment_type"       example:"bank_transfer"`
}
