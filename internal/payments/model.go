package payments

import (
	"fmt"
	"time"
)

// Status describes the settlement outcome recorded on a payment.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusSuccess, StatusFailed, StatusPending:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
}

// Method describes how a payment was made.
type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodPayPal       Method = "paypal"
	MethodBankTransfer Method = "bank_transfer"
	MethodCrypto       Method = "crypto"
)

// ParseMethod validates a raw method value.
func ParseMethod(raw string) (Method, error) {
	switch Method(raw) {
	case MethodCreditCard, MethodDebitCard, MethodPayPal, MethodBankTransfer, MethodCrypto:
		return Method(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidInput, raw)
	}
}

// Methods lists every supported payment method.
func Methods() []Method {
	return []Method{MethodCreditCard, MethodDebitCard, MethodPayPal, MethodBankTransfer, MethodCrypto}
}

// Statuses lists every supported payment status.
func Statuses() []Status {
	return []Status{StatusSuccess, StatusFailed, StatusPending}
}

// Payment is an immutable-after-creation ledger record. The transaction
// identifier is assigned exactly once, when the record is created.
type Payment struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Method        Method    `json:"method"`
	Status        Status    `json:"status"`
	Receiver      string    `json:"receiver"`
	Sender        string    `json:"sender,omitempty"`
	Description   string    `json:"description,omitempty"`
	TransactionID string    `json:"transaction_id"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TrendPoint is one day of the revenue trend series. Days without a single
// successful payment never appear in the series.
type TrendPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}
