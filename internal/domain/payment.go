package domain

import (
	"math"
	"time"
)

// ProcessingFeeRate is the flat gateway fee applied to every charge attempt.
const ProcessingFeeRate = 0.025

type PaymentRecordStatus string

const (
	PaymentRecordSuccess PaymentRecordStatus = "Success"
	PaymentRecordFailed  PaymentRecordStatus = "Failed"
)

const (
	MethodCreditCard = "Credit Card"
	MethodDebitCard  = "Debit Card"
	MethodUPI        = "UPI"
	MethodNetBanking = "Net Banking"
)

// PaymentRecord is one charge attempt against a registration. Records are
// append-only; retries create new rows.
type PaymentRecord struct {
	ID                   uint                `json:"id"`
	RegistrationID       uint                `json:"registration_id"`
	TransactionID        string              `json:"transaction_id"`
	GatewayTransactionID string              `json:"gateway_transaction_id"`
	Method               string              `json:"payment_method"`
	Amount               float64             `json:"amount"`
	ProcessingFee        float64             `json:"processing_fee"`
	NetAmount            float64             `json:"net_amount"`
	Status               PaymentRecordStatus `json:"status"`
	CardLastFour         string              `json:"card_last_four,omitempty"`
	CardType             string              `json:"card_type,omitempty"`
	BankName             string              `json:"bank_name,omitempty"`
	UPIID                string              `json:"upi_id,omitempty"`
	GatewayResponse      string              `json:"gateway_response,omitempty"`
	FailureReason        string              `json:"failure_reason,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
}

// ProcessingFee computes the gateway fee on amount, rounded to 2 decimals.
func ProcessingFee(amount float64) float64 {
	return math.Round(amount*ProcessingFeeRate*100) / 100
}
