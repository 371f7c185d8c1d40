package domain

import "time"

// PaymentStatus é o estado de um registro de pagamento de voto.
// PENDING transiciona exatamente uma vez para COMPLETED ou FAILED.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// IsTerminal informa se o status não admite mais transições.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PaymentRecord registra uma tentativa de voto pago. ProviderReference é a
// chave de idempotência usada nas confirmações do provedor de pagamento.
type PaymentRecord struct {
	ID                string        `json:"id"`
	CandidateID       string        `json:"candidate_id"`
	Amount            int64         `json:"amount"` // Em centavos
	ProviderReference string        `json:"provider_reference"`
	Status            PaymentStatus `json:"status"`
	VerifiedAt        *time.Time    `json:"verified_at"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
