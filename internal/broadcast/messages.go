package broadcast

import "github.com/vfg2006/contest-ranking-api/internal/domain"

// Tipos de mensagem enviados pelo servidor
const (
	MessageTypeInitial   = "initial"
	MessageTypeUpdate    = "update"
	MessageTypeRefresh   = "refresh"
	MessageTypeCandidate = "candidate"
	MessageTypeTop       = "top"
	MessageTypeCountry   = "country"
	MessageTypeError     = "error"
)

// Ações aceitas do observador
const (
	ActionRefresh   = "refresh"
	ActionCandidate = "candidate"
	ActionTop       = "top"
	ActionCountry   = "country"
)

// ServerMessage é o envelope de toda mensagem enviada a um observador.
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientMessage é o envelope das requisições enviadas por um observador.
type ClientMessage struct {
	Action      string `json:"action"`
	CandidateID string `json:"candidateId"`
	Country     string `json:"country"`
	Limit       int    `json:"limit"`
}

// RankingPayload acompanha as mensagens "initial", "update" e "refresh".
type RankingPayload struct {
	Ranking []domain.SnapshotEntry `json:"ranking"`
	Stats   *domain.GlobalStats    `json:"stats"`
}

// CandidatePayload responde a uma consulta de posição de candidato.
type CandidatePayload struct {
	CandidateID string                `json:"candidateId"`
	Entry       *domain.SnapshotEntry `json:"entry"`
	Total       int64                 `json:"total"`
}

// TopPayload responde a uma consulta de top-N.
type TopPayload struct {
	Limit   int                    `json:"limit"`
	Entries []domain.SnapshotEntry `json:"entries"`
}

// CountryPayload responde a uma consulta de ranking por país.
type CountryPayload struct {
	Country string                 `json:"country"`
	Entries []domain.SnapshotEntry `json:"entries"`
}

// ErrorPayload é enviado apenas ao observador cuja requisição falhou.
type ErrorPayload struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}
