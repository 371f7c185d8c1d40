package domain

import "time"

// SnapshotEntry é a posição de um candidato dentro de um snapshot do ranking.
type SnapshotEntry struct {
	Rank        int     `json:"rank"`
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	PhotoURL    *string `json:"photo_url"`
	Votes       int64   `json:"votes"`
	Revenue     int64   `json:"revenue"`
	VoteDelta   int64   `json:"vote_delta"`
	RankDelta   int     `json:"rank_delta"` // Valor positivo = subiu, negativo = desceu, 0 = manteve
}

// RankingSnapshot é o resultado imutável de um recálculo completo do ranking.
// As posições são sempre 1..N, sem lacunas nem duplicatas.
type RankingSnapshot struct {
	Entries    []SnapshotEntry `json:"entries"`
	ComputedAt time.Time       `json:"computed_at"`
}

// GlobalStats são os agregados dos candidatos aprovados, derivados na mesma
// leitura que alimenta o snapshot.
type GlobalStats struct {
	TotalCandidates int64     `json:"total_candidates"`
	TotalVotes      int64     `json:"total_votes"`
	TotalRevenue    int64     `json:"total_revenue"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TightRace é um par de candidatos adjacentes no ranking separados por uma
// margem pequena de votos.
type TightRace struct {
	Rank     int           `json:"rank"` // Posição do líder do par
	Leader   SnapshotEntry `json:"leader"`
	Chaser   SnapshotEntry `json:"chaser"`
	VoteDiff int64         `json:"vote_diff"`
}

// CandidateRank é a resposta de uma consulta de posição de um candidato.
// Entry é nil quando o candidato não está no conjunto elegível.
type CandidateRank struct {
	CandidateID string         `json:"candidate_id"`
	Entry       *SnapshotEntry `json:"entry"`
	Total       int64          `json:"total"`
}
