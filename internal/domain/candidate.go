// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "time"

// Candidate representa um candidato do concurso. Os registros são mantidos
// pelo banco de dados; a aplicação apenas lê e incrementa os contadores.
// Revenue e o preço do voto usam a mesma unidade monetária (centavos).
type Candidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Country    string    `json:"country"`
	PhotoURL   *string   `json:"photo_url"`
	VideoURL   *string   `json:"video_url"`
	Votes      int64     `json:"votes"`
	Revenue    int64     `json:"revenue"`
	ViewCount  int64     `json:"view_count"`
	ShareCount int64     `json:"share_count"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
