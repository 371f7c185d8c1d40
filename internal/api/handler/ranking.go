package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
	"github.com/vfg2006/contest-ranking-api/internal/scheduler"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/ranking"
	"github.com/vfg2006/contest-ranking-api/pkg/apiErrors"
)

const defaultRankingLimit = 100

// rankingResponse é o formato das respostas que carregam ranking + agregados
type rankingResponse struct {
	Ranking []domain.SnapshotEntry `json:"ranking"`
	Stats   *domain.GlobalStats    `json:"stats"`
}

// GetRanking retorna o ranking completo com os agregados globais
func GetRanking(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r, defaultRankingLimit)
		if !ok {
			return
		}

		_, stats := service.Current()
		writeJSON(w, rankingResponse{
			Ranking: service.TopN(limit),
			Stats:   stats,
		})
	}
}

// GetTopRanking retorna as primeiras posições do ranking
func GetTopRanking(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r, 10)
		if !ok {
			return
		}

		writeJSON(w, map[string]any{
			"limit":   limit,
			"entries": service.TopN(limit),
		})
	}
}

// GetRankingStats retorna apenas os agregados globais
func GetRankingStats(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, stats := service.Current()
		writeJSON(w, stats)
	}
}

// GetCandidateRank retorna a posição de um candidato no ranking corrente
func GetCandidateRank(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if candidateID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do candidato não informado", nil)
			return
		}

		rank := service.CandidateRank(candidateID)
		if rank.Entry == nil {
			// Não é falha: o candidato só não está no conjunto elegível
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(rank)
			return
		}

		writeJSON(w, rank)
	}
}

// GetRankingByCountry retorna o ranking independente de um país
func GetRankingByCountry(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country := httprouter.ParamsFromContext(r.Context()).ByName("country")
		if country == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "País não informado", nil)
			return
		}

		limit, ok := parseLimit(w, r, defaultRankingLimit)
		if !ok {
			return
		}

		writeJSON(w, map[string]any{
			"country": country,
			"entries": service.RankingByCountry(country, limit),
		})
	}
}

// GetTightRaces retorna os pares adjacentes separados por poucos votos
func GetTightRaces(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r, 10)
		if !ok {
			return
		}

		writeJSON(w, map[string]any{
			"races": service.TightRaces(limit),
		})
	}
}

// GetRisingStars retorna os candidatos com maior ganho de votos desde o
// snapshot anterior
func GetRisingStars(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r, 10)
		if !ok {
			return
		}

		writeJSON(w, map[string]any{
			"entries": service.RisingStars(limit),
		})
	}
}

// ForceRefresh executa uma passada de recálculo e responde o top-100
// resultante. Rota privilegiada.
func ForceRefresh(service ranking.RankingService, recomputeService *scheduler.RankingRecomputeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("Recálculo manual do ranking solicitado")

		recomputeService.RunNow(r.Context())

		_, stats := service.Current()
		writeJSON(w, rankingResponse{
			Ranking: service.TopN(defaultRankingLimit),
			Stats:   stats,
		})
	}
}

// parseLimit valida o parâmetro limit antes de qualquer consulta. Escreve o
// erro de validação e retorna ok=false quando o valor é inválido.
func parseLimit(w http.ResponseWriter, r *http.Request, defaultLimit int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser um inteiro maior que zero", nil)
		return 0, false
	}

	return limit, true
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Error("Erro ao enviar resposta:", err)
	}
}
