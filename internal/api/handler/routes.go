package handler

import (
	"net/http"

	"github.com/vfg2006/contest-ranking-api/internal/api/handler/router"
	"github.com/vfg2006/contest-ranking-api/internal/broadcast"
	"github.com/vfg2006/contest-ranking-api/internal/scheduler"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/ranking"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/voting"
	"github.com/vfg2006/contest-ranking-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Ranking retorna as rotas de consulta do ranking. A superfície de leitura é
// pública; apenas o refresh forçado exige credencial elevada.
func Ranking(service ranking.RankingService, recomputeService *scheduler.RankingRecomputeService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/ranking",
			Method:  http.MethodGet,
			Handler: GetRanking(service),
		},
		{
			Path:    "/v1/ranking/top",
			Method:  http.MethodGet,
			Handler: GetTopRanking(service),
		},
		{
			Path:    "/v1/ranking/stats",
			Method:  http.MethodGet,
			Handler: GetRankingStats(service),
		},
		{
			Path:    "/v1/ranking/tight-races",
			Method:  http.MethodGet,
			Handler: GetTightRaces(service),
		},
		{
			Path:    "/v1/ranking/rising-stars",
			Method:  http.MethodGet,
			Handler: GetRisingStars(service),
		},
		{
			Path:    "/v1/ranking/candidates/:id",
			Method:  http.MethodGet,
			Handler: GetCandidateRank(service),
		},
		{
			Path:    "/v1/ranking/countries/:country",
			Method:  http.MethodGet,
			Handler: GetRankingByCountry(service),
		},
		{
			Path:        "/v1/ranking/refresh",
			Method:      http.MethodPost,
			Handler:     ForceRefresh(service, recomputeService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

// Voting retorna as rotas de iniciação de voto e o webhook de confirmação do
// provedor de pagamento
func Voting(service voting.VotingService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/votes",
			Method:  http.MethodPost,
			Handler: CreateVote(service),
		},
		{
			Path:    "/v1/payments/confirmation",
			Method:  http.MethodPost,
			Handler: ConfirmPayment(service),
		},
	}
}

// Live retorna a rota de assinatura websocket do ranking
func Live(hub *broadcast.Hub) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/ranking/live",
			Method:  http.MethodGet,
			Handler: LiveRanking(hub),
		},
	}
}
