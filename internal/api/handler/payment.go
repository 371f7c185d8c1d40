package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/voting"
	"github.com/vfg2006/contest-ranking-api/pkg/apiErrors"
)

type createVoteRequest struct {
	CandidateID string `json:"candidateId"`
}

type createVoteResponse struct {
	PaymentID         string `json:"paymentId"`
	ProviderReference string `json:"providerReference"`
	Amount            int64  `json:"amount"`
}

// CreateVote inicia um voto pago: cria o registro de pagamento PENDING e
// devolve a referência que o provedor usará na confirmação
func CreateVote(service voting.VotingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request createVoteRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if request.CandidateID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "candidateId é obrigatório", nil)
			return
		}

		record, err := service.InitiateVote(r.Context(), request.CandidateID)
		if err != nil {
			switch {
			case errors.Is(err, voting.ErrCandidateNotFound):
				apiErrors.WriteError(w, apiErrors.ErrCandidateNotFound, "Candidato não encontrado", nil)
			case errors.Is(err, voting.ErrCandidateNotEligible):
				apiErrors.WriteError(w, apiErrors.ErrCandidateIneligible, "Candidato não aprovado para votação", nil)
			default:
				logrus.Error("Erro ao iniciar voto:", err)
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao iniciar voto", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createVoteResponse{
			PaymentID:         record.ID,
			ProviderReference: record.ProviderReference,
			Amount:            record.Amount,
		})
	}
}

type confirmationRequest struct {
	ProviderReference string `json:"providerReference"`
	Outcome           string `json:"outcome"`
}

// ConfirmPayment recebe a confirmação normalizada do provedor de pagamento.
// Entregas repetidas e referências desconhecidas respondem 200 para que o
// provedor pare de reentregar.
func ConfirmPayment(service voting.VotingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request confirmationRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if request.ProviderReference == "" || request.Outcome == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "providerReference e outcome são obrigatórios", nil)
			return
		}

		outcome := domain.PaymentStatus(strings.ToUpper(request.Outcome))

		result, err := service.ConfirmPayment(r.Context(), request.ProviderReference, outcome)
		if err != nil {
			if errors.Is(err, voting.ErrInvalidOutcome) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "outcome deve ser COMPLETED ou FAILED", nil)
				return
			}

			logrus.Error("Erro ao processar confirmação de pagamento:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar confirmação", nil)
			return
		}

		writeJSON(w, result)
	}
}
