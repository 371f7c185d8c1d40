// Package voting contém a iniciação de votos pagos e a máquina de estados de
// confirmação dos pagamentos.
package voting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/contest-ranking-api/infrastructure/repository"
	"github.com/vfg2006/contest-ranking-api/internal/config"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
	"github.com/vfg2006/contest-ranking-api/pkg/utils"
)

var (
	ErrCandidateNotFound    = errors.New("candidato não encontrado")
	ErrCandidateNotEligible = errors.New("candidato não está aprovado para votação")
	ErrInvalidOutcome       = errors.New("resultado de pagamento inválido")
)

// RecomputeTrigger é o único canal pelo qual uma confirmação provoca um novo
// cálculo do ranking. Implementado pelo agendador de recálculo; a direção
// única da dependência evita o ciclo confirmação -> ranking -> confirmação.
type RecomputeTrigger interface {
	Trigger()
}

// ConfirmationResult é o desfecho de uma confirmação entregue pelo provedor.
type ConfirmationResult struct {
	Record  *domain.PaymentRecord `json:"record"`
	Matched bool                  `json:"matched"`
	// Applied indica se esta entrega em particular causou a transição.
	// false para reentregas de uma confirmação já processada.
	Applied bool `json:"applied"`
}

type VotingService interface {
	InitiateVote(ctx context.Context, candidateID string) (*domain.PaymentRecord, error)
	ConfirmPayment(ctx context.Context, providerReference string, outcome domain.PaymentStatus) (*ConfirmationResult, error)
}

type Service struct {
	candidateRepo repository.CandidateRepository
	paymentRepo   repository.PaymentRepository
	trigger       RecomputeTrigger
	votePrice     int64
}

func NewService(
	candidateRepo repository.CandidateRepository,
	paymentRepo repository.PaymentRepository,
	trigger RecomputeTrigger,
	cfg *config.Config,
) VotingService {
	return &Service{
		candidateRepo: candidateRepo,
		paymentRepo:   paymentRepo,
		trigger:       trigger,
		votePrice:     cfg.Voting.VotePrice,
	}
}

// InitiateVote cria um registro de pagamento PENDING para um voto no
// candidato informado. O registro só vira voto quando o provedor confirmar.
func (s *Service) InitiateVote(ctx context.Context, candidateID string) (*domain.PaymentRecord, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar candidato para votação")
	}

	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	if !candidate.Approved {
		return nil, ErrCandidateNotEligible
	}

	reference, err := utils.GenerateReference()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar referência do provedor")
	}

	record := &domain.PaymentRecord{
		ID:                uuid.New().String(),
		CandidateID:       candidate.ID,
		Amount:            s.votePrice,
		ProviderReference: reference,
		Status:            domain.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "erro ao registrar pagamento pendente")
	}

	logrus.WithFields(logrus.Fields{
		"payment_id":   record.ID,
		"candidate_id": record.CandidateID,
	}).Info("Pagamento de voto iniciado")

	return record, nil
}

// ConfirmPayment processa uma confirmação do provedor de pagamento. As
// entregas são ao-menos-uma-vez: a mesma referência pode chegar várias vezes
// e o incremento de votos acontece no máximo uma vez, na transição
// PENDING -> COMPLETED. Referências desconhecidas são registradas e
// ignoradas, nunca propagadas como erro fatal.
func (s *Service) ConfirmPayment(ctx context.Context, providerReference string, outcome domain.PaymentStatus) (*ConfirmationResult, error) {
	if outcome != domain.PaymentStatusCompleted && outcome != domain.PaymentStatusFailed {
		return nil, ErrInvalidOutcome
	}

	record, err := s.paymentRepo.GetByProviderReference(ctx, providerReference)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar pagamento pela referência do provedor")
	}

	if record == nil {
		logrus.WithField("provider_reference", providerReference).Warn("Confirmação sem pagamento correspondente, ignorando")
		return &ConfirmationResult{Matched: false}, nil
	}

	if record.Status.IsTerminal() {
		// Reentrega de uma confirmação já processada: nenhuma mutação,
		// nenhum gatilho de recálculo
		logrus.WithFields(logrus.Fields{
			"payment_id": record.ID,
			"status":     record.Status,
		}).Info("Confirmação repetida para pagamento já finalizado")
		return &ConfirmationResult{Record: record, Matched: true, Applied: false}, nil
	}

	now := time.Now()
	applied, err := s.paymentRepo.UpdateStatusIfPending(ctx, providerReference, outcome, now)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao atualizar status do pagamento")
	}

	if !applied {
		// Outra entrega concorrente venceu a transição; tratar como repetição
		current, err := s.paymentRepo.GetByProviderReference(ctx, providerReference)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao reler pagamento após disputa de confirmação")
		}
		return &ConfirmationResult{Record: current, Matched: true, Applied: false}, nil
	}

	record.Status = outcome
	record.UpdatedAt = now

	if outcome == domain.PaymentStatusFailed {
		logrus.WithField("payment_id", record.ID).Info("Pagamento de voto marcado como falho")
		return &ConfirmationResult{Record: record, Matched: true, Applied: true}, nil
	}

	record.VerifiedAt = &now

	if err := s.candidateRepo.IncrementVote(ctx, record.CandidateID, record.Amount); err != nil {
		// A transição de status já aconteceu; reportar o erro para
		// investigação em vez de arriscar um segundo incremento
		return nil, errors.Wrap(err, "erro ao incrementar votos do candidato")
	}

	logrus.WithFields(logrus.Fields{
		"payment_id":   record.ID,
		"candidate_id": record.CandidateID,
	}).Info("Pagamento confirmado, voto computado")

	s.trigger.Trigger()

	return &ConfirmationResult{Record: record, Matched: true, Applied: true}, nil
}
