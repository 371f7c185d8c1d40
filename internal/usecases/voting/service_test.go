package voting

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/contest-ranking-api/infrastructure/repository/mocks"
	"github.com/vfg2006/contest-ranking-api/internal/config"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
	"go.uber.org/mock/gomock"
)

type fakeTrigger struct {
	calls atomic.Int64
}

func (f *fakeTrigger) Trigger() {
	f.calls.Add(1)
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Voting.VotePrice = 100
	return cfg
}

func TestService_InitiateVote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCandidateRepo := mocks.NewMockCandidateRepository(ctrl)
	mockPaymentRepo := mocks.NewMockPaymentRepository(ctrl)
	trigger := &fakeTrigger{}
	service := NewService(mockCandidateRepo, mockPaymentRepo, trigger, newTestConfig())

	tests := []struct {
		name        string
		candidateID string
		setup       func()
		expectedErr error
		validate    func(t *testing.T, record *domain.PaymentRecord)
	}{
		{
			name:        "Candidato aprovado gera pagamento pendente",
			candidateID: "cand-1",
			setup: func() {
				mockCandidateRepo.EXPECT().
					GetByID(gomock.Any(), "cand-1").
					Return(&domain.Candidate{ID: "cand-1", Approved: true}, nil)

				mockPaymentRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, record *domain.PaymentRecord) {
				assert.Equal(t, "cand-1", record.CandidateID)
				assert.Equal(t, int64(100), record.Amount)
				assert.Equal(t, domain.PaymentStatusPending, record.Status)
				assert.NotEmpty(t, record.ID)
				assert.NotEmpty(t, record.ProviderReference)
			},
		},
		{
			name:        "Candidato inexistente",
			candidateID: "fantasma",
			setup: func() {
				mockCandidateRepo.EXPECT().
					GetByID(gomock.Any(), "fantasma").
					Return(nil, nil)
			},
			expectedErr: ErrCandidateNotFound,
		},
		{
			name:        "Candidato não aprovado não recebe votos",
			candidateID: "cand-2",
			setup: func() {
				mockCandidateRepo.EXPECT().
					GetByID(gomock.Any(), "cand-2").
					Return(&domain.Candidate{ID: "cand-2", Approved: false}, nil)
			},
			expectedErr: ErrCandidateNotEligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			record, err := service.InitiateVote(context.Background(), tt.candidateID)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, record)
				return
			}

			assert.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, record)
			}
		})
	}

	// Iniciar um voto nunca dispara recálculo
	assert.Equal(t, int64(0), trigger.calls.Load())
}

func TestService_ConfirmPayment(t *testing.T) {
	pendingRecord := func() *domain.PaymentRecord {
		return &domain.PaymentRecord{
			ID:                "pay-1",
			CandidateID:       "cand-1",
			Amount:            100,
			ProviderReference: "ref-1",
			Status:            domain.PaymentStatusPending,
		}
	}

	tests := []struct {
		name             string
		reference        string
		outcome          domain.PaymentStatus
		setup            func(candidateRepo *mocks.MockCandidateRepository, paymentRepo *mocks.MockPaymentRepository)
		expectedErr      error
		expectedTriggers int64
		validate         func(t *testing.T, result *ConfirmationResult)
	}{
		{
			name:      "Primeira confirmação COMPLETED incrementa o voto e dispara o recálculo",
			reference: "ref-1",
			outcome:   domain.PaymentStatusCompleted,
			setup: func(candidateRepo *mocks.MockCandidateRepository, paymentRepo *mocks.MockPaymentRepository) {
				paymentRepo.EXPECT().
					GetByProviderReference(gomock.Any(), "ref-1").
					Return(pendingRecord(), nil)

				paymentRepo.EXPECT().
					UpdateStatusIfPending(gomock.Any(), "ref-1", domain.PaymentStatusCompleted, gomock.Any()).
					Return(true, nil)

				candidateRepo.EXPECT().
					IncrementVote(gomock.Any(), "cand-1", int64(100)).
					Return(nil)
			},
			expectedTriggers: 1,
			validate: func(t *testing.T, result *ConfirmationResult) {
				assert.True(t, result.Matched)
				assert.True(t, result.Applied)
				assert.Equal(t, domain.PaymentStatusCompleted, result.Record.Status)
				assert.NotNil(t, result.Record.VerifiedAt)
			},
		},
		{
			name:      "Confirmação repetida de pagamento já finalizado não muta nada",
			reference: "ref-1",
			outcome:   domain.PaymentStatusCompleted,
			setup: func(candidateRepo *mocks.MockCandidateRepository, paymentRepo *mocks.MockPaymentRepository) {
				completed := pendingRecord()
				completed.Status = domain.PaymentStatusCompleted
				now := time.Now()
				completed.VerifiedAt = &now

				paymentRepo.EXPECT().
					GetByProviderReference(gomock.Any(), "ref-1").
					Return(completed, nil)
			},
			expectedTriggers: 0,
			validate: func(t *testing.T, result *ConfirmationResult) {
				assert.True(t, result.Matched)
				assert.False(t, result.Applied)
				assert.Equal(t, domain.PaymentStatusCompleted, result.Record.Status)
			},
		},
		{
			name:      "Entrega concorrente perde a transição e vira repetição",
			reference: "ref-1",
			outcome:   domain.PaymentStatusCompleted,
			setup: func(candidateRepo *mocks.MockCandidateRepository, paymentRepo *mocks.MockPaymentRepository) {
				paymentRepo.EXPECT().
					GetByProviderReference(gomock.Any(), "ref-1").
					Return(pendingRecord(), nil)

				// Outra entrega venceu a corrida entre a leitura e o UPDATE
				paymentRepo.EXPECT().
					UpdateStatusIfPending(gomock.Any(), "ref-1", domain.PaymentStatusCompleted, gomock.Any()).
					Return(false, nil)

				settled := pendingRecord()
				settled.Status = domain.PaymentStatusCompleted
				paymentRepo.EXPECT().
					GetByProviderReference(gomock.Any(), "ref-1").
					Return(settled, nil)
			},
			expectedTriggers: 0,
			validate: func(t *testing.T, result *ConfirmationResult) {
				assert.True(t, result.Matched)
				assert.False(t, result.Applied)
			},
		},
		{
			name:      "Confirmação FAILED encerra o pagamento sem voto",
			reference: "ref-1",
			outcome:   domain.PaymentStatusFailed,
			setup: func(candidateRepo *mocks.MockCandidateRepository, paymentRepo *mocks.MockPaymentRepository) {
				paymentRepo.EXPECT().
					GetByProviderReference(gomock.Any(), "ref-1").
					Return(pendingRecord(), nil)

				paymentRepo.EXPECT().
					UpdateStatusIfPending(gomock.Any(), "ref-1", domain.PaymentStatusFailed, gomock.Any()).
					Return(true, nil)
			},
			expectedTriggers: 0,
			validate: func(t *testing.T, result *ConfirmationResult) {
				assert.True(t, result.Matched)
				assert.True(t, result.Applied)
				assert.Equal(t, domain.PaymentStatusFailed, result.Record.Status)
				assert.Nil(t, result.Record.VerifiedAt)
			},
		},
		{
			name:      "Referência desconhecida é ignorada sem erro",
			reference: "ref-inexistente",
			outcome:   domain.PaymentStatusCompleted,
			setup: func(candidateRepo *mocks.MockCandidateRepository, paymentRepo *mocks.MockPaymentRepository) {
				paymentRepo.EXPECT().
					GetByProviderReference(gomock.Any(), "ref-inexistente").
					Return(nil, nil)
			},
			expectedTriggers: 0,
			validate: func(t *testing.T, result *ConfirmationResult) {
				assert.False(t, result.Matched)
				assert.False(t, result.Applied)
				assert.Nil(t, result.Record)
			},
		},
		{
			name:        "Resultado desconhecido é rejeitado",
			reference:   "ref-1",
			outcome:     domain.PaymentStatus("REFUNDED"),
			setup:       func(candidateRepo *mocks.MockCandidateRepository, paymentRepo *mocks.MockPaymentRepository) {},
			expectedErr: ErrInvalidOutcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCandidateRepo := mocks.NewMockCandidateRepository(ctrl)
			mockPaymentRepo := mocks.NewMockPaymentRepository(ctrl)
			trigger := &fakeTrigger{}
			service := NewService(mockCandidateRepo, mockPaymentRepo, trigger, newTestConfig())

			tt.setup(mockCandidateRepo, mockPaymentRepo)

			result, err := service.ConfirmPayment(context.Background(), tt.reference, tt.outcome)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedTriggers, trigger.calls.Load())
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

// Entregas concorrentes da mesma confirmação: apenas a vencedora da transição
// PENDING -> COMPLETED incrementa o voto e dispara o recálculo.
func TestService_ConfirmPayment_EntregasDuplicadasConcorrentes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCandidateRepo := mocks.NewMockCandidateRepository(ctrl)
	mockPaymentRepo := mocks.NewMockPaymentRepository(ctrl)
	trigger := &fakeTrigger{}
	service := NewService(mockCandidateRepo, mockPaymentRepo, trigger, newTestConfig())

	const deliveries = 8

	// O mock se comporta como o banco: a transição acontece uma única vez via
	// CAS e as leituras refletem o estado corrente, devolvendo sempre uma
	// cópia própria do registro.
	var transitioned atomic.Bool

	recordCopy := func() *domain.PaymentRecord {
		record := &domain.PaymentRecord{
			ID:                "pay-1",
			CandidateID:       "cand-1",
			Amount:            100,
			ProviderReference: "ref-1",
			Status:            domain.PaymentStatusPending,
		}
		if transitioned.Load() {
			record.Status = domain.PaymentStatusCompleted
		}
		return record
	}

	mockPaymentRepo.EXPECT().
		GetByProviderReference(gomock.Any(), "ref-1").
		DoAndReturn(func(_ context.Context, _ string) (*domain.PaymentRecord, error) {
			return recordCopy(), nil
		}).
		AnyTimes()

	mockPaymentRepo.EXPECT().
		UpdateStatusIfPending(gomock.Any(), "ref-1", domain.PaymentStatusCompleted, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ domain.PaymentStatus, _ time.Time) (bool, error) {
			return transitioned.CompareAndSwap(false, true), nil
		}).
		AnyTimes()

	// O incremento acontece exatamente uma vez.
	mockCandidateRepo.EXPECT().
		IncrementVote(gomock.Any(), "cand-1", int64(100)).
		Return(nil).
		Times(1)

	var applied atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := service.ConfirmPayment(context.Background(), "ref-1", domain.PaymentStatusCompleted)

			assert.NoError(t, err)
			assert.True(t, result.Matched)
			if result.Applied {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), applied.Load())
	assert.Equal(t, int64(1), trigger.calls.Load())
}
