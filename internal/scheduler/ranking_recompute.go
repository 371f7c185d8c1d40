// Package scheduler contém os serviços de agendamento de recálculo do ranking
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/contest-ranking-api/internal/config"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/ranking"
)

// Broadcaster recebe o snapshot novo após cada recálculo bem-sucedido.
// Implementado pelo hub de observadores.
type Broadcaster interface {
	BroadcastUpdate(snapshot *domain.RankingSnapshot, stats *domain.GlobalStats)
}

type RankingRecomputeConfig struct {
	IntervalSeconds int
	Enabled         bool
}

// RankingRecomputeService coordena o recálculo periódico e o recálculo
// disparado por eventos (confirmações de pagamento). Garante no máximo uma
// passada completa em andamento: pedidos concorrentes são descartados, não
// enfileirados — a passada em andamento já reflete a intenção mais recente e
// o próximo tick captura qualquer mudança posterior.
type RankingRecomputeService struct {
	scheduler           *gocron.Scheduler
	rankingService      ranking.RankingService
	broadcaster         Broadcaster
	config              RankingRecomputeConfig
	trigger             chan struct{}
	syncRunning         bool
	syncMutex           sync.Mutex
	lastRunStartedAt    time.Time
	lastRunCompletedAt  time.Time
	lastRunError        string
	recomputeGeneration uint64
}

func NewRankingRecomputeService(
	rankingService ranking.RankingService,
	broadcaster Broadcaster,
	cfg *config.Config,
) *RankingRecomputeService {
	recomputeConfig := RankingRecomputeConfig{
		IntervalSeconds: cfg.RankingRecompute.IntervalSeconds, // Default: a cada 10 segundos
		Enabled:         cfg.RankingRecompute.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"interval_seconds": recomputeConfig.IntervalSeconds,
	}).Info("Configuração do agendador de recálculo do ranking carregada")

	return &RankingRecomputeService{
		scheduler:      scheduler,
		rankingService: rankingService,
		broadcaster:    broadcaster,
		config:         recomputeConfig,
		trigger:        make(chan struct{}, 1),
	}
}

// SetBroadcaster injeta o hub após a construção: o hub também depende do
// agendador para os pedidos de refresh dos observadores, então a ligação
// cruzada é feita na inicialização da aplicação, antes de Start.
func (s *RankingRecomputeService) SetBroadcaster(broadcaster Broadcaster) {
	s.broadcaster = broadcaster
}

func (s *RankingRecomputeService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Recálculo periódico do ranking desabilitado por configuração")
	} else {
		logrus.WithField("interval_seconds", s.config.IntervalSeconds).Info("Iniciando recálculo periódico do ranking")

		_, err := s.scheduler.Every(s.config.IntervalSeconds).Seconds().Do(func() {
			s.runRecompute(context.Background())
		})
		if err != nil {
			return fmt.Errorf("erro ao agendar recálculo do ranking: %w", err)
		}

		// Executar o agendador em uma goroutine separada
		s.scheduler.StartAsync()
	}

	// Consumir os gatilhos disparados por eventos
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.trigger:
				s.runRecompute(context.Background())
			}
		}
	}()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de recálculo do ranking")
		s.scheduler.Stop()
	}()

	return nil
}

// Trigger registra um pedido de recálculo disparado por evento. Nunca
// bloqueia: com um pedido já pendente ou uma passada em andamento, o pedido
// extra é redundante e pode ser descartado.
func (s *RankingRecomputeService) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
		logrus.Debug("Gatilho de recálculo descartado: pedido já pendente")
	}
}

// RunNow executa uma passada síncrona. Usado pelo endpoint privilegiado de
// atualização forçada; respeita a mesma exclusão de passada única.
func (s *RankingRecomputeService) RunNow(ctx context.Context) {
	s.runRecompute(ctx)
}

func (s *RankingRecomputeService) runRecompute(ctx context.Context) {
	if !s.tryStart() {
		logrus.Debug("Recálculo do ranking já está em execução, pedido descartado")
		return
	}
	defer s.finish()

	snapshot, stats, err := s.rankingService.Recompute(ctx)
	if err != nil {
		// O snapshot anterior permanece disponível; o próximo tick tenta de novo
		s.syncMutex.Lock()
		s.lastRunError = err.Error()
		s.syncMutex.Unlock()
		logrus.WithError(err).Error("Erro no recálculo do ranking, snapshot anterior mantido")
		return
	}

	s.syncMutex.Lock()
	s.lastRunError = ""
	s.recomputeGeneration++
	s.syncMutex.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastUpdate(snapshot, stats)
	}
}

func (s *RankingRecomputeService) tryStart() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}

	s.syncRunning = true
	s.lastRunStartedAt = time.Now()
	return true
}

func (s *RankingRecomputeService) finish() {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastRunCompletedAt = time.Now()
}

// GetStatus retorna o status atual do agendador
func (s *RankingRecomputeService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"enabled":               s.config.Enabled,
		"interval_seconds":      s.config.IntervalSeconds,
		"running":               s.syncRunning,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_run_error":        s.lastRunError,
		"recompute_generation":  s.recomputeGeneration,
	}
}
