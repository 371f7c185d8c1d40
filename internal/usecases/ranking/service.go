package ranking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/contest-ranking-api/infrastructure/repository"
	"github.com/vfg2006/contest-ranking-api/internal/config"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
)

type RankingService interface {
	Recompute(ctx context.Context) (*domain.RankingSnapshot, *domain.GlobalStats, error)
	Current() (*domain.RankingSnapshot, *domain.GlobalStats)
	TopN(limit int) []domain.SnapshotEntry
	CandidateRank(candidateID string) *domain.CandidateRank
	RankingByCountry(country string, limit int) []domain.SnapshotEntry
	TightRaces(limit int) []domain.TightRace
	RisingStars(limit int) []domain.SnapshotEntry
}

type SnapshotRankingService struct {
	candidateRepo      repository.CandidateRepository
	store              *SnapshotStore
	tightRaceThreshold int64
}

func NewSnapshotRankingService(candidateRepo repository.CandidateRepository, store *SnapshotStore, cfg *config.Config) RankingService {
	return &SnapshotRankingService{
		candidateRepo:      candidateRepo,
		store:              store,
		tightRaceThreshold: cfg.RankingRecompute.TightRaceThreshold,
	}
}

// Recompute executa uma passada completa: lê os candidatos elegíveis e os
// agregados, calcula o snapshot novo contra o anterior e troca o corrente.
// Em caso de falha de leitura o snapshot anterior permanece disponível.
func (s *SnapshotRankingService) Recompute(ctx context.Context) (*domain.RankingSnapshot, *domain.GlobalStats, error) {
	candidates, err := s.candidateRepo.ListEligible(ctx, "", 0)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar candidatos elegíveis para o recálculo do ranking")
		return nil, nil, err
	}

	stats, err := s.candidateRepo.GetAggregates(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar agregados para o recálculo do ranking")
		return nil, nil, err
	}

	previous, _ := s.store.Current()
	snapshot := ComputeSnapshot(candidates, previous, time.Now())

	s.store.Replace(snapshot, stats)

	logrus.WithFields(logrus.Fields{
		"candidates": len(snapshot.Entries),
	}).Debug("Snapshot do ranking recalculado")

	return snapshot, stats, nil
}

func (s *SnapshotRankingService) Current() (*domain.RankingSnapshot, *domain.GlobalStats) {
	return s.store.Current()
}

func (s *SnapshotRankingService) TopN(limit int) []domain.SnapshotEntry {
	snapshot, _ := s.store.Current()
	return TopN(snapshot, limit)
}

func (s *SnapshotRankingService) CandidateRank(candidateID string) *domain.CandidateRank {
	snapshot, stats := s.store.Current()
	return &domain.CandidateRank{
		CandidateID: candidateID,
		Entry:       FindByCandidateID(snapshot, candidateID),
		Total:       stats.TotalCandidates,
	}
}

func (s *SnapshotRankingService) RankingByCountry(country string, limit int) []domain.SnapshotEntry {
	snapshot, _ := s.store.Current()
	return FilterByCountry(snapshot, country, limit)
}

func (s *SnapshotRankingService) TightRaces(limit int) []domain.TightRace {
	snapshot, _ := s.store.Current()
	return TightRaces(snapshot, s.tightRaceThreshold, limit)
}

func (s *SnapshotRankingService) RisingStars(limit int) []domain.SnapshotEntry {
	snapshot, _ := s.store.Current()
	return RisingStars(snapshot, limit)
}
