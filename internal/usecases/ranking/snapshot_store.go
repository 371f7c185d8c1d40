package ranking

import (
	"sync/atomic"
	"time"

	"github.com/vfg2006/contest-ranking-api/internal/domain"
)

// rankingState agrupa o snapshot e os agregados produzidos pela mesma
// passada de recálculo, para que sejam trocados juntos.
type rankingState struct {
	snapshot *domain.RankingSnapshot
	stats    *domain.GlobalStats
}

// SnapshotStore guarda o snapshot corrente do ranking. O snapshot novo é
// montado inteiro fora do store e entra por uma única troca atômica de
// ponteiro: leitores nunca observam um snapshot parcialmente construído.
// O único escritor é a passada de recálculo.
type SnapshotStore struct {
	current atomic.Pointer[rankingState]
}

func NewSnapshotStore() *SnapshotStore {
	store := &SnapshotStore{}
	store.current.Store(&rankingState{
		snapshot: &domain.RankingSnapshot{
			Entries:    []domain.SnapshotEntry{},
			ComputedAt: time.Time{},
		},
		stats: &domain.GlobalStats{},
	})
	return store
}

// Replace troca o snapshot corrente. Chamado exclusivamente pelo caminho de
// recálculo.
func (s *SnapshotStore) Replace(snapshot *domain.RankingSnapshot, stats *domain.GlobalStats) {
	s.current.Store(&rankingState{
		snapshot: snapshot,
		stats:    stats,
	})
}

// Current retorna o snapshot e os agregados correntes. Seguro para leitura
// concorrente sem sincronização adicional.
func (s *SnapshotStore) Current() (*domain.RankingSnapshot, *domain.GlobalStats) {
	state := s.current.Load()
	return state.snapshot, state.stats
}
