package ranking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
)

func TestSnapshotStore_EstadoInicial(t *testing.T) {
	store := NewSnapshotStore()

	snapshot, stats := store.Current()

	assert.NotNil(t, snapshot)
	assert.NotNil(t, stats)
	assert.Empty(t, snapshot.Entries)
	assert.True(t, snapshot.ComputedAt.IsZero())
	assert.Equal(t, int64(0), stats.TotalVotes)
}

func TestSnapshotStore_Replace(t *testing.T) {
	store := NewSnapshotStore()

	snapshot := &domain.RankingSnapshot{
		Entries: []domain.SnapshotEntry{
			{Rank: 1, CandidateID: "A", Votes: 100},
		},
		ComputedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	stats := &domain.GlobalStats{TotalCandidates: 1, TotalVotes: 100}

	store.Replace(snapshot, stats)

	got, gotStats := store.Current()
	assert.Equal(t, snapshot, got)
	assert.Equal(t, stats, gotStats)
}

func TestSnapshotStore_LeituraConcorrenteDuranteTroca(t *testing.T) {
	store := NewSnapshotStore()

	done := make(chan struct{})
	var wg sync.WaitGroup

	// Escritor único, como no caminho de recálculo.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			entries := make([]domain.SnapshotEntry, 0, i%10)
			for j := 0; j < i%10; j++ {
				entries = append(entries, domain.SnapshotEntry{Rank: j + 1, CandidateID: "cand", Votes: int64(i)})
			}
			store.Replace(
				&domain.RankingSnapshot{Entries: entries, ComputedAt: time.Now()},
				&domain.GlobalStats{TotalCandidates: int64(len(entries))},
			)
		}
		close(done)
	}()

	// Leitores nunca devem observar estado nulo ou inconsistente entre
	// snapshot e agregados da mesma troca.
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				snapshot, stats := store.Current()
				assert.NotNil(t, snapshot)
				assert.NotNil(t, stats)
				assert.Equal(t, stats.TotalCandidates, int64(len(snapshot.Entries)))
			}
		}()
	}

	wg.Wait()
}
