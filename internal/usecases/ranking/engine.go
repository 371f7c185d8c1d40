// Package ranking contém o motor de cálculo do ranking e as consultas
// derivadas sobre o snapshot corrente.
package ranking

import (
	"sort"
	"time"

	"github.com/vfg2006/contest-ranking-api/internal/domain"
)

// ComputeSnapshot calcula um novo snapshot a partir dos candidatos elegíveis
// e do snapshot anterior. Função pura: não acessa banco nem estado global.
// As posições são 1..N na ordem votos desc, receita desc, criação asc e,
// como desempate final determinístico, id asc.
func ComputeSnapshot(candidates []*domain.Candidate, previous *domain.RankingSnapshot, now time.Time) *domain.RankingSnapshot {
	ordered := make([]*domain.Candidate, len(candidates))
	copy(ordered, candidates)

	sortCandidates(ordered)

	previousByID := make(map[string]domain.SnapshotEntry)
	if previous != nil {
		for _, entry := range previous.Entries {
			previousByID[entry.CandidateID] = entry
		}
	}

	entries := make([]domain.SnapshotEntry, 0, len(ordered))
	for i, candidate := range ordered {
		entry := domain.SnapshotEntry{
			Rank:        i + 1,
			CandidateID: candidate.ID,
			Name:        candidate.Name,
			Country:     candidate.Country,
			PhotoURL:    candidate.PhotoURL,
			Votes:       candidate.Votes,
			Revenue:     candidate.Revenue,
		}

		before, exists := previousByID[candidate.ID]
		if exists {
			entry.VoteDelta = candidate.Votes - before.Votes
			entry.RankDelta = before.Rank - entry.Rank
		}

		entries = append(entries, entry)
	}

	return &domain.RankingSnapshot{
		Entries:    entries,
		ComputedAt: now,
	}
}

func sortCandidates(candidates []*domain.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Votes != candidates[j].Votes {
			return candidates[i].Votes > candidates[j].Votes
		}
		if candidates[i].Revenue != candidates[j].Revenue {
			return candidates[i].Revenue > candidates[j].Revenue
		}
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})
}

// TopN retorna as primeiras limit entradas do snapshot, sem ultrapassar o
// tamanho do snapshot.
func TopN(snapshot *domain.RankingSnapshot, limit int) []domain.SnapshotEntry {
	if snapshot == nil || limit <= 0 {
		return []domain.SnapshotEntry{}
	}

	if limit > len(snapshot.Entries) {
		limit = len(snapshot.Entries)
	}

	entries := make([]domain.SnapshotEntry, limit)
	copy(entries, snapshot.Entries[:limit])
	return entries
}

// FilterByCountry produz um ranking independente (1..M) restrito a um país.
// As entradas do snapshot já estão na ordem global, então basta filtrar e
// renumerar as posições.
func FilterByCountry(snapshot *domain.RankingSnapshot, country string, limit int) []domain.SnapshotEntry {
	if snapshot == nil || limit <= 0 {
		return []domain.SnapshotEntry{}
	}

	entries := make([]domain.SnapshotEntry, 0)
	for _, entry := range snapshot.Entries {
		if entry.Country != country {
			continue
		}

		entry.Rank = len(entries) + 1
		entries = append(entries, entry)

		if len(entries) == limit {
			break
		}
	}

	return entries
}

// FindByCandidateID localiza a entrada de um candidato no snapshot.
// Retorna nil quando o candidato não está no conjunto elegível.
func FindByCandidateID(snapshot *domain.RankingSnapshot, candidateID string) *domain.SnapshotEntry {
	if snapshot == nil {
		return nil
	}

	for i := range snapshot.Entries {
		if snapshot.Entries[i].CandidateID == candidateID {
			entry := snapshot.Entries[i]
			return &entry
		}
	}

	return nil
}

// TightRaces varre os pares adjacentes do ranking e retorna aqueles cuja
// diferença de votos está entre 0 (exclusivo) e threshold (inclusivo),
// preservando a ordem ascendente de posição.
func TightRaces(snapshot *domain.RankingSnapshot, threshold int64, limit int) []domain.TightRace {
	races := make([]domain.TightRace, 0)
	if snapshot == nil || limit <= 0 {
		return races
	}

	for i := 0; i+1 < len(snapshot.Entries); i++ {
		leader := snapshot.Entries[i]
		chaser := snapshot.Entries[i+1]

		diff := leader.Votes - chaser.Votes
		if diff <= 0 || diff > threshold {
			continue
		}

		races = append(races, domain.TightRace{
			Rank:     leader.Rank,
			Leader:   leader,
			Chaser:   chaser,
			VoteDiff: diff,
		})

		if len(races) == limit {
			break
		}
	}

	return races
}

// RisingStars retorna os candidatos com ganho de votos desde o snapshot
// anterior, ordenados pelo ganho. Entradas com delta zero ou negativo ficam
// de fora, não apenas no fim da lista.
func RisingStars(snapshot *domain.RankingSnapshot, limit int) []domain.SnapshotEntry {
	if snapshot == nil || limit <= 0 {
		return []domain.SnapshotEntry{}
	}

	rising := make([]domain.SnapshotEntry, 0)
	for _, entry := range snapshot.Entries {
		if entry.VoteDelta > 0 {
			rising = append(rising, entry)
		}
	}

	sort.Slice(rising, func(i, j int) bool {
		if rising[i].VoteDelta != rising[j].VoteDelta {
			return rising[i].VoteDelta > rising[j].VoteDelta
		}
		return rising[i].Rank < rising[j].Rank
	})

	if limit < len(rising) {
		rising = rising[:limit]
	}

	return rising
}
