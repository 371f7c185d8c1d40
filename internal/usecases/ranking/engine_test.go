package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
)

var (
	baseTime    = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	computeTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
)

func candidate(id string, votes, revenue int64, createdAt time.Time) *domain.Candidate {
	return &domain.Candidate{
		ID:        id,
		Name:      "Candidato " + id,
		Country:   "BR",
		Votes:     votes,
		Revenue:   revenue,
		Approved:  true,
		CreatedAt: createdAt,
	}
}

func TestComputeSnapshot_Ordering(t *testing.T) {
	tests := []struct {
		name       string
		candidates []*domain.Candidate
		expected   []string
	}{
		{
			name: "Mais votos vence independente da receita",
			candidates: []*domain.Candidate{
				candidate("B", 100, 9500, baseTime),
				candidate("A", 100, 10000, baseTime),
				candidate("C", 95, 20000, baseTime),
			},
			expected: []string{"A", "B", "C"},
		},
		{
			name: "Empate de votos resolve por receita",
			candidates: []*domain.Candidate{
				candidate("X", 50, 1000, baseTime),
				candidate("Y", 50, 2000, baseTime),
			},
			expected: []string{"Y", "X"},
		},
		{
			name: "Empate de votos e receita resolve pela data de criação",
			candidates: []*domain.Candidate{
				candidate("novo", 50, 1000, baseTime.Add(48*time.Hour)),
				candidate("velho", 50, 1000, baseTime),
			},
			expected: []string{"velho", "novo"},
		},
		{
			name: "Empate total resolve pelo id",
			candidates: []*domain.Candidate{
				candidate("zz", 50, 1000, baseTime),
				candidate("aa", 50, 1000, baseTime),
			},
			expected: []string{"aa", "zz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := ComputeSnapshot(tt.candidates, nil, computeTime)

			assert.Len(t, snapshot.Entries, len(tt.expected))
			for i, id := range tt.expected {
				assert.Equal(t, id, snapshot.Entries[i].CandidateID)
				assert.Equal(t, i+1, snapshot.Entries[i].Rank)
			}
			assert.Equal(t, computeTime, snapshot.ComputedAt)
		})
	}
}

func TestComputeSnapshot_PosicoesContiguas(t *testing.T) {
	candidates := make([]*domain.Candidate, 0, 50)
	for i := 0; i < 50; i++ {
		candidates = append(candidates, candidate(
			fmt.Sprintf("cand-%02d", i),
			int64(i%7)*10,
			int64(i%3)*100,
			baseTime.Add(time.Duration(i)*time.Minute),
		))
	}

	snapshot := ComputeSnapshot(candidates, nil, computeTime)

	assert.Len(t, snapshot.Entries, 50)
	for i, entry := range snapshot.Entries {
		assert.Equal(t, i+1, entry.Rank, "posição deve ser contígua de 1 a N")
	}
}

func TestComputeSnapshot_Deltas(t *testing.T) {
	previous := ComputeSnapshot([]*domain.Candidate{
		candidate("A", 100, 10000, baseTime),
		candidate("B", 100, 9500, baseTime),
		candidate("C", 95, 20000, baseTime),
	}, nil, computeTime)

	tests := []struct {
		name     string
		current  []*domain.Candidate
		validate func(t *testing.T, snapshot *domain.RankingSnapshot)
	}{
		{
			name: "Ganho de votos sem mudança de posição",
			current: []*domain.Candidate{
				candidate("A", 100, 10000, baseTime),
				candidate("B", 100, 9500, baseTime),
				candidate("C", 96, 20000, baseTime),
			},
			validate: func(t *testing.T, snapshot *domain.RankingSnapshot) {
				c := snapshot.Entries[2]
				assert.Equal(t, "C", c.CandidateID)
				assert.Equal(t, 3, c.Rank)
				assert.Equal(t, int64(1), c.VoteDelta)
				assert.Equal(t, 0, c.RankDelta)
			},
		},
		{
			name: "Ultrapassagem gera delta positivo para quem sobe e negativo para quem cai",
			current: []*domain.Candidate{
				candidate("A", 100, 10000, baseTime),
				candidate("B", 100, 9500, baseTime),
				candidate("C", 101, 20000, baseTime),
			},
			validate: func(t *testing.T, snapshot *domain.RankingSnapshot) {
				assert.Equal(t, "C", snapshot.Entries[0].CandidateID)
				assert.Equal(t, 2, snapshot.Entries[0].RankDelta)
				assert.Equal(t, int64(6), snapshot.Entries[0].VoteDelta)

				assert.Equal(t, "A", snapshot.Entries[1].CandidateID)
				assert.Equal(t, -1, snapshot.Entries[1].RankDelta)

				assert.Equal(t, "B", snapshot.Entries[2].CandidateID)
				assert.Equal(t, -1, snapshot.Entries[2].RankDelta)
			},
		},
		{
			name: "Candidato novo entra com deltas zerados",
			current: []*domain.Candidate{
				candidate("A", 100, 10000, baseTime),
				candidate("B", 100, 9500, baseTime),
				candidate("C", 95, 20000, baseTime),
				candidate("D", 200, 0, baseTime),
			},
			validate: func(t *testing.T, snapshot *domain.RankingSnapshot) {
				d := snapshot.Entries[0]
				assert.Equal(t, "D", d.CandidateID)
				assert.Equal(t, 1, d.Rank)
				assert.Equal(t, int64(0), d.VoteDelta)
				assert.Equal(t, 0, d.RankDelta)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := ComputeSnapshot(tt.current, previous, computeTime)
			tt.validate(t, snapshot)
		})
	}
}

func TestTopN(t *testing.T) {
	candidates := make([]*domain.Candidate, 0, 10)
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(
			fmt.Sprintf("cand-%02d", i),
			int64(100-i),
			0,
			baseTime,
		))
	}
	snapshot := ComputeSnapshot(candidates, nil, computeTime)

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "Top 3 de 10 candidatos", limit: 3, expected: 3},
		{name: "Limite maior que o snapshot retorna tudo", limit: 50, expected: 10},
		{name: "Limite zero retorna lista vazia", limit: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := TopN(snapshot, tt.limit)

			assert.Len(t, top, tt.expected)
			for i, entry := range top {
				assert.Equal(t, snapshot.Entries[i].CandidateID, entry.CandidateID)
				assert.Equal(t, i+1, entry.Rank)
			}
		})
	}

	t.Run("Snapshot nulo retorna lista vazia", func(t *testing.T) {
		assert.Empty(t, TopN(nil, 10))
	})
}

func TestFilterByCountry(t *testing.T) {
	br1 := candidate("br1", 100, 0, baseTime)
	us1 := candidate("us1", 90, 0, baseTime)
	us1.Country = "US"
	br2 := candidate("br2", 80, 0, baseTime)
	us2 := candidate("us2", 70, 0, baseTime)
	us2.Country = "US"

	snapshot := ComputeSnapshot([]*domain.Candidate{br1, us1, br2, us2}, nil, computeTime)

	t.Run("Ranking por país renumera as posições a partir de 1", func(t *testing.T) {
		entries := FilterByCountry(snapshot, "US", 10)

		assert.Len(t, entries, 2)
		assert.Equal(t, "us1", entries[0].CandidateID)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, "us2", entries[1].CandidateID)
		assert.Equal(t, 2, entries[1].Rank)
	})

	t.Run("Limite corta a lista do país", func(t *testing.T) {
		entries := FilterByCountry(snapshot, "BR", 1)

		assert.Len(t, entries, 1)
		assert.Equal(t, "br1", entries[0].CandidateID)
	})

	t.Run("País sem candidatos retorna lista vazia", func(t *testing.T) {
		assert.Empty(t, FilterByCountry(snapshot, "FR", 10))
	})
}

func TestFindByCandidateID(t *testing.T) {
	snapshot := ComputeSnapshot([]*domain.Candidate{
		candidate("A", 100, 0, baseTime),
		candidate("B", 90, 0, baseTime),
	}, nil, computeTime)

	t.Run("Candidato presente retorna a entrada com a posição", func(t *testing.T) {
		entry := FindByCandidateID(snapshot, "B")

		assert.NotNil(t, entry)
		assert.Equal(t, 2, entry.Rank)
		assert.Equal(t, "B", entry.CandidateID)
	})

	t.Run("Candidato ausente retorna nil", func(t *testing.T) {
		assert.Nil(t, FindByCandidateID(snapshot, "desconhecido"))
	})

	t.Run("Entrada retornada é uma cópia", func(t *testing.T) {
		entry := FindByCandidateID(snapshot, "A")
		entry.Votes = 0

		assert.Equal(t, int64(100), snapshot.Entries[0].Votes)
	})
}

func TestTightRaces(t *testing.T) {
	snapshot := ComputeSnapshot([]*domain.Candidate{
		candidate("A", 1000, 0, baseTime), // diff A-B = 5 (apertada)
		candidate("B", 995, 0, baseTime),  // diff B-C = 200
		candidate("C", 795, 0, baseTime),  // diff C-D = 10 (no limiar)
		candidate("D", 785, 0, baseTime),  // diff D-E = 11 (fora)
		candidate("E", 774, 0, baseTime),
	}, nil, computeTime)

	t.Run("Só pares com diferença entre 1 e o limiar, em ordem de posição", func(t *testing.T) {
		races := TightRaces(snapshot, 10, 20)

		assert.Len(t, races, 2)

		assert.Equal(t, 1, races[0].Rank)
		assert.Equal(t, "A", races[0].Leader.CandidateID)
		assert.Equal(t, "B", races[0].Chaser.CandidateID)
		assert.Equal(t, int64(5), races[0].VoteDiff)

		assert.Equal(t, 3, races[1].Rank)
		assert.Equal(t, "C", races[1].Leader.CandidateID)
		assert.Equal(t, "D", races[1].Chaser.CandidateID)
		assert.Equal(t, int64(10), races[1].VoteDiff)
	})

	t.Run("Empate exato não é disputa apertada", func(t *testing.T) {
		tied := ComputeSnapshot([]*domain.Candidate{
			candidate("A", 100, 200, baseTime),
			candidate("B", 100, 100, baseTime),
		}, nil, computeTime)

		assert.Empty(t, TightRaces(tied, 10, 20))
	})

	t.Run("Limite corta a lista de disputas", func(t *testing.T) {
		races := TightRaces(snapshot, 10, 1)

		assert.Len(t, races, 1)
		assert.Equal(t, 1, races[0].Rank)
	})
}

func TestRisingStars(t *testing.T) {
	previous := ComputeSnapshot([]*domain.Candidate{
		candidate("A", 100, 0, baseTime),
		candidate("B", 90, 0, baseTime),
		candidate("C", 80, 0, baseTime),
		candidate("D", 70, 0, baseTime),
	}, nil, computeTime)

	current := ComputeSnapshot([]*domain.Candidate{
		candidate("A", 100, 0, baseTime), // delta 0
		candidate("B", 95, 0, baseTime),  // delta +5
		candidate("C", 92, 0, baseTime),  // delta +12
		candidate("D", 70, 0, baseTime),  // delta 0
	}, previous, computeTime)

	t.Run("Sem ganho de votos fica fora da lista", func(t *testing.T) {
		rising := RisingStars(current, 10)

		assert.Len(t, rising, 2)
		assert.Equal(t, "C", rising[0].CandidateID)
		assert.Equal(t, int64(12), rising[0].VoteDelta)
		assert.Equal(t, "B", rising[1].CandidateID)
		assert.Equal(t, int64(5), rising[1].VoteDelta)
	})

	t.Run("Limite corta a lista já ordenada por ganho", func(t *testing.T) {
		rising := RisingStars(current, 1)

		assert.Len(t, rising, 1)
		assert.Equal(t, "C", rising[0].CandidateID)
	})

	t.Run("Primeiro snapshot não tem estrelas em ascensão", func(t *testing.T) {
		assert.Empty(t, RisingStars(previous, 10))
	})
}
