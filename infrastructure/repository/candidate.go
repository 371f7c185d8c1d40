// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/contest-ranking-api/infrastructure/database/postgres"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
)

const (
	candidateTable = "candidates c"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	ListEligible(ctx context.Context, country string, limit uint64) ([]*domain.Candidate, error)
	GetAggregates(ctx context.Context) (*domain.GlobalStats, error)
	IncrementVote(ctx context.Context, candidateID string, price int64) error
}

type candidateRepository struct {
	conn *postgres.Connection
}

func NewCandidateRepository(conn *postgres.Connection) CandidateRepository {
	return &candidateRepository{
		conn: conn,
	}
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query, args, err := squirrel.
		Select(candidateColumns()...).
		From(candidateTable).
		Where(squirrel.Eq{"c.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	candidate, err := r.scanCandidateRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear candidato: %w", err)
	}
	return candidate, nil
}

// ListEligible retorna os candidatos aprovados já ordenados pela chave do
// ranking: votos desc, receita desc, data de criação asc, id asc.
func (r *candidateRepository) ListEligible(ctx context.Context, country string, limit uint64) ([]*domain.Candidate, error) {
	queryBuilder := squirrel.
		Select(candidateColumns()...).
		From(candidateTable).
		Where(squirrel.Eq{"c.approved": true}).
		OrderBy("c.votes DESC", "c.revenue DESC", "c.created_at ASC", "c.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if country != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"c.country": country})
	}

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	candidates := make([]*domain.Candidate, 0)
	for rows.Next() {
		candidate, err := r.scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear candidato: %w", err)
		}
		candidates = append(candidates, candidate)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return candidates, nil
}

func (r *candidateRepository) GetAggregates(ctx context.Context) (*domain.GlobalStats, error) {
	query, args, err := squirrel.
		Select(
			"COUNT(*)",
			"COALESCE(SUM(c.votes), 0)",
			"COALESCE(SUM(c.revenue), 0)",
		).
		From(candidateTable).
		Where(squirrel.Eq{"c.approved": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	stats := &domain.GlobalStats{}
	row := r.conn.QueryRow(ctx, query, args...)
	if err := row.Scan(&stats.TotalCandidates, &stats.TotalVotes, &stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("erro ao escanear agregados: %w", err)
	}

	stats.UpdatedAt = time.Now()
	return stats, nil
}

// IncrementVote soma um voto e a receita correspondente em uma única
// instrução UPDATE, atômica por linha no PostgreSQL.
func (r *candidateRepository) IncrementVote(ctx context.Context, candidateID string, price int64) error {
	query, args, err := squirrel.
		Update("candidates").
		Set("votes", squirrel.Expr("votes + 1")).
		Set("revenue", squirrel.Expr("revenue + ?", price)).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": candidateID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de incremento: %w", err)
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar query de incremento: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("candidato não encontrado para incremento: %s", candidateID)
	}

	return nil
}

func candidateColumns() []string {
	return []string{
		"c.id",
		"c.name",
		"c.country",
		"c.photo_url",
		"c.video_url",
		"c.votes",
		"c.revenue",
		"c.view_count",
		"c.share_count",
		"c.approved",
		"c.created_at",
		"c.updated_at",
	}
}

func (r *candidateRepository) scanCandidate(rows *sql.Rows) (*domain.Candidate, error) {
	candidate := &domain.Candidate{}

	err := rows.Scan(
		&candidate.ID,
		&candidate.Name,
		&candidate.Country,
		&candidate.PhotoURL,
		&candidate.VideoURL,
		&candidate.Votes,
		&candidate.Revenue,
		&candidate.ViewCount,
		&candidate.ShareCount,
		&candidate.Approved,
		&candidate.CreatedAt,
		&candidate.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return candidate, nil
}

func (r *candidateRepository) scanCandidateRow(row *sql.Row) (*domain.Candidate, error) {
	candidate := &domain.Candidate{}

	err := row.Scan(
		&candidate.ID,
		&candidate.Name,
		&candidate.Country,
		&candidate.PhotoURL,
		&candidate.VideoURL,
		&candidate.Votes,
		&candidate.Revenue,
		&candidate.ViewCount,
		&candidate.ShareCount,
		&candidate.Approved,
		&candidate.CreatedAt,
		&candidate.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return candidate, nil
}
