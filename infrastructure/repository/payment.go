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
	paymentTable = "payments p"
)

type PaymentRepository interface {
	Create(ctx context.Context, record *domain.PaymentRecord) error
	GetByProviderReference(ctx context.Context, reference string) (*domain.PaymentRecord, error)
	UpdateStatusIfPending(ctx context.Context, reference string, status domain.PaymentStatus, verifiedAt time.Time) (bool, error)
}

type paymentRepository struct {
	conn *postgres.Connection
}

func NewPaymentRepository(conn *postgres.Connection) PaymentRepository {
	return &paymentRepository{
		conn: conn,
	}
}

func (r *paymentRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	query, args, err := squirrel.
		Insert("payments").
		Columns(
			"id",
			"candidate_id",
			"amount",
			"provider_reference",
			"status",
		).
		Values(
			record.ID,
			record.CandidateID,
			record.Amount,
			record.ProviderReference,
			record.Status,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar query de inserção: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetByProviderReference(ctx context.Context, reference string) (*domain.PaymentRecord, error) {
	query, args, err := squirrel.
		Select(
			"p.id",
			"p.candidate_id",
			"p.amount",
			"p.provider_reference",
			"p.status",
			"p.verified_at",
			"p.created_at",
			"p.updated_at",
		).
		From(paymentTable).
		Where(squirrel.Eq{"p.provider_reference": reference}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	record := &domain.PaymentRecord{}
	row := r.conn.QueryRow(ctx, query, args...)
	err = row.Scan(
		&record.ID,
		&record.CandidateID,
		&record.Amount,
		&record.ProviderReference,
		&record.Status,
		&record.VerifiedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear pagamento: %w", err)
	}

	return record, nil
}

// UpdateStatusIfPending aplica a transição PENDING -> status em uma única
// instrução UPDATE condicionada ao status atual. Retorna false quando o
// registro já saiu de PENDING, o que caracteriza uma confirmação repetida.
func (r *paymentRepository) UpdateStatusIfPending(ctx context.Context, reference string, status domain.PaymentStatus, verifiedAt time.Time) (bool, error) {
	queryBuilder := squirrel.
		Update("payments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{
			"provider_reference": reference,
			"status":             domain.PaymentStatusPending,
		}).
		PlaceholderFormat(squirrel.Dollar)

	if status == domain.PaymentStatusCompleted {
		queryBuilder = queryBuilder.Set("verified_at", verifiedAt)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir query de atualização: %w", err)
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao executar query de atualização: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
	}

	return affected > 0, nil
}
