package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feepay/internal/infra/dbx"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var paymentColumns = []string{
	"payment_id",
	"receipt_number",
	"payer_id",
	"payer_name",
	"payer_email",
	"payer_phone",
	"fee_category",
	"amount",
	"payment_method",
	"status",
	"transaction_id",
	"description",
	"receipt_delivered",
	"created_at",
	"completed_at",
	"updated_at",
}

// Repository is the Postgres Store.
type Repository struct {
	q  dbx.Querier
	sb squirrel.StatementBuilderType
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{
		q:  q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *Repository) Insert(ctx context.Context, p *Payment) error {
	const op = "ledger.Repository.Insert"

	sql, args, err := r.sb.Insert("payments").
		Columns(paymentColumns...).
		Values(
			p.PaymentID,
			p.ReceiptNumber,
			p.PayerID,
			p.PayerName,
			p.PayerEmail,
			p.PayerPhone,
			string(p.FeeCategory),
			p.Amount,
			string(p.Method),
			string(p.Status),
			p.ExternalRef,
			p.Description,
			p.ReceiptDelivered,
			p.CreatedAt,
			p.CompletedAt,
			p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, paymentID string) (*Payment, error) {
	const op = "ledger.Repository.Find"

	sql, args, err := r.sb.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"payment_id": paymentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	p, err := scanPayment(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return p, nil
}

func (r *Repository) FindByPayer(ctx context.Context, payerID string) ([]*Payment, error) {
	const op = "ledger.Repository.FindByPayer"

	sql, args, err := r.sb.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"payer_id": payerID}).
		OrderBy("created_at DESC", "payment_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	out := []*Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return out, nil
}

// List returns one page of payments, newest first, plus the total number of
// rows matching the filter.
func (r *Repository) List(ctx context.Context, f Filter) ([]*Payment, int, error) {
	const op = "ledger.Repository.List"

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	cols := append(append([]string{}, paymentColumns...), "COUNT(*) OVER() AS total_count")
	query := filtered(r.sb.Select(cols...).From("payments"), f)

	sql, args, err := query.
		OrderBy("created_at DESC", "payment_id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var (
		out   = []*Payment{}
		total int
	)
	for rows.Next() {
		var t int
		p, err := scanPayment(rows, &t)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: rows: %w", op, err)
	}

	// A page past the end has no rows to carry the window count.
	if len(out) == 0 && f.Offset > 0 {
		total, err = r.count(ctx, f)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
	}
	return out, total, nil
}

func (r *Repository) count(ctx context.Context, f Filter) (int, error) {
	sql, args, err := filtered(r.sb.Select("COUNT(*)").From("payments"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}

	var total int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}

func filtered(query squirrel.SelectBuilder, f Filter) squirrel.SelectBuilder {
	if f.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(f.Status)})
	}
	if f.PayerID != "" {
		query = query.Where(squirrel.Eq{"payer_id": f.PayerID})
	}
	return query
}

func (r *Repository) Update(ctx context.Context, p *Payment, expected Status) error {
	const op = "ledger.Repository.Update"

	sql, args, err := r.sb.Update("payments").
		Set("status", string(p.Status)).
		Set("transaction_id", p.ExternalRef).
		Set("completed_at", p.CompletedAt).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"payment_id": p.PaymentID}).
		Where(squirrel.Eq{"status": string(expected)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *Repository) MarkReceiptDelivered(ctx context.Context, paymentID string) error {
	const op = "ledger.Repository.MarkReceiptDelivered"

	sql, args, err := r.sb.Update("payments").
		Set("receipt_delivered", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner, extra ...any) (*Payment, error) {
	var (
		p                        Payment
		category, method, status string
	)

	dest := []any{
		&p.PaymentID,
		&p.ReceiptNumber,
		&p.PayerID,
		&p.PayerName,
		&p.PayerEmail,
		&p.PayerPhone,
		&category,
		&p.Amount,
		&method,
		&status,
		&p.ExternalRef,
		&p.Description,
		&p.ReceiptDelivered,
		&p.CreatedAt,
		&p.CompletedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.FeeCategory = FeeCategory(category)
	p.Method = Method(method)
	p.Status = Status(status)
	return &p, nil
}
