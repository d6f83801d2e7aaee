package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func paymentRow(p *Payment) []any {
	return []any{
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
	}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestRepositoryInsert(t *testing.T) {
	repo, mock := newMockRepository(t)
	p := fakePayment(1, "S1", StatusVerificationPending, time.Now().UTC())

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(anyArgs(len(paymentColumns))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Insert(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryInsertUniqueViolation(t *testing.T) {
	repo, mock := newMockRepository(t)
	p := fakePayment(1, "S1", StatusPending, time.Now().UTC())

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(anyArgs(len(paymentColumns))...).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, repo.Insert(context.Background(), p), ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFind(t *testing.T) {
	created := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	completed := created.Add(time.Hour)

	testCases := []struct {
		desc    string
		rows    func() *pgxmock.Rows
		wantErr error
		check   func(t *testing.T, p *Payment)
	}{
		{
			desc: "Completed",
			rows: func() *pgxmock.Rows {
				p := fakePayment(7, "S9", StatusCompleted, created)
				p.Amount = decimal.RequireFromString("1200.50")
				p.ExternalRef = "pay_abc"
				p.CompletedAt = &completed
				return pgxmock.NewRows(paymentColumns).AddRow(paymentRow(p)...)
			},
			check: func(t *testing.T, p *Payment) {
				assert.Equal(t, "PAY-0007", p.PaymentID)
				assert.Equal(t, StatusCompleted, p.Status)
				assert.Equal(t, FeeCourse, p.FeeCategory)
				assert.Equal(t, MethodUPI, p.Method)
				assert.True(t, decimal.RequireFromString("1200.50").Equal(p.Amount))
				require.NotNil(t, p.CompletedAt)
				assert.Equal(t, completed, *p.CompletedAt)
			},
		},
		{
			desc:    "Missing",
			rows:    func() *pgxmock.Rows { return pgxmock.NewRows(paymentColumns) },
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			mock.ExpectQuery(`FROM payments WHERE payment_id = \$1`).
				WithArgs("PAY-0007").
				WillReturnRows(tc.rows())

			p, err := repo.Find(context.Background(), "PAY-0007")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				tc.check(t, p)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryFindByPayer(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM payments WHERE payer_id = \$1 ORDER BY created_at DESC`).
		WithArgs("S1").
		WillReturnRows(pgxmock.NewRows(paymentColumns).
			AddRow(paymentRow(fakePayment(2, "S1", StatusPending, now))...).
			AddRow(paymentRow(fakePayment(1, "S1", StatusCompleted, now.Add(-time.Hour)))...))

	out, err := repo.FindByPayer(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "PAY-0002", out[0].PaymentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryList(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()
	cols := append(append([]string{}, paymentColumns...), "total_count")

	mock.ExpectQuery(`COUNT\(\*\) OVER\(\) AS total_count FROM payments WHERE status = \$1 ORDER BY created_at DESC, payment_id DESC LIMIT 2 OFFSET 4`).
		WithArgs("Completed").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(append(paymentRow(fakePayment(5, "S1", StatusCompleted, now)), 9)...).
			AddRow(append(paymentRow(fakePayment(4, "S2", StatusCompleted, now)), 9)...))

	out, total, err := repo.List(context.Background(), Filter{Status: StatusCompleted, Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, 9, total)
	assert.Len(t, out, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListTotalPastLastPage(t *testing.T) {
	cols := append(append([]string{}, paymentColumns...), "total_count")

	testCases := []struct {
		desc      string
		filter    Filter
		pageQuery string
		countArgs []any
		count     int
		wantTotal int
	}{
		{
			desc:      "Unfiltered",
			filter:    Filter{Limit: 20, Offset: 100},
			pageQuery: `FROM payments ORDER BY created_at DESC, payment_id DESC LIMIT 20 OFFSET 100`,
			count:     7,
			wantTotal: 7,
		},
		{
			desc:      "ByPayer",
			filter:    Filter{PayerID: "S1", Limit: 5, Offset: 10},
			pageQuery: `FROM payments WHERE payer_id = \$1 ORDER BY created_at DESC, payment_id DESC LIMIT 5 OFFSET 10`,
			countArgs: []any{"S1"},
			count:     3,
			wantTotal: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			mock.ExpectQuery(tc.pageQuery).
				WithArgs(tc.countArgs...).
				WillReturnRows(pgxmock.NewRows(cols))
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
				WithArgs(tc.countArgs...).
				WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(tc.count))

			out, total, err := repo.List(context.Background(), tc.filter)
			require.NoError(t, err)
			assert.Empty(t, out)
			assert.Equal(t, tc.wantTotal, total)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryListEmptyFirstPage(t *testing.T) {
	repo, mock := newMockRepository(t)
	cols := append(append([]string{}, paymentColumns...), "total_count")

	mock.ExpectQuery(`FROM payments WHERE status = \$1`).
		WithArgs("Refunded").
		WillReturnRows(pgxmock.NewRows(cols))

	out, total, err := repo.List(context.Background(), Filter{Status: StatusRefunded})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdate(t *testing.T) {
	testCases := []struct {
		desc     string
		affected int64
		execErr  error
		wantErr  error
	}{
		{desc: "Applied", affected: 1},
		{desc: "StatusMoved", affected: 0, wantErr: ErrStaleStatus},
		{desc: "DatabaseDown", execErr: errors.New("conn refused")},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			now := time.Now().UTC()
			p := fakePayment(1, "S1", StatusCompleted, now)
			p.CompletedAt = &now
			p.ExternalRef = "UTR123"

			args := append(anyArgs(4), "PAY-0001", "Pending")
			exp := mock.ExpectExec(`UPDATE payments SET status = \$1, transaction_id = \$2, completed_at = \$3, updated_at = \$4 WHERE payment_id = \$5 AND status = \$6`).
				WithArgs(args...)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("UPDATE", tc.affected))
			}

			err := repo.Update(context.Background(), p, StatusPending)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.execErr != nil:
				assert.ErrorIs(t, err, tc.execErr)
			default:
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryMarkReceiptDelivered(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE payments SET receipt_delivered = \$1, updated_at = \$2 WHERE payment_id = \$3`).
		WithArgs(true, pgxmock.AnyArg(), "PAY-0001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE payments SET receipt_delivered`).
		WithArgs(true, pgxmock.AnyArg(), "PAY-404").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.MarkReceiptDelivered(context.Background(), "PAY-0001"))
	assert.ErrorIs(t, repo.MarkReceiptDelivered(context.Background(), "PAY-404"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
