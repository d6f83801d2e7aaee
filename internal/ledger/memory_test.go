package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePayment(i int, payerID string, status Status, created time.Time) *Payment {
	return &Payment{
		PaymentID:     fmt.Sprintf("PAY-%04d", i),
		ReceiptNumber: fmt.Sprintf("RCP-%04d", i),
		PayerID:       payerID,
		PayerName:     gofakeit.Name(),
		PayerEmail:    gofakeit.Email(),
		FeeCategory:   FeeCourse,
		Amount:        decimal.NewFromInt(int64(gofakeit.IntRange(100, 90000))),
		Method:        MethodUPI,
		Status:        status,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestMemoryStoreInsertUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, s.Insert(ctx, fakePayment(1, "S1", StatusPending, now)))

	dupID := fakePayment(1, "S1", StatusPending, now)
	dupID.ReceiptNumber = "RCP-OTHER"
	assert.ErrorIs(t, s.Insert(ctx, dupID), ErrConflict)

	dupReceipt := fakePayment(2, "S1", StatusPending, now)
	dupReceipt.ReceiptNumber = "RCP-0001"
	assert.ErrorIs(t, s.Insert(ctx, dupReceipt), ErrConflict)

	_, err := s.Find(ctx, "PAY-0002")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := fakePayment(1, "S1", StatusPending, time.Now().UTC())
	require.NoError(t, s.Insert(ctx, p))

	p.Status = StatusCompleted
	got, err := s.Find(ctx, p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	got.Status = StatusFailed
	again, err := s.Find(ctx, p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)
}

func TestMemoryStoreConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now().UTC()
	require.NoError(t, s.Insert(ctx, fakePayment(1, "S1", StatusPending, now)))

	p, err := s.Find(ctx, "PAY-0001")
	require.NoError(t, err)

	p.Status = StatusCompleted
	p.ExternalRef = "pay_123"
	p.CompletedAt = &now
	require.NoError(t, s.Update(ctx, p, StatusPending))

	p.Status = StatusFailed
	assert.ErrorIs(t, s.Update(ctx, p, StatusPending), ErrStaleStatus)

	got, err := s.Find(ctx, "PAY-0001")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "pay_123", got.ExternalRef)
	require.NotNil(t, got.CompletedAt)

	assert.ErrorIs(t, s.Update(ctx, &Payment{PaymentID: "PAY-404"}, StatusPending), ErrStaleStatus)
}

func TestMemoryStoreConcurrentUpdateHasOneWinner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, fakePayment(1, "S1", StatusPending, time.Now().UTC())))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := &Payment{PaymentID: "PAY-0001", Status: StatusCompleted, ExternalRef: fmt.Sprintf("ref-%d", i)}
			if err := s.Update(ctx, p, StatusPending); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestMemoryStoreListAndFindByPayer(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		payer := "S1"
		status := StatusPending
		if i%2 == 0 {
			payer = "S2"
			status = StatusCompleted
		}
		require.NoError(t, s.Insert(ctx, fakePayment(i, payer, status, base.Add(time.Duration(i)*time.Hour))))
	}

	byPayer, err := s.FindByPayer(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, byPayer, 3)
	assert.Equal(t, "PAY-0005", byPayer[0].PaymentID)
	assert.Equal(t, "PAY-0001", byPayer[2].PaymentID)

	page, total, err := s.List(ctx, Filter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "PAY-0003", page[0].PaymentID)

	completed, total, err := s.List(ctx, Filter{Status: StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, completed, 2)

	empty, total, err := s.List(ctx, Filter{Limit: 10, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, empty)
}

func TestMemoryStoreMarkReceiptDelivered(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, fakePayment(1, "S1", StatusCompleted, time.Now().UTC())))

	require.NoError(t, s.MarkReceiptDelivered(ctx, "PAY-0001"))
	got, err := s.Find(ctx, "PAY-0001")
	require.NoError(t, err)
	assert.True(t, got.ReceiptDelivered)
	assert.Equal(t, StatusCompleted, got.Status)

	assert.ErrorIs(t, s.MarkReceiptDelivered(ctx, "PAY-404"), ErrNotFound)
}
