package ledger

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("payment not found")
	// ErrConflict is returned by Insert when the payment id or receipt
	// number is already taken.
	ErrConflict = errors.New("payment id or receipt number already exists")
	// ErrStaleStatus is returned by Update when the stored status no longer
	// matches the status the caller read.
	ErrStaleStatus = errors.New("payment status changed concurrently")
)

type Filter struct {
	Status  Status
	PayerID string
	Limit   int
	Offset  int
}

type Store interface {
	Insert(ctx context.Context, p *Payment) error
	Find(ctx context.Context, paymentID string) (*Payment, error)
	FindByPayer(ctx context.Context, payerID string) ([]*Payment, error)
	List(ctx context.Context, f Filter) ([]*Payment, int, error)

	// Update writes the lifecycle columns (status, external ref, completion
	// time) only if the stored status still equals expected.
	Update(ctx context.Context, p *Payment, expected Status) error
	MarkReceiptDelivered(ctx context.Context, paymentID string) error
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MemoryStore)(nil)
)
