package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps payments in process memory. It is used when no database
// is configured and in tests.
type MemoryStore struct {
	sync.RWMutex
	payments map[string]*Payment
	receipts map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		payments: make(map[string]*Payment),
		receipts: make(map[string]struct{}),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, p *Payment) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.payments[p.PaymentID]; ok {
		return ErrConflict
	}
	if _, ok := s.receipts[p.ReceiptNumber]; ok {
		return ErrConflict
	}

	s.payments[p.PaymentID] = p.Clone()
	s.receipts[p.ReceiptNumber] = struct{}{}
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, paymentID string) (*Payment, error) {
	s.RLock()
	defer s.RUnlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) FindByPayer(ctx context.Context, payerID string) ([]*Payment, error) {
	out, _, err := s.List(ctx, Filter{PayerID: payerID, Limit: -1})
	return out, err
}

// List with a negative limit returns every match.
func (s *MemoryStore) List(ctx context.Context, f Filter) ([]*Payment, int, error) {
	s.RLock()
	matched := make([]*Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.PayerID != "" && p.PayerID != f.PayerID {
			continue
		}
		matched = append(matched, p.Clone())
	}
	s.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].PaymentID > matched[j].PaymentID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if f.Limit < 0 {
		return matched, total, nil
	}
	if f.Limit == 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= total {
		return []*Payment{}, total, nil
	}

	end := min(f.Offset+f.Limit, total)
	return matched[f.Offset:end], total, nil
}

func (s *MemoryStore) Update(ctx context.Context, p *Payment, expected Status) error {
	s.Lock()
	defer s.Unlock()

	cur, ok := s.payments[p.PaymentID]
	if !ok || cur.Status != expected {
		return ErrStaleStatus
	}

	next := cur.Clone()
	next.Status = p.Status
	next.ExternalRef = p.ExternalRef
	next.UpdatedAt = p.UpdatedAt
	next.CompletedAt = nil
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		next.CompletedAt = &t
	}
	s.payments[p.PaymentID] = next
	return nil
}

func (s *MemoryStore) MarkReceiptDelivered(ctx context.Context, paymentID string) error {
	s.Lock()
	defer s.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return ErrNotFound
	}
	p.ReceiptDelivered = true
	p.UpdatedAt = time.Now().UTC()
	return nil
}
