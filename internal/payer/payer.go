package payer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"feepay/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("payer not found")

// Record is the part of a student profile the payment flow needs.
type Record struct {
	ID            string `json:"student_id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	FallbackPhone string `json:"parent_phone,omitempty"`
}

type Directory interface {
	Find(ctx context.Context, payerID string) (*Record, error)
}

var (
	_ Directory = (*Repository)(nil)
	_ Directory = (*MemoryDirectory)(nil)
)

// Repository reads payers from the students table.
type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) Find(ctx context.Context, payerID string) (*Record, error) {
	var rec Record
	err := r.q.QueryRow(ctx, `
		SELECT student_id, name, COALESCE(email, ''), COALESCE(parent_phone, '')
		FROM students WHERE student_id=$1
	`, payerID).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.FallbackPhone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payer: %w", err)
	}
	return &rec, nil
}

// MemoryDirectory serves payers from a fixed set, for running without a
// database.
type MemoryDirectory struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryDirectory(records ...Record) *MemoryDirectory {
	d := &MemoryDirectory{records: make(map[string]Record, len(records))}
	for _, r := range records {
		d.records[r.ID] = r
	}
	return d
}

// LoadSeedFile reads a JSON array of records.
func LoadSeedFile(path string) (*MemoryDirectory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payer seed file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode payer seed file: %w", err)
	}
	return NewMemoryDirectory(records...), nil
}

func (d *MemoryDirectory) Add(r Record) {
	d.mu.Lock()
	d.records[r.ID] = r
	d.mu.Unlock()
}

func (d *MemoryDirectory) Find(ctx context.Context, payerID string) (*Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.records[payerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}
