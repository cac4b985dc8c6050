// Package memory implements the repository ports on in-process maps. One
// mutex serializes scopes, which trivially satisfies the SERIALIZABLE
// contract; rollback restores a snapshot taken at scope entry. It backs the
// service tests and the dev server.
package memory

import (
	"context"
	"sync"

	"billing-core/internal/core/domain"
)

type scopeKeyType struct{}

var scopeKey scopeKeyType

// Store owns all tables and implements ports.Store.
type Store struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	currencies   map[int64]domain.Currency
	rates        map[int64]domain.ConversionRate
	wallets      map[int64]domain.Wallet
	invoices     map[int64]domain.Invoice
	transactions map[int64]domain.Transaction
	attempts     map[int64]domain.Attempt
	systems      map[int64]domain.PaymentSystem
	merchants    map[int64]domain.Merchant
	staff        map[int64]domain.Staff
	seq          int64
}

func newData() *data {
	return &data{
		currencies:   make(map[int64]domain.Currency),
		rates:        make(map[int64]domain.ConversionRate),
		wallets:      make(map[int64]domain.Wallet),
		invoices:     make(map[int64]domain.Invoice),
		transactions: make(map[int64]domain.Transaction),
		attempts:     make(map[int64]domain.Attempt),
		systems:      make(map[int64]domain.PaymentSystem),
		merchants:    make(map[int64]domain.Merchant),
		staff:        make(map[int64]domain.Staff),
	}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{d: newData()}
}

// WithinScope implements ports.Store. Nested calls reuse the ambient scope.
func (s *Store) WithinScope(ctx context.Context, fn func(ctx context.Context) error) error {
	if inScope(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	err := fn(context.WithValue(ctx, scopeKey, true))
	if err != nil {
		s.d = snapshot
	}
	return err
}

func inScope(ctx context.Context) bool {
	v, _ := ctx.Value(scopeKey).(bool)
	return v
}

// enter takes the store lock for a bare repository call. Calls already
// running inside a scope hold the lock via WithinScope.
func (s *Store) enter(ctx context.Context) func() {
	if inScope(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// nextID allocates an id. Caller must hold the store lock.
func (s *Store) nextID() int64 {
	s.d.seq++
	return s.d.seq
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.currencies {
		c.currencies[k] = v
	}
	for k, v := range d.rates {
		c.rates[k] = v
	}
	for k, v := range d.wallets {
		c.wallets[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = cloneTransaction(v)
	}
	for k, v := range d.attempts {
		c.attempts[k] = cloneAttempt(v)
	}
	for k, v := range d.systems {
		c.systems[k] = v
	}
	for k, v := range d.merchants {
		c.merchants[k] = v
	}
	for k, v := range d.staff {
		c.staff[k] = v
	}
	c.seq = d.seq
	return c
}

func cloneTransaction(t domain.Transaction) domain.Transaction {
	if t.FromWalletID != nil {
		id := *t.FromWalletID
		t.FromWalletID = &id
	}
	return t
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	if a.Response != nil {
		a.Response = append([]byte(nil), a.Response...)
	}
	return a
}
