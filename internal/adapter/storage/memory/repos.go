package memory

import (
	"context"
	"fmt"
	"sort"

	"billing-core/internal/core/domain"
	"billing-core/pkg/money"

	"github.com/google/uuid"
)

// --- Currencies ---

type currencyRepo struct{ s *Store }

// Currencies returns the currency repository view of the store.
func (s *Store) Currencies() *currencyRepo { return &currencyRepo{s} }

func (r *currencyRepo) Create(ctx context.Context, c *domain.Currency) error {
	defer r.s.enter(ctx)()
	for _, existing := range r.s.d.currencies {
		if existing.Code == c.Code {
			return fmt.Errorf("currency %s already exists", c.Code)
		}
	}
	c.ID = r.s.nextID()
	r.s.d.currencies[c.ID] = *c
	return nil
}

func (r *currencyRepo) List(ctx context.Context) ([]domain.Currency, error) {
	defer r.s.enter(ctx)()
	out := make([]domain.Currency, 0, len(r.s.d.currencies))
	for _, c := range r.s.d.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *currencyRepo) GetByID(ctx context.Context, id int64) (*domain.Currency, error) {
	defer r.s.enter(ctx)()
	if c, ok := r.s.d.currencies[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *currencyRepo) GetByCode(ctx context.Context, code domain.CurrencyCode) (*domain.Currency, error) {
	defer r.s.enter(ctx)()
	for _, c := range r.s.d.currencies {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

// --- Conversion rates ---

type rateRepo struct{ s *Store }

// ConversionRates returns the conversion-rate repository view of the store.
func (s *Store) ConversionRates() *rateRepo { return &rateRepo{s} }

func (r *rateRepo) Create(ctx context.Context, cr *domain.ConversionRate) error {
	defer r.s.enter(ctx)()
	for _, existing := range r.s.d.rates {
		if existing.FromCurrencyID == cr.FromCurrencyID && existing.ToCurrencyID == cr.ToCurrencyID {
			return fmt.Errorf("conversion rate %d->%d already exists", cr.FromCurrencyID, cr.ToCurrencyID)
		}
	}
	cr.ID = r.s.nextID()
	r.s.d.rates[cr.ID] = *cr
	return nil
}

func (r *rateRepo) Update(ctx context.Context, cr *domain.ConversionRate) error {
	defer r.s.enter(ctx)()
	if _, ok := r.s.d.rates[cr.ID]; !ok {
		return fmt.Errorf("conversion rate %d not found", cr.ID)
	}
	r.s.d.rates[cr.ID] = *cr
	return nil
}

func (r *rateRepo) List(ctx context.Context) ([]domain.ConversionRate, error) {
	defer r.s.enter(ctx)()
	out := make([]domain.ConversionRate, 0, len(r.s.d.rates))
	for _, cr := range r.s.d.rates {
		out = append(out, cr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- Wallets ---

type walletRepo struct{ s *Store }

// Wallets returns the wallet repository view of the store.
func (s *Store) Wallets() *walletRepo { return &walletRepo{s} }

func (r *walletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	defer r.s.enter(ctx)()
	for _, existing := range r.s.d.wallets {
		if existing.MerchantID == w.MerchantID && existing.CurrencyID == w.CurrencyID {
			return fmt.Errorf("wallet for merchant %d currency %d already exists", w.MerchantID, w.CurrencyID)
		}
	}
	w.ID = r.s.nextID()
	r.s.d.wallets[w.ID] = *w
	return nil
}

func (r *walletRepo) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	defer r.s.enter(ctx)()
	if w, ok := r.s.d.wallets[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (r *walletRepo) GetByMerchantAndCurrency(ctx context.Context, merchantID, currencyID int64) (*domain.Wallet, error) {
	defer r.s.enter(ctx)()
	for _, w := range r.s.d.wallets {
		if w.MerchantID == merchantID && w.CurrencyID == currencyID {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *walletRepo) List(ctx context.Context) ([]domain.Wallet, error) {
	defer r.s.enter(ctx)()
	out := make([]domain.Wallet, 0, len(r.s.d.wallets))
	for _, w := range r.s.d.wallets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *walletRepo) ListByMerchant(ctx context.Context, merchantID int64) ([]domain.Wallet, error) {
	defer r.s.enter(ctx)()
	var out []domain.Wallet
	for _, w := range r.s.d.wallets {
		if w.MerchantID == merchantID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *walletRepo) GetByMerchantForUpdate(ctx context.Context, merchantID, walletID int64) (*domain.Wallet, error) {
	defer r.s.enter(ctx)()
	if w, ok := r.s.d.wallets[walletID]; ok && w.MerchantID == merchantID {
		return &w, nil
	}
	return nil, nil
}

func (r *walletRepo) UpdateAmount(ctx context.Context, walletID int64, amount money.Money) error {
	defer r.s.enter(ctx)()
	w, ok := r.s.d.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet %d not found", walletID)
	}
	w.Amount = amount
	r.s.d.wallets[walletID] = w
	return nil
}

// --- Invoices ---

type invoiceRepo struct{ s *Store }

// Invoices returns the invoice repository view of the store.
func (s *Store) Invoices() *invoiceRepo { return &invoiceRepo{s} }

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	defer r.s.enter(ctx)()
	inv.ID = r.s.nextID()
	if inv.Token == uuid.Nil {
		inv.Token = uuid.New()
	}
	if inv.Status == "" {
		inv.Status = domain.InvoiceStatusPending
	}
	r.s.d.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Invoice, error) {
	defer r.s.enter(ctx)()
	for _, inv := range r.s.d.invoices {
		if inv.Token == token {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *invoiceRepo) GetWithWalletForUpdate(ctx context.Context, invoiceID int64) (*domain.Invoice, *domain.Wallet, error) {
	defer r.s.enter(ctx)()
	inv, ok := r.s.d.invoices[invoiceID]
	if !ok {
		return nil, nil, nil
	}
	w, ok := r.s.d.wallets[inv.ToWalletID]
	if !ok {
		return nil, nil, nil
	}
	return &inv, &w, nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, invoiceID int64, status domain.InvoiceStatus) error {
	defer r.s.enter(ctx)()
	inv, ok := r.s.d.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("invoice %d not found", invoiceID)
	}
	inv.Status = status
	r.s.d.invoices[invoiceID] = inv
	return nil
}

func (r *invoiceRepo) List(ctx context.Context, merchantID *int64, offset, limit int) ([]domain.Invoice, error) {
	defer r.s.enter(ctx)()
	var all []domain.Invoice
	for _, inv := range r.s.d.invoices {
		if merchantID != nil {
			w, ok := r.s.d.wallets[inv.ToWalletID]
			if !ok || w.MerchantID != *merchantID {
				continue
			}
		}
		all = append(all, inv)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// --- Transactions ---

type transactionRepo struct{ s *Store }

// Transactions returns the transaction repository view of the store.
func (s *Store) Transactions() *transactionRepo { return &transactionRepo{s} }

func (r *transactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	defer r.s.enter(ctx)()
	t.ID = r.s.nextID()
	if t.Token == uuid.Nil {
		t.Token = uuid.New()
	}
	if t.Status == "" {
		t.Status = domain.TransactionStatusPending
	}
	r.s.d.transactions[t.ID] = cloneTransaction(*t)
	return nil
}

func (r *transactionRepo) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Transaction, error) {
	defer r.s.enter(ctx)()
	for _, t := range r.s.d.transactions {
		if t.Token == token {
			t := cloneTransaction(t)
			return &t, nil
		}
	}
	return nil, nil
}

func (r *transactionRepo) GetWithInvoiceForUpdate(ctx context.Context, transactionID int64) (*domain.Transaction, *domain.Invoice, error) {
	defer r.s.enter(ctx)()
	t, ok := r.s.d.transactions[transactionID]
	if !ok {
		return nil, nil, nil
	}
	inv, ok := r.s.d.invoices[t.InvoiceID]
	if !ok {
		return nil, nil, nil
	}
	t = cloneTransaction(t)
	return &t, &inv, nil
}

func (r *transactionRepo) ListSuccessfulForUpdate(ctx context.Context, invoiceID, excludeID int64) ([]domain.Transaction, error) {
	defer r.s.enter(ctx)()
	var out []domain.Transaction
	for _, t := range r.s.d.transactions {
		if t.InvoiceID == invoiceID && t.ID != excludeID && t.Status == domain.TransactionStatusSuccess {
			out = append(out, cloneTransaction(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, transactionID int64, status domain.TransactionStatus) error {
	defer r.s.enter(ctx)()
	t, ok := r.s.d.transactions[transactionID]
	if !ok {
		return fmt.Errorf("transaction %d not found", transactionID)
	}
	t.Status = status
	r.s.d.transactions[transactionID] = t
	return nil
}

// --- Attempts ---

type attemptRepo struct{ s *Store }

// Attempts returns the attempt repository view of the store.
func (s *Store) Attempts() *attemptRepo { return &attemptRepo{s} }

func (r *attemptRepo) Create(ctx context.Context, a *domain.Attempt) error {
	defer r.s.enter(ctx)()
	a.ID = r.s.nextID()
	if a.Token == uuid.Nil {
		a.Token = uuid.New()
	}
	if a.Status == "" {
		a.Status = domain.AttemptStatusPending
	}
	r.s.d.attempts[a.ID] = cloneAttempt(*a)
	return nil
}

func (r *attemptRepo) GetByID(ctx context.Context, id int64) (*domain.Attempt, error) {
	defer r.s.enter(ctx)()
	a, ok := r.s.d.attempts[id]
	if !ok {
		return nil, nil
	}
	a = cloneAttempt(a)
	return &a, nil
}

func (r *attemptRepo) GetPendingForUpdate(ctx context.Context, attemptID int64) (*domain.Attempt, *domain.Transaction, *domain.Invoice, error) {
	defer r.s.enter(ctx)()
	a, ok := r.s.d.attempts[attemptID]
	if !ok || a.Status != domain.AttemptStatusPending {
		return nil, nil, nil, nil
	}
	t, ok := r.s.d.transactions[a.TransactionID]
	if !ok {
		return nil, nil, nil, nil
	}
	inv, ok := r.s.d.invoices[t.InvoiceID]
	if !ok {
		return nil, nil, nil, nil
	}
	a = cloneAttempt(a)
	t = cloneTransaction(t)
	return &a, &t, &inv, nil
}

func (r *attemptRepo) UpdateStatus(ctx context.Context, attemptID int64, status domain.AttemptStatus) error {
	defer r.s.enter(ctx)()
	a, ok := r.s.d.attempts[attemptID]
	if !ok {
		return fmt.Errorf("attempt %d not found", attemptID)
	}
	a.Status = status
	r.s.d.attempts[attemptID] = a
	return nil
}

func (r *attemptRepo) UpdateResponse(ctx context.Context, attemptID int64, response []byte) error {
	defer r.s.enter(ctx)()
	a, ok := r.s.d.attempts[attemptID]
	if !ok {
		return fmt.Errorf("attempt %d not found", attemptID)
	}
	a.Response = append([]byte(nil), response...)
	r.s.d.attempts[attemptID] = a
	return nil
}

// --- Payment systems ---

type paymentSystemRepo struct{ s *Store }

// PaymentSystems returns the payment-system repository view of the store.
func (s *Store) PaymentSystems() *paymentSystemRepo { return &paymentSystemRepo{s} }

func (r *paymentSystemRepo) Create(ctx context.Context, ps *domain.PaymentSystem) error {
	defer r.s.enter(ctx)()
	ps.ID = r.s.nextID()
	r.s.d.systems[ps.ID] = *ps
	return nil
}

func (r *paymentSystemRepo) Update(ctx context.Context, ps *domain.PaymentSystem) error {
	defer r.s.enter(ctx)()
	if _, ok := r.s.d.systems[ps.ID]; !ok {
		return fmt.Errorf("payment system %d not found", ps.ID)
	}
	r.s.d.systems[ps.ID] = *ps
	return nil
}

func (r *paymentSystemRepo) List(ctx context.Context) ([]domain.PaymentSystem, error) {
	defer r.s.enter(ctx)()
	out := make([]domain.PaymentSystem, 0, len(r.s.d.systems))
	for _, ps := range r.s.d.systems {
		out = append(out, ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *paymentSystemRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentSystem, error) {
	defer r.s.enter(ctx)()
	if ps, ok := r.s.d.systems[id]; ok {
		return &ps, nil
	}
	return nil, nil
}

func (r *paymentSystemRepo) GetByIDAndType(ctx context.Context, id int64, systemType domain.PaymentSystemType) (*domain.PaymentSystem, error) {
	defer r.s.enter(ctx)()
	if ps, ok := r.s.d.systems[id]; ok && ps.SystemType == systemType {
		return &ps, nil
	}
	return nil, nil
}

// --- Accounts ---

type merchantRepo struct{ s *Store }

// Merchants returns the merchant repository view of the store.
func (s *Store) Merchants() *merchantRepo { return &merchantRepo{s} }

func (r *merchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	defer r.s.enter(ctx)()
	for _, existing := range r.s.d.merchants {
		if existing.Username == m.Username {
			return fmt.Errorf("merchant %s already exists", m.Username)
		}
	}
	m.ID = r.s.nextID()
	r.s.d.merchants[m.ID] = *m
	return nil
}

func (r *merchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	defer r.s.enter(ctx)()
	if m, ok := r.s.d.merchants[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *merchantRepo) GetByUsername(ctx context.Context, username string) (*domain.Merchant, error) {
	defer r.s.enter(ctx)()
	for _, m := range r.s.d.merchants {
		if m.Username == username {
			return &m, nil
		}
	}
	return nil, nil
}

type staffRepo struct{ s *Store }

// Staff returns the staff repository view of the store.
func (s *Store) Staff() *staffRepo { return &staffRepo{s} }

func (r *staffRepo) Create(ctx context.Context, st *domain.Staff) error {
	defer r.s.enter(ctx)()
	for _, existing := range r.s.d.staff {
		if existing.Username == st.Username {
			return fmt.Errorf("staff %s already exists", st.Username)
		}
	}
	st.ID = r.s.nextID()
	r.s.d.staff[st.ID] = *st
	return nil
}

func (r *staffRepo) GetByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	defer r.s.enter(ctx)()
	for _, st := range r.s.d.staff {
		if st.Username == username {
			return &st, nil
		}
	}
	return nil, nil
}
