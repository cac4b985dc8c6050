package memory

import (
	"context"
	"strings"

	"billing-core/internal/core/domain"
	"billing-core/pkg/money"

	"github.com/fernet/fernet-go"
)

// Seed loads the default currency set, the conversion-rate table and a visa
// payment system with a freshly generated Fernet key. Dev-server and test
// bootstrap.
func Seed(ctx context.Context, s *Store) error {
	currencies := s.Currencies()
	ids := make(map[domain.CurrencyCode]int64, 4)
	for _, code := range []domain.CurrencyCode{
		domain.CurrencyUAH,
		domain.CurrencyUSD,
		domain.CurrencyEUR,
		domain.CurrencyGBP,
	} {
		c := &domain.Currency{Code: code}
		if err := currencies.Create(ctx, c); err != nil {
			return err
		}
		ids[code] = c.ID
	}

	rates := s.ConversionRates()
	seedRates := []struct {
		from, to domain.CurrencyCode
		rate     string
		reversed bool
	}{
		{domain.CurrencyUAH, domain.CurrencyUSD, "27.96", false},
		{domain.CurrencyUSD, domain.CurrencyEUR, "1.14", false},
		{domain.CurrencyUAH, domain.CurrencyGBP, "38.23", false},
		{domain.CurrencyGBP, domain.CurrencyEUR, "0.83", false},
		{domain.CurrencyUAH, domain.CurrencyEUR, "31.92", true},
	}
	for _, sr := range seedRates {
		err := rates.Create(ctx, &domain.ConversionRate{
			FromCurrencyID: ids[sr.from],
			ToCurrencyID:   ids[sr.to],
			Rate:           money.MustNew(sr.rate),
			AllowReversed:  sr.reversed,
		})
		if err != nil {
			return err
		}
	}

	var key fernet.Key
	if err := key.Generate(); err != nil {
		return err
	}
	return s.PaymentSystems().Create(ctx, &domain.PaymentSystem{
		Name:          "visa",
		SystemType:    domain.PaymentSystemVisa,
		DecryptionKey: strings.TrimSpace(key.Encode()),
	})
}
