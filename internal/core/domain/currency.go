package domain

import "billing-core/pkg/money"

// CurrencyCode is an ISO 4217 currency code.
type CurrencyCode string

const (
	CurrencyUAH CurrencyCode = "UAH"
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyGBP CurrencyCode = "GBP"
)

// Currency is a supported settlement currency. Codes are unique.
type Currency struct {
	ID   int64        `json:"id"`
	Code CurrencyCode `json:"code"`
}

// ConversionRate is a directed pricing edge: one unit along from->to costs
// Rate. AllowReversed adds the implicit to->from edge weighted 1/Rate.
type ConversionRate struct {
	ID             int64       `json:"id"`
	FromCurrencyID int64       `json:"from_currency_id"`
	ToCurrencyID   int64       `json:"to_currency_id"`
	Rate           money.Money `json:"rate"`
	AllowReversed  bool        `json:"allow_reversed"`
}
