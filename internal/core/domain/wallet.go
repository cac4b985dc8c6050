package domain

import "billing-core/pkg/money"

// Wallet holds a merchant's balance in a single currency. A merchant has at
// most one wallet per currency; the balance never goes negative.
type Wallet struct {
	ID         int64       `json:"id"`
	MerchantID int64       `json:"merchant_id"`
	CurrencyID int64       `json:"currency_id"`
	Amount     money.Money `json:"amount"`
}
