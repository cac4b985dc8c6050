package domain

// Merchant is a principal that owns wallets and issues invoices.
type Merchant struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Staff is an operator principal with read access to all merchants and the
// ability to refund.
type Staff struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// PrincipalKind distinguishes the two disjoint principal tables.
type PrincipalKind string

const (
	PrincipalMerchant PrincipalKind = "merchant"
	PrincipalStaff    PrincipalKind = "staff"
)

// Principal is an authenticated caller.
type Principal struct {
	Kind     PrincipalKind `json:"kind"`
	ID       int64         `json:"id"`
	Username string        `json:"username"`
}

// IsStaff reports whether the principal is an operator.
func (p *Principal) IsStaff() bool {
	return p.Kind == PrincipalStaff
}
