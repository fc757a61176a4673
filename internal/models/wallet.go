package models

import "time"

// WalletTxType enumerates ledger entry directions.
type WalletTxType string

const (
	WalletCredit WalletTxType = "CREDIT"
	WalletDebit  WalletTxType = "DEBIT"
)

// Wallet transaction categories.
const (
	WalletCategoryPayment  = "ORDER_PAYMENT"
	WalletCategoryRefund   = "ORDER_REFUND"
	WalletCategoryReferral = "REFERRAL_BONUS"
)

// Wallet holds one user's running balance. The balance always equals the
// balanceAfter of the latest ledger entry (or 0 with no entries) and
// never goes negative.
type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"userId"`
	Balance      float64   `db:"balance" json:"balance"`
	ReferralCode string    `db:"referral_code" json:"referralCode"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// WalletTransaction is one immutable, append-only ledger entry.
// balanceAfter = balanceBefore + amount for credits, - amount for debits.
type WalletTransaction struct {
	ID            int          `db:"id" json:"id"`
	WalletID      int          `db:"wallet_id" json:"-"`
	Type          WalletTxType `db:"type" json:"type"`
	Amount        float64      `db:"amount" json:"amount"`
	Category      string       `db:"category" json:"category"`
	Reference     string       `db:"reference" json:"reference"`
	Status        string       `db:"status" json:"status"`
	BalanceBefore float64      `db:"balance_before" json:"balanceBefore"`
	BalanceAfter  float64      `db:"balance_after" json:"balanceAfter"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
}
