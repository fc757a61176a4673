package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// WalletRepository handles data access for wallets and their ledger.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate returns the user's wallet, provisioning it idempotently on
// first access with a zero balance and a fresh referral code.
func (r *WalletRepository) GetOrCreate(userID int) (*models.Wallet, error) {
	wallet, err := r.GetByUserID(userID)
	if err == nil {
		return wallet, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	code, err := utils.GenerateReferralCode()
	if err != nil {
		return nil, err
	}
	const insertQ = `
        INSERT INTO wallets (user_id, balance, referral_code, created_at, updated_at)
        VALUES ($1, 0, $2, NOW(), NOW())
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.Exec(insertQ, userID, code); err != nil {
		return nil, err
	}
	return r.GetByUserID(userID)
}

// GetByUserID returns the wallet for a user or sql.ErrNoRows.
func (r *WalletRepository) GetByUserID(userID int) (*models.Wallet, error) {
	const q = `SELECT * FROM wallets WHERE user_id = $1 LIMIT 1`
	var w models.Wallet
	if err := r.db.Get(&w, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &w, nil
}

// Debit atomically deducts amount from the wallet and appends the ledger
// entry, guarded by the balance so two concurrent debits cannot overdraw.
// Returns ErrInsufficientFunds when the guard rejects the update.
func (r *WalletRepository) Debit(q sqlx.Ext, walletID int, amount float64, category, reference string) (*models.WalletTransaction, error) {
	const updateQ = `
        UPDATE wallets SET balance = balance - $2, updated_at = NOW()
        WHERE id = $1 AND balance >= $2
        RETURNING balance`
	var after float64
	if err := sqlx.Get(q, &after, updateQ, walletID, amount); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInsufficientFunds
		}
		return nil, err
	}

	entry := &models.WalletTransaction{
		WalletID:      walletID,
		Type:          models.WalletDebit,
		Amount:        amount,
		Category:      category,
		Reference:     reference,
		Status:        "Completed",
		BalanceBefore: after + amount,
		BalanceAfter:  after,
	}
	return entry, r.insertTransaction(q, entry)
}

// Credit atomically adds amount to the wallet and appends the ledger entry.
func (r *WalletRepository) Credit(q sqlx.Ext, walletID int, amount float64, category, reference string) (*models.WalletTransaction, error) {
	const updateQ = `
        UPDATE wallets SET balance = balance + $2, updated_at = NOW()
        WHERE id = $1
        RETURNING balance`
	var after float64
	if err := sqlx.Get(q, &after, updateQ, walletID, amount); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrWalletNotFound
		}
		return nil, err
	}

	entry := &models.WalletTransaction{
		WalletID:      walletID,
		Type:          models.WalletCredit,
		Amount:        amount,
		Category:      category,
		Reference:     reference,
		Status:        "Completed",
		BalanceBefore: after - amount,
		BalanceAfter:  after,
	}
	return entry, r.insertTransaction(q, entry)
}

func (r *WalletRepository) insertTransaction(q sqlx.Ext, entry *models.WalletTransaction) error {
	const insertQ = `
        INSERT INTO wallet_transactions (
            wallet_id, type, amount, category, reference, status,
            balance_before, balance_after, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
        RETURNING id`
	return sqlx.Get(q, &entry.ID, insertQ,
		entry.WalletID, entry.Type, entry.Amount, entry.Category,
		entry.Reference, entry.Status, entry.BalanceBefore, entry.BalanceAfter)
}

// GetTransactions returns a wallet's ledger entries, newest first, paginated.
func (r *WalletRepository) GetTransactions(walletID, page, limit int) ([]models.WalletTransaction, int, error) {
	const countQ = `SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1`
	var total int
	if err := r.db.Get(&total, countQ, walletID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	const q = `
        SELECT * FROM wallet_transactions
        WHERE wallet_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	var list []models.WalletTransaction
	if err := r.db.Select(&list, q, walletID, limit, offset); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
