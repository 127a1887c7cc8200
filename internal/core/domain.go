package core

import (
	"errors"
	"strings"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType is the direction of a transaction: income or expense.
	TxType string

	// User is a registered account. Credentials are stored as a random
	// salt plus the derived hash, never the raw password.
	User struct {
		ID           int64
		Username     string
		Salt         []byte
		PasswordHash []byte
		CreatedAt    string
	}

	// Transaction is a single dated income or expense entry owned by a user.
	Transaction struct {
		ID       int64
		UserID   int64
		Type     TxType
		Category string
		Amount   Money
		Date     Date
		Note     string
	}

	// Budget is a monthly spending limit for one category. The triple
	// (UserID, Category, Month) is unique; setting it again overwrites
	// the limit.
	Budget struct {
		ID       int64
		UserID   int64
		Category string
		Month    Month
		Limit    Money
	}

	// Totals holds income and expense sums for a period.
	Totals struct {
		Income  Money
		Expense Money
	}

	// Report is a period summary. Savings may be negative.
	Report struct {
		Income  Money
		Expense Money
		Savings Money
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth  = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyUsername = errors.New("empty username")
	ErrEmptyPassword = errors.New("empty password")
	ErrUsernameTaken = errors.New("username already exists")
)

// ParseTxType validates a raw transaction type string.
func ParseTxType(s string) (TxType, error) {
	switch TxType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrInvalidType
	}
}

func (t TxType) Validate() error {
	if t != Income && t != Expense {
		return ErrInvalidType
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	return tx.Date.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	return b.Month.Validate()
}

// TransactionPatch is a partial update of a transaction. Nil fields are
// left untouched; the set of updatable fields is exactly the fields below.
type TransactionPatch struct {
	Type     *TxType
	Category *string
	Amount   *Money
	Date     *Date
	Note     *string
}

// IsEmpty reports whether the patch changes nothing. Applying an empty
// patch is a legal no-op.
func (p TransactionPatch) IsEmpty() bool {
	return p.Type == nil && p.Category == nil && p.Amount == nil && p.Date == nil && p.Note == nil
}

func (p TransactionPatch) Validate() error {
	if p.Type != nil {
		if err := p.Type.Validate(); err != nil {
			return err
		}
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Amount != nil {
		if err := p.Amount.Validate(); err != nil {
			return err
		}
	}
	if p.Date != nil {
		if err := p.Date.Validate(); err != nil {
			return err
		}
	}
	return nil
}
