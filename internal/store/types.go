// Package store defines the user-profile and transaction records and the
// narrow interface the rest of the system consumes them through. The
// concrete persistence lives in subpackages.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Profile holds the figures collected during onboarding. Created once at
// onboarding completion, read-mostly afterward.
type Profile struct {
	OwnerID        int64
	Name           string
	MonthlyIncome  decimal.Decimal
	FixedExpenses  decimal.Decimal
	VariableBudget decimal.Decimal
	SavingsGoal    decimal.Decimal
}

// Transaction is one persisted expense record. A purchase with N
// installments yields N of these, dated on successive months. Immutable once
// persisted.
type Transaction struct {
	OwnerID       int64
	OwnerName     string
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
	Category      string
}

// Store is the record-store contract. Implementations persist records in an
// external system; callers never see its storage format.
type Store interface {
	// GetProfile returns the profile for ownerID, or nil when the user has
	// not completed onboarding.
	GetProfile(ctx context.Context, ownerID int64) (*Profile, error)

	// PutProfile writes a new profile record.
	PutProfile(ctx context.Context, profile *Profile) error

	// PutTransaction writes one transaction record.
	PutTransaction(ctx context.Context, tx *Transaction) error

	// QueryTransactions returns the user's transactions most-recent-first.
	// A zero since returns everything.
	QueryTransactions(ctx context.Context, ownerID int64, since time.Time) ([]Transaction, error)
}
