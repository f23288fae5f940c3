package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money coming in from money going out
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "INCOME"
	TransactionKindExpense TransactionKind = "EXPENSE"
)

// IsValid checks if the kind is a valid TransactionKind
func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindIncome, TransactionKindExpense:
		return true
	}
	return false
}

// String returns the string representation of TransactionKind
func (k TransactionKind) String() string {
	return string(k)
}

// ParseTransactionKind accepts the kind in any letter case
func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", shared.NewDomainError("INVALID_TRANSACTION_KIND", "Transaction kind must be income or expense")
	}
	return k, nil
}

// Transaction is a single recorded movement of money.
// Transactions are source records and are never mutated by reconciliation.
type Transaction struct {
	shared.OwnedEntity
	Kind       TransactionKind
	CategoryID *uuid.UUID
	Amount     decimal.Decimal
	OccurredAt time.Time
	Note       string
}

// NewTransaction creates a new transaction
func NewTransaction(ownerID uuid.UUID, kind TransactionKind, categoryID *uuid.UUID, amount decimal.Decimal, occurredAt time.Time, note string) (*Transaction, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Transaction kind must be income or expense")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if occurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date cannot be empty")
	}

	return &Transaction{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Kind:        kind,
		CategoryID:  categoryID,
		Amount:      amount,
		OccurredAt:  occurredAt,
		Note:        note,
	}, nil
}

// TransactionFilter selects transactions for aggregation.
// CategoryID nil means every category.
type TransactionFilter struct {
	OwnerID    uuid.UUID
	Kind       TransactionKind
	CategoryID *uuid.UUID
	Period     Period
}
