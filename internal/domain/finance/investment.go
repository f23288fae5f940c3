package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Investment is an asset the user tracks. Reconciliation only reads it.
type Investment struct {
	shared.OwnedEntity
	Name         string
	Type         string
	Invested     decimal.Decimal
	CurrentValue decimal.Decimal
}

// NewInvestment creates a new investment valued at the invested amount
func NewInvestment(ownerID uuid.UUID, name, investmentType string, invested decimal.Decimal) (*Investment, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Investment name cannot be empty")
	}
	if invested.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invested amount cannot be negative")
	}
	return &Investment{
		OwnedEntity:  shared.NewOwnedEntity(ownerID),
		Name:         name,
		Type:         investmentType,
		Invested:     invested,
		CurrentValue: invested,
	}, nil
}

// Gain returns the current value minus the invested amount
func (i *Investment) Gain() decimal.Decimal {
	return i.CurrentValue.Sub(i.Invested)
}
