package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
)

// User is the owner of every other finance entity
type User struct {
	shared.BaseEntity
	Name   string
	Email  string
	Active bool
}

// NewUser creates a new active user
func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "User email is not valid")
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      strings.ToLower(email),
		Active:     true,
	}, nil
}

// Deactivate marks the account closed. Scheduled sweeps still reconcile its data.
func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}

// Category groups transactions and budgets
type Category struct {
	shared.OwnedEntity
	Name string
	Kind TransactionKind
}

// NewCategory creates a new category
func NewCategory(ownerID uuid.UUID, name string, kind TransactionKind) (*Category, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Category kind must be income or expense")
	}
	return &Category{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Name:        name,
		Kind:        kind,
	}, nil
}
