package partner

import (
	"strings"

	"github.com/stockpilot/backend/internal/domain/shared"
)

// Supplier represents a goods supplier in the partner context
type Supplier struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(200);not null;index"`
	ContactName string `gorm:"type:varchar(100)"`
	Phone       string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(200);index"`
	Address     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name string) (*Supplier, error) {
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Update updates the supplier's contact information
func (s *Supplier) Update(name, contactName, phone, email, address string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}

	s.Name = name
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.Touch()

	return nil
}

func validateSupplierName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Supplier name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Supplier name cannot exceed 200 characters")
	}
	return nil
}
