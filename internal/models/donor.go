package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Donor is a person or organization that gives to the foundation.
type Donor struct {
	ID                  string                               `gorm:"primaryKey;size:20" json:"id"`
	FullName            string                               `gorm:"size:200;not null" json:"full_name"`
	DonorType           string                               `gorm:"size:20;not null;default:Individual" json:"donor_type"`
	Phone               string                               `gorm:"size:20;not null;uniqueIndex:idx_donors_phone_active,where:deleted_at IS NULL" json:"phone"`
	Email               *string                              `gorm:"size:200;uniqueIndex:idx_donors_email_active,where:deleted_at IS NULL" json:"email"`
	Address             *string                              `gorm:"type:text" json:"address"`
	IdentityProofType   *string                              `gorm:"size:30" json:"identity_proof_type"`
	IdentityProofNumber *string                              `gorm:"size:50" json:"identity_proof_number"`
	AnticipatedAmount   decimal.Decimal                      `gorm:"type:decimal(15,2);not null;default:0" json:"anticipated_amount"`
	Status              string                               `gorm:"size:20;not null;default:Active;index" json:"status"`
	TotalDonations      int64                                `gorm:"not null;default:0" json:"total_donations"`
	TotalAmount         decimal.Decimal                      `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Preferences         datatypes.JSONType[DonorPreferences] `json:"preferences"`
	Notes               *string                              `gorm:"type:text" json:"notes"`
	CreatedBy           string                               `gorm:"size:50" json:"created_by"`
	DisabledAt          *time.Time                           `json:"disabled_at"`
	DeletedAt           *time.Time                           `gorm:"index" json:"deleted_at"`
	CreatedAt           time.Time                            `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time                            `json:"updated_at"`
}

// TableName specifies the table name for Donor
func (Donor) TableName() string {
	return "donors"
}

// DonorPreferences are the communication opt-ins stored as JSON on the donor row.
type DonorPreferences struct {
	Email    bool   `json:"email"`
	SMS      bool   `json:"sms"`
	WhatsApp bool   `json:"whatsapp"`
	Language string `json:"language,omitempty"`
}

// Donor type constants
const (
	DonorTypeIndividual   = "Individual"
	DonorTypeOrganization = "Organization"
	DonorTypeAnonymous    = "Anonymous"
)

var DonorTypes = []string{DonorTypeIndividual, DonorTypeOrganization, DonorTypeAnonymous}

// Donor status constants
const (
	DonorStatusActive   = "Active"
	DonorStatusDisabled = "Disabled"
	DonorStatusDeleted  = "Deleted"
)

var DonorStatuses = []string{DonorStatusActive, DonorStatusDisabled, DonorStatusDeleted}

func IsValidDonorType(t string) bool {
	return slices.Contains(DonorTypes, t)
}

func IsValidDonorStatus(s string) bool {
	return slices.Contains(DonorStatuses, s)
}

// IsDeleted returns true if the donor was soft deleted
func (d *Donor) IsDeleted() bool {
	return d.Status == DonorStatusDeleted
}

// MayDonate returns true if new donations can be booked against the donor
func (d *Donor) MayDonate() bool {
	return d.Status == DonorStatusActive
}

// MayDisable returns true if donor can be disabled
func (d *Donor) MayDisable() bool {
	return d.Status == DonorStatusActive
}

// MayRestore returns true if donor can be restored
func (d *Donor) MayRestore() bool {
	return d.Status == DonorStatusDeleted
}
