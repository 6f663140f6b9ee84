// internal/models/partner.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Partner is an integrator account calling this API. The role feeds
// the trading gate: admin accounts manage events but cannot trade.
type Partner struct {
	BaseModel
	Name  string      `json:"name" gorm:"size:100;not null"`
	Email string      `json:"email" gorm:"size:255;uniqueIndex"`
	Role  PartnerRole `json:"role" gorm:"type:varchar(20);default:'partner';index"`

	APIKeys []APIKey `json:"api_keys,omitempty" gorm:"foreignKey:PartnerID"`
}

// APIKey stores a bcrypt hash of an issued key. The plaintext key is
// shown exactly once at creation; lookups go through the stored
// prefix, then the hash comparison.
type APIKey struct {
	BaseModel
	PartnerID  uuid.UUID  `json:"partner_id" gorm:"type:uuid;not null;index"`
	Prefix     string     `json:"prefix" gorm:"size:16;not null;index"`
	KeyHash    string     `json:"-" gorm:"size:100;not null"`
	LastUsedAt *time.Time `json:"last_used_at"`
	RevokedAt  *time.Time `json:"revoked_at"`

	Partner *Partner `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
}

func (k *APIKey) Revoked() bool {
	return k.RevokedAt != nil
}
