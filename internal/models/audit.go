// internal/models/audit.go
package models

import "github.com/google/uuid"

type AuditLog struct {
	BaseModel
	PartnerID    *uuid.UUID `json:"partner_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string     `json:"resource_id" gorm:"size:64;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	Partner *Partner `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
}
