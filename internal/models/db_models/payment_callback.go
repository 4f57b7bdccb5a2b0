package db_models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentCallback keeps every webhook delivery for later investigation.
type PaymentCallback struct {
	ID             uint           `gorm:"primaryKey"`
	TransactionID  string         `gorm:"size:100;index"`
	ReportedStatus string         `gorm:"size:30"`
	ContentType    string         `gorm:"size:100"`
	Payload        datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Applied        bool           `gorm:"default:false"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}
