// models/report_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	RecipientID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ReportDate   time.Time `gorm:"type:date;index"`
	Message      string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string    `gorm:"type:text"`
	Channel      string    `gorm:"type:varchar(20)"` // whatsapp, sms
	SentAt       time.Time
	CreatedAt    time.Time
}

func (r *ReportLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
