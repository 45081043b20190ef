package model

import "time"

// ExternalIDはTelegramのchat id。作成後は変えない
type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID  int64     `gorm:"uniqueIndex;not null" json:"external_id"`
	DisplayName string    `gorm:"type:varchar(255);not null;default:''" json:"display_name"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
