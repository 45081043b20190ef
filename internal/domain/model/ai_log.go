package model

import "time"

// AIスタブの呼び出しログ（追記のみ）。
// 入力と返答をそのまま残す
type AiLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID int64 `gorm:"not null;index" json:"user_id"`

	InputText string `gorm:"type:text;not null" json:"input_text"`

	OutputText string `gorm:"type:text;not null" json:"output_text"`

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime" json:"created_at"`
}

// AutoMigrate対象（この順で作る）
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Order{},
		&OrderItem{},
		&AiLog{},
	}
}
