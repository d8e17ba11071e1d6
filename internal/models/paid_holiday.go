package models

import (
	"time"
)

// PaidHoliday - оплачиваемый праздник. Используется только как подсказка при вводе времени.
type PaidHoliday struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"not null" json:"Name"`
	Date      time.Time `gorm:"type:date;uniqueIndex" json:"Date"`
	Year      int       `gorm:"index" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (PaidHoliday) TableName() string {
	return "paid_holidays"
}

// IsValid проверяет валидность данных
func (h *PaidHoliday) IsValid() bool {
	return h.Name != "" && !h.Date.IsZero()
}
