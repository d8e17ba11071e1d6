package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Employer - работодатель. Запись в таблице одна.
type Employer struct {
	ID           uint         `gorm:"primarykey" json:"-"`
	Name         string       `gorm:"not null" json:"Name"`
	EIN          string       `json:"EIN"`
	BusinessID   string       `json:"BusinessID"`
	AddressLine1 string       `json:"AddressLine1"`
	AddressLine2 string       `json:"AddressLine2"`
	AddressLine3 string       `json:"AddressLine3"`
	PayrollDay   time.Weekday `gorm:"not null" json:"-"`
	CreatedAt    time.Time    `json:"-"`
	UpdatedAt    time.Time    `json:"-"`
}

func (Employer) TableName() string {
	return "employers"
}

// UnmarshalJSON принимает PayrollDay как название дня недели ("Friday")
func (e *Employer) UnmarshalJSON(data []byte) error {
	type alias Employer
	aux := struct {
		*alias
		PayrollDay string `json:"PayrollDay"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	e.PayrollDay = time.Friday
	if aux.PayrollDay != "" {
		day, err := ParseWeekday(aux.PayrollDay)
		if err != nil {
			return err
		}
		e.PayrollDay = day
	}
	return nil
}

// PayrollDayName - название дня выплаты
func (e *Employer) PayrollDayName() string {
	return e.PayrollDay.String()
}

func (e *Employer) Address() string {
	return joinAddress(", ", e.AddressLine1, e.AddressLine2, e.AddressLine3)
}

func (e *Employer) AddressMultiline() string {
	return joinAddress("\n", e.AddressLine1, e.AddressLine2, e.AddressLine3)
}

// IsValid проверяет валидность данных
func (e *Employer) IsValid() bool {
	return strings.TrimSpace(e.Name) != "" && e.PayrollDay >= time.Sunday && e.PayrollDay <= time.Saturday
}

// ParseWeekday разбирает полное или трехбуквенное английское название дня
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
