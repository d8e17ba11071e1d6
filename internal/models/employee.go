package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID      uint            `gorm:"primarykey" json:"-"`
	Name    string          `gorm:"uniqueIndex;not null" json:"Name"`
	SSN     string          `gorm:"type:varchar(11)" json:"SSN"`
	PayRate decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"PayRate"`

	// Годовые лимиты оплачиваемого отсутствия, в часах
	PaidVacationHoursPerYear decimal.Decimal `gorm:"type:decimal(8,2)" json:"PaidVacationHoursPerYear"`
	PaidSickHoursPerYear     decimal.Decimal `gorm:"type:decimal(8,2)" json:"PaidSickHoursPerYear"`
	PaidHolidayHoursPerYear  decimal.Decimal `gorm:"type:decimal(8,2)" json:"PaidHolidayHoursPerYear"`

	AddressLine1 string `json:"AddressLine1"`
	AddressLine2 string `json:"AddressLine2"`
	AddressLine3 string `json:"AddressLine3"`

	// Профиль W-4 хранится как есть и разбирается при расчете
	W4 string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	TimeEntries []*TimeEntry `gorm:"foreignKey:EmployeeID" json:"-"`

	dirty bool
}

func (Employee) TableName() string {
	return "employees"
}

// UnmarshalJSON читает файл сотрудника; объект W4 сохраняется в сыром виде
func (e *Employee) UnmarshalJSON(data []byte) error {
	type alias Employee
	aux := struct {
		*alias
		W4 json.RawMessage `json:"W4"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.W4) > 0 {
		e.W4 = string(aux.W4)
	}
	return nil
}

// IsValid проверяет валидность данных
func (e *Employee) IsValid() bool {
	if strings.TrimSpace(e.Name) == "" {
		return false
	}
	if !e.PayRate.IsPositive() {
		return false
	}
	for _, h := range []decimal.Decimal{e.PaidVacationHoursPerYear, e.PaidSickHoursPerYear, e.PaidHolidayHoursPerYear} {
		if h.IsNegative() {
			return false
		}
	}
	return true
}

// WithholdingProfile возвращает nil, если профиль не задан
func (e *Employee) WithholdingProfile() (*WithholdingProfile, error) {
	return ParseWithholdingProfile(e.W4)
}

// NameParts делит имя на имя, инициал второго имени и фамилию
func (e *Employee) NameParts() (first, middleInitial, last string) {
	fields := strings.Fields(e.Name)
	switch len(fields) {
	case 0:
		return "", "", ""
	case 1:
		return fields[0], "", ""
	case 2:
		return fields[0], "", fields[1]
	}
	initial := []rune(fields[1])[:1]
	return fields[0], strings.ToUpper(string(initial)), fields[len(fields)-1]
}

// FileStem - имя без пробелов для имен файлов
func (e *Employee) FileStem() string {
	return strings.ReplaceAll(e.Name, " ", "")
}

func (e *Employee) Address() string {
	return joinAddress(", ", e.AddressLine1, e.AddressLine2, e.AddressLine3)
}

func (e *Employee) AddressMultiline() string {
	return joinAddress("\n", e.AddressLine1, e.AddressLine2, e.AddressLine3)
}

// EntriesInRange возвращает загруженные записи с датой в [start, end]
func (e *Employee) EntriesInRange(start, end time.Time) []*TimeEntry {
	start, end = DateOnly(start), DateOnly(end)
	var result []*TimeEntry
	for _, entry := range e.TimeEntries {
		if !entry.Date.Before(start) && !entry.Date.After(end) {
			result = append(result, entry)
		}
	}
	return result
}

// MarkDirty отмечает несохраненные изменения в записях
func (e *Employee) MarkDirty() {
	e.dirty = true
}

func (e *Employee) IsDirty() bool {
	return e.dirty
}

func (e *Employee) ClearDirty() {
	e.dirty = false
}

func joinAddress(sep string, lines ...string) string {
	var parts []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, sep)
}
