package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	ErrTaxRatesNotAttached = errors.New("tax rates are not attached to the time entry")
	ErrTaxYearMismatch     = errors.New("tax rates year does not match the time entry tax year")
	ErrUnpaidTimeOff       = errors.New("unpaid time off is not supported")
	ErrInvalidTimeEntry    = errors.New("invalid time entry")
)

var maxHoursPerDay = decimal.NewFromInt(24)

// DateOnly обрезает время и приводит дату к UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeEntry - запись отработанного (или оплачиваемого) времени за день.
// В один день может быть несколько записей разных видов.
type TimeEntry struct {
	ID         uint      `gorm:"primarykey"`
	EmployeeID uint      `gorm:"not null;index"`
	Employee   string    `gorm:"not null"`
	Date       time.Time `gorm:"type:date;not null;index"`
	TaxYear    int       `gorm:"not null;index"`

	Hours   decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	PayRate decimal.Decimal `gorm:"type:decimal(10,2);not null"` // ставка на момент создания
	PayType PayType         `gorm:"not null;default:0"`

	Reimbursement decimal.Decimal `gorm:"type:decimal(10,2)"`
	Note          string

	// Федеральное удержание за период хранится на последней записи периода
	FederalWithholding  decimal.Decimal `gorm:"type:decimal(10,2)"`
	WithholdingComputed bool            `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	taxes *EntryTaxBreakdown
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// Validate проверяет данные записи. Неоплачиваемое время здесь допускается,
// отклоняет его только ввод новых записей.
func (t *TimeEntry) Validate() error {
	if t.Employee == "" {
		return fmt.Errorf("%w: employee is empty", ErrInvalidTimeEntry)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is empty", ErrInvalidTimeEntry)
	}
	if !t.Hours.IsPositive() || t.Hours.GreaterThan(maxHoursPerDay) {
		return fmt.Errorf("%w: hours must be in (0, 24], got %s", ErrInvalidTimeEntry, t.Hours)
	}
	if t.PayRate.IsNegative() {
		return fmt.Errorf("%w: negative pay rate", ErrInvalidTimeEntry)
	}
	if t.Reimbursement.IsNegative() {
		return fmt.Errorf("%w: negative reimbursement", ErrInvalidTimeEntry)
	}
	if !t.PayType.IsKnown() {
		return fmt.Errorf("%w: unknown pay type %d", ErrInvalidTimeEntry, int(t.PayType))
	}
	if t.TaxYear == 0 {
		return fmt.Errorf("%w: tax year is empty", ErrInvalidTimeEntry)
	}
	return nil
}

// IsValid проверяет валидность данных
func (t *TimeEntry) IsValid() bool {
	return t.Validate() == nil
}

// AttachTaxRates один раз рассчитывает налоги записи по ставкам ее налогового года
func (t *TimeEntry) AttachTaxRates(rates *TaxRates) error {
	breakdown, err := NewEntryTaxBreakdown(t, rates)
	if err != nil {
		return err
	}
	t.taxes = &breakdown
	return nil
}

// Taxes возвращает расчет, сделанный в AttachTaxRates
func (t *TimeEntry) Taxes() (EntryTaxBreakdown, error) {
	if t.taxes == nil {
		return EntryTaxBreakdown{}, ErrTaxRatesNotAttached
	}
	return *t.taxes, nil
}

// HasWithholding - удержание за период уже рассчитано и сохранено на этой записи
func (t *TimeEntry) HasWithholding() bool {
	return t.WithholdingComputed || !t.FederalWithholding.IsZero()
}

// SetWithholding сохраняет рассчитанное удержание за период
func (t *TimeEntry) SetWithholding(amount decimal.Decimal) {
	t.FederalWithholding = amount
	t.WithholdingComputed = true
}

// timeEntryJSON - формат файла записей. Необязательные поля опускаются, если пусты.
type timeEntryJSON struct {
	Date                string      `json:"Date"`
	Employee            string      `json:"Employee"`
	TaxYear             int         `json:"TaxYear"`
	Hours               json.Number `json:"Hours"`
	PayRate             json.Number `json:"PayRate"`
	PayType             PayType     `json:"PayType"`
	Reimbursement       json.Number `json:"Reimbursement,omitempty"`
	Note                string      `json:"Note,omitempty"`
	FederalWithholding  json.Number `json:"FederalWithholding,omitempty"`
	WithholdingComputed bool        `json:"WithholdingComputed,omitempty"`
}

func (t TimeEntry) MarshalJSON() ([]byte, error) {
	out := timeEntryJSON{
		Date:                t.Date.Format(DateLayout),
		Employee:            t.Employee,
		TaxYear:             t.TaxYear,
		Hours:               json.Number(t.Hours.String()),
		PayRate:             json.Number(t.PayRate.String()),
		PayType:             t.PayType,
		Note:                t.Note,
		WithholdingComputed: t.WithholdingComputed,
	}
	if !t.Reimbursement.IsZero() {
		out.Reimbursement = json.Number(t.Reimbursement.String())
	}
	if !t.FederalWithholding.IsZero() {
		out.FederalWithholding = json.Number(t.FederalWithholding.String())
	}
	return json.Marshal(out)
}

func (t *TimeEntry) UnmarshalJSON(data []byte) error {
	var in timeEntryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	date, err := time.Parse(DateLayout, in.Date)
	if err != nil {
		return fmt.Errorf("invalid Date %q: %w", in.Date, err)
	}

	var fields = []struct {
		name string
		raw  json.Number
		dst  *decimal.Decimal
	}{
		{"Hours", in.Hours, &t.Hours},
		{"PayRate", in.PayRate, &t.PayRate},
		{"Reimbursement", in.Reimbursement, &t.Reimbursement},
		{"FederalWithholding", in.FederalWithholding, &t.FederalWithholding},
	}
	for _, f := range fields {
		*f.dst = decimal.Zero
		if f.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(string(f.raw))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v
	}

	t.Date = DateOnly(date)
	t.Employee = in.Employee
	t.TaxYear = in.TaxYear
	t.PayType = in.PayType
	t.Note = in.Note
	t.WithholdingComputed = in.WithholdingComputed
	t.taxes = nil
	return nil
}
