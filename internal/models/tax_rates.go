package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Ключи разделов таблицы федерального удержания (IRS Pub 15-T, Worksheet 1A)
const (
	SectionMultipleJobsChecked    = "MultipleJobsChecked"
	SectionMultipleJobsNotChecked = "MultipleJobsNotChecked"
)

// WithholdingBracket - строка таблицы процентного метода.
// A - нижняя граница (включительно), B - верхняя (не включительно, B < 0 значит без границы),
// C - фиксированная сумма, D - процент, E - сумма, сверх которой применяется процент.
type WithholdingBracket struct {
	A decimal.Decimal `json:"A"`
	B decimal.Decimal `json:"B"`
	C decimal.Decimal `json:"C"`
	D decimal.Decimal `json:"D"`
	E decimal.Decimal `json:"E"`
}

// IsUnbounded - верхняя строка таблицы
func (b WithholdingBracket) IsUnbounded() bool {
	return b.B.IsNegative()
}

// Contains проверяет попадание в полуинтервал [A, B)
func (b WithholdingBracket) Contains(wage decimal.Decimal) bool {
	if wage.LessThan(b.A) {
		return false
	}
	return b.IsUnbounded() || wage.LessThan(b.B)
}

// FederalWithholdingTable - раздел (MultipleJobs*) -> статус -> строки по возрастанию A
type FederalWithholdingTable map[string]map[FilingStatus][]WithholdingBracket

// WithholdingSection возвращает ключ раздела по флажку Step 2 формы W-4
func WithholdingSection(multipleJobs bool) string {
	if multipleJobs {
		return SectionMultipleJobsChecked
	}
	return SectionMultipleJobsNotChecked
}

// Brackets возвращает строки для сочетания флажка и статуса
func (t FederalWithholdingTable) Brackets(multipleJobs bool, status FilingStatus) ([]WithholdingBracket, bool) {
	section, ok := t[WithholdingSection(multipleJobs)]
	if !ok {
		return nil, false
	}
	rows, ok := section[status]
	if !ok || len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

// TaxRates - ставки за один налоговый год. Все ставки в процентах (1.45 = 1.45%).
type TaxRates struct {
	ID      uint `gorm:"primaryKey" json:"-"`
	TaxYear int  `gorm:"uniqueIndex;not null" json:"TaxYear"`

	MedicareEmployee               decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"MedicareEmployee"`
	MedicareCompany                decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"MedicareCompany"`
	SocialSecurityEmployee         decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"SocialSecurityEmployee"`
	SocialSecurityCompany          decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"SocialSecurityCompany"`
	PaidFamilyMedicalLeaveEmployee decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"PaidFamilyMedicalLeaveEmployee"`
	PaidFamilyMedicalLeaveCompany  decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"PaidFamilyMedicalLeaveCompany"`
	LongTermCareEmployee           decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"LongTermCareEmployee"`
	FederalUnemployment            decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"FederalUnemployment"`
	StateUnemployment              decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"StateUnemployment"`

	// Лимиты зарплаты в долларах за год
	FederalUnemploymentWageCap decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"FederalUnemploymentWageCap"`
	SocialSecurityWageCap      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"SocialSecurityWageCap"`

	// Worksheet 1A, шаг 1g: вычет, если флажок Step 2 не отмечен
	WithholdingAdjustmentMarried decimal.Decimal `gorm:"type:decimal(12,2)" json:"WithholdingAdjustmentMarried"`
	WithholdingAdjustmentOther   decimal.Decimal `gorm:"type:decimal(12,2)" json:"WithholdingAdjustmentOther"`

	FederalWithholding FederalWithholdingTable `gorm:"serializer:json" json:"FederalWithholding"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (TaxRates) TableName() string {
	return "tax_rates"
}

// IsValid проверяет обязательные поля
func (r *TaxRates) IsValid() bool {
	if r.TaxYear < 1900 {
		return false
	}
	for _, rate := range []decimal.Decimal{
		r.MedicareEmployee, r.MedicareCompany,
		r.SocialSecurityEmployee, r.SocialSecurityCompany,
		r.PaidFamilyMedicalLeaveEmployee, r.PaidFamilyMedicalLeaveCompany,
		r.LongTermCareEmployee, r.FederalUnemployment, r.StateUnemployment,
	} {
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return false
		}
	}
	return r.FederalUnemploymentWageCap.IsPositive() && r.SocialSecurityWageCap.IsPositive()
}

// MultipleJobsAdjustment - шаг 1g Worksheet 1A. Ноль, если отмечен флажок Step 2.
func (r *TaxRates) MultipleJobsAdjustment(multipleJobs bool, status FilingStatus) decimal.Decimal {
	if multipleJobs {
		return decimal.Zero
	}
	if status == FilingMarried {
		return r.WithholdingAdjustmentMarried
	}
	return r.WithholdingAdjustmentOther
}

// ApplyPercent возвращает amount * percent / 100 без округления
func ApplyPercent(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}
