package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EntryTaxBreakdown - налоги одной записи, рассчитанные по ставкам ее года.
// Значения не округляются, округление делается при выводе.
type EntryTaxBreakdown struct {
	TaxYear int
	PayType PayType
	Hours   decimal.Decimal

	GrossPay      decimal.Decimal
	Reimbursement decimal.Decimal

	MedicareEmployee       decimal.Decimal
	SocialSecurityEmployee decimal.Decimal
	PaidLeaveEmployee      decimal.Decimal
	LongTermCareEmployee   decimal.Decimal

	MedicareCompany       decimal.Decimal
	SocialSecurityCompany decimal.Decimal
	PaidLeaveCompany      decimal.Decimal
	FederalUnemployment   decimal.Decimal
	StateUnemployment     decimal.Decimal
}

// NewEntryTaxBreakdown считает все поля сразу. Неоплачиваемое время дает нулевую оплату.
func NewEntryTaxBreakdown(entry *TimeEntry, rates *TaxRates) (EntryTaxBreakdown, error) {
	if rates == nil {
		return EntryTaxBreakdown{}, ErrTaxRatesNotAttached
	}
	if rates.TaxYear != entry.TaxYear {
		return EntryTaxBreakdown{}, fmt.Errorf("%w: entry %d, rates %d", ErrTaxYearMismatch, entry.TaxYear, rates.TaxYear)
	}

	gross := entry.PayRate.Mul(entry.Hours)
	if entry.PayType == PayTypeUnpaidTimeOff {
		gross = decimal.Zero
	}

	return EntryTaxBreakdown{
		TaxYear:       entry.TaxYear,
		PayType:       entry.PayType,
		Hours:         entry.Hours,
		GrossPay:      gross,
		Reimbursement: entry.Reimbursement,

		MedicareEmployee:       ApplyPercent(gross, rates.MedicareEmployee),
		SocialSecurityEmployee: ApplyPercent(gross, rates.SocialSecurityEmployee),
		PaidLeaveEmployee:      ApplyPercent(gross, rates.PaidFamilyMedicalLeaveEmployee),
		LongTermCareEmployee:   ApplyPercent(gross, rates.LongTermCareEmployee),

		MedicareCompany:       ApplyPercent(gross, rates.MedicareCompany),
		SocialSecurityCompany: ApplyPercent(gross, rates.SocialSecurityCompany),
		PaidLeaveCompany:      ApplyPercent(gross, rates.PaidFamilyMedicalLeaveCompany),
		FederalUnemployment:   ApplyPercent(gross, rates.FederalUnemployment),
		StateUnemployment:     ApplyPercent(gross, rates.StateUnemployment),
	}, nil
}

func (b EntryTaxBreakdown) EmployeeTaxesWithheld() decimal.Decimal {
	return b.MedicareEmployee.Add(b.SocialSecurityEmployee).Add(b.PaidLeaveEmployee).Add(b.LongTermCareEmployee)
}

func (b EntryTaxBreakdown) NetPay() decimal.Decimal {
	return b.GrossPay.Sub(b.EmployeeTaxesWithheld())
}

func (b EntryTaxBreakdown) CheckAmount() decimal.Decimal {
	return b.NetPay().Add(b.Reimbursement)
}

func (b EntryTaxBreakdown) CompanyTaxContributions() decimal.Decimal {
	return b.MedicareCompany.Add(b.SocialSecurityCompany).Add(b.PaidLeaveCompany).
		Add(b.FederalUnemployment).Add(b.StateUnemployment)
}

func (b EntryTaxBreakdown) CompanyTotalCost() decimal.Decimal {
	return b.GrossPay.Add(b.CompanyTaxContributions()).Add(b.Reimbursement)
}
