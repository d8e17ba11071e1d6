package report

import (
	"nanny-payroll-bot/internal/payroll"

	"github.com/shopspring/decimal"
)

// W2Summary - годовые суммы сотрудника по полям W-2 и Schedule H
type W2Summary struct {
	Employee                 string          `json:"employee"`
	SSN                      string          `json:"ssn"`
	Address                  string          `json:"address"`
	Wages                    decimal.Decimal `json:"wages"`
	FederalIncomeTaxWithheld decimal.Decimal `json:"federal_income_tax_withheld"`
	SocialSecurityWages      decimal.Decimal `json:"social_security_wages"`
	SocialSecurityTax        decimal.Decimal `json:"social_security_tax"`
	MedicareWages            decimal.Decimal `json:"medicare_wages"`
	MedicareTax              decimal.Decimal `json:"medicare_tax"`
	FederalUnemploymentWages decimal.Decimal `json:"federal_unemployment_wages"`
	FederalUnemploymentTax   decimal.Decimal `json:"federal_unemployment_tax"`
	StateUnemploymentTax     decimal.Decimal `json:"state_unemployment_tax"`
}

// AnnualSummaries переводит годовые свертки (с примененными лимитами) в строки W-2
func AnnualSummaries(summaries []*payroll.PeriodSummary) []W2Summary {
	rows := make([]W2Summary, 0, len(summaries))
	for _, s := range summaries {
		t := s.Totals.Totals()
		rows = append(rows, W2Summary{
			Employee:                 s.Employee.Name,
			SSN:                      s.Employee.SSN,
			Address:                  s.Employee.Address(),
			Wages:                    t.GrossPay,
			FederalIncomeTaxWithheld: t.FederalWithholding,
			SocialSecurityWages:      t.SocialSecurityWages,
			SocialSecurityTax:        t.SocialSecurityEmployee,
			MedicareWages:            t.GrossPay,
			MedicareTax:              t.MedicareEmployee,
			FederalUnemploymentWages: t.FederalUnemploymentWages,
			FederalUnemploymentTax:   t.FederalUnemployment,
			StateUnemploymentTax:     t.StateUnemployment,
		})
	}
	return rows
}
