package payroll

import (
	"fmt"

	"nanny-payroll-bot/internal/models"

	"github.com/shopspring/decimal"
)

// Worksheet - промежуточные значения IRS Pub 15-T Worksheet 1A за один период
type Worksheet struct {
	PeriodGrossPay         decimal.Decimal           `json:"period_gross_pay"`
	PayPeriods             int                       `json:"pay_periods"`
	AnnualWage             decimal.Decimal           `json:"annual_wage"`
	MultipleJobsAdjustment decimal.Decimal           `json:"multiple_jobs_adjustment"`
	AdjustedAnnualWage     decimal.Decimal           `json:"adjusted_annual_wage"`
	Bracket                models.WithholdingBracket `json:"bracket"`
	TentativeAnnual        decimal.Decimal           `json:"tentative_annual"`
	TentativePeriod        decimal.Decimal           `json:"tentative_period"`
	PeriodCredit           decimal.Decimal           `json:"period_credit"`
	AfterCredit            decimal.Decimal           `json:"after_credit"`
	ExtraWithholding       decimal.Decimal           `json:"extra_withholding"`
	Withholding            decimal.Decimal           `json:"withholding"`
}

// FindBracket ищет строку с A <= wage < B в разделе по флажку и статусу
func FindBracket(table models.FederalWithholdingTable, multipleJobs bool, status models.FilingStatus, wage decimal.Decimal) (models.WithholdingBracket, error) {
	rows, ok := table.Brackets(multipleJobs, status)
	if !ok {
		return models.WithholdingBracket{}, fmt.Errorf("%w: %s/%s", ErrWithholdingTableMissing, models.WithholdingSection(multipleJobs), status)
	}
	for _, row := range rows {
		if row.Contains(wage) {
			return row, nil
		}
	}
	return models.WithholdingBracket{}, fmt.Errorf("%w: %s", ErrBracketNotFound, wage.StringFixed(2))
}

// ComputeWorksheet проходит шаги Worksheet 1A для валовой оплаты одного периода
func ComputeWorksheet(grossPay decimal.Decimal, profile *models.WithholdingProfile, rates *models.TaxRates) (Worksheet, error) {
	if rates == nil {
		return Worksheet{}, ErrTaxRatesMissing
	}

	periodsPerYear := profile.PayPeriodsPerYear
	if periodsPerYear <= 0 {
		periodsPerYear = models.DefaultPayPeriodsPerYear
	}
	periods := decimal.NewFromInt(int64(periodsPerYear))

	ws := Worksheet{
		PeriodGrossPay:   grossPay,
		PayPeriods:       periodsPerYear,
		ExtraWithholding: profile.ExtraWithholding,
	}

	// шаг 1: годовая сумма
	ws.AnnualWage = grossPay.Mul(periods).Add(profile.OtherIncome)

	// шаг 1g-1h
	ws.MultipleJobsAdjustment = rates.MultipleJobsAdjustment(profile.MultipleJobs, profile.FilingStatus)
	ws.AdjustedAnnualWage = decimal.Max(decimal.Zero,
		ws.AnnualWage.Sub(ws.MultipleJobsAdjustment.Add(profile.Deductions)))

	// шаг 2: строка таблицы и предварительная сумма
	row, err := FindBracket(rates.FederalWithholding, profile.MultipleJobs, profile.FilingStatus, ws.AdjustedAnnualWage)
	if err != nil {
		return ws, err
	}
	ws.Bracket = row
	ws.TentativeAnnual = row.C.Add(models.ApplyPercent(ws.AdjustedAnnualWage.Sub(row.A), row.D))
	ws.TentativePeriod = ws.TentativeAnnual.Div(periods)

	// шаг 3: кредит на иждивенцев
	ws.PeriodCredit = profile.DependentCredit.Div(periods)
	ws.AfterCredit = decimal.Max(decimal.Zero, ws.TentativePeriod.Sub(ws.PeriodCredit))

	// шаг 4: дополнительное удержание
	ws.Withholding = ws.AfterCredit.Add(profile.ExtraWithholding).Round(2)
	return ws, nil
}

// CalculateWithholding возвращает федеральное удержание за период.
// Без профиля W-4 удержание равно нулю.
func CalculateWithholding(grossPay decimal.Decimal, profile *models.WithholdingProfile, rates *models.TaxRates) (decimal.Decimal, error) {
	if profile == nil {
		return decimal.Zero, nil
	}
	ws, err := ComputeWorksheet(grossPay, profile, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return ws.Withholding, nil
}
