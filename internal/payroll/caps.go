package payroll

import (
	"nanny-payroll-bot/internal/models"

	"github.com/shopspring/decimal"
)

type cappedLine struct {
	field func(a *Accumulator) *decimal.Decimal
	rate  decimal.Decimal
}

// CapResult показывает, какие лимиты сработали
type CapResult struct {
	FederalUnemploymentCapped bool `json:"federal_unemployment_capped"`
	SocialSecurityCapped      bool `json:"social_security_capped"`
}

// CapAdjuster пересчитывает строки с годовым лимитом облагаемой зарплаты
// (FUTA и Social Security, на базу Social Security также опирается paid leave).
type CapAdjuster struct {
	rates *models.TaxRates
}

func NewCapAdjuster(rates *models.TaxRates) *CapAdjuster {
	return &CapAdjuster{rates: rates}
}

// Apply заменяет суммы затронутых строк текущего периода и года.
// current и ytd могут быть одним и тем же аккумулятором (годовой отчет).
func (c *CapAdjuster) Apply(current, ytd *Accumulator) CapResult {
	r := c.rates
	return CapResult{
		FederalUnemploymentCapped: adjustForCap(current, ytd, r.FederalUnemploymentWageCap,
			func(a *Accumulator) *decimal.Decimal { return &a.FederalUnemploymentWages },
			[]cappedLine{
				{func(a *Accumulator) *decimal.Decimal { return &a.FederalUnemployment }, r.FederalUnemployment},
			}),
		SocialSecurityCapped: adjustForCap(current, ytd, r.SocialSecurityWageCap,
			func(a *Accumulator) *decimal.Decimal { return &a.SocialSecurityWages },
			[]cappedLine{
				{func(a *Accumulator) *decimal.Decimal { return &a.SocialSecurityEmployee }, r.SocialSecurityEmployee},
				{func(a *Accumulator) *decimal.Decimal { return &a.SocialSecurityCompany }, r.SocialSecurityCompany},
				{func(a *Accumulator) *decimal.Decimal { return &a.PaidLeaveEmployee }, r.PaidFamilyMedicalLeaveEmployee},
				{func(a *Accumulator) *decimal.Decimal { return &a.PaidLeaveCompany }, r.PaidFamilyMedicalLeaveCompany},
			}),
	}
}

func adjustForCap(current, ytd *Accumulator, limit decimal.Decimal, wages func(a *Accumulator) *decimal.Decimal, lines []cappedLine) bool {
	if ytd.GrossPay.LessThanOrEqual(limit) {
		return false
	}

	overage := ytd.GrossPay.Sub(limit)
	taxable := decimal.Max(decimal.Zero, current.GrossPay.Sub(overage))

	*wages(current) = taxable
	*wages(ytd) = limit
	for _, line := range lines {
		*line.field(current) = models.ApplyPercent(taxable, line.rate)
		*line.field(ytd) = models.ApplyPercent(limit, line.rate)
	}
	return true
}
