package payroll

import (
	"nanny-payroll-bot/internal/models"

	"github.com/shopspring/decimal"
)

// Accumulator складывает налоги записей. Порядок добавления не влияет на результат.
// Одну и ту же запись нельзя добавлять дважды, это не проверяется.
type Accumulator struct {
	Entries int

	Hours            decimal.Decimal
	RegularHours     decimal.Decimal
	PaidTimeOffHours decimal.Decimal
	PaidHolidayHours decimal.Decimal
	PaidSickHours    decimal.Decimal
	UnpaidHours      decimal.Decimal

	GrossPay      decimal.Decimal
	Reimbursement decimal.Decimal

	// Облагаемые суммы после применения лимитов
	SocialSecurityWages      decimal.Decimal
	FederalUnemploymentWages decimal.Decimal

	MedicareEmployee       decimal.Decimal
	SocialSecurityEmployee decimal.Decimal
	PaidLeaveEmployee      decimal.Decimal
	LongTermCareEmployee   decimal.Decimal
	FederalWithholding     decimal.Decimal

	MedicareCompany       decimal.Decimal
	SocialSecurityCompany decimal.Decimal
	PaidLeaveCompany      decimal.Decimal
	FederalUnemployment   decimal.Decimal
	StateUnemployment     decimal.Decimal
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AddEntry добавляет запись, к которой уже привязаны ставки
func (a *Accumulator) AddEntry(entry *models.TimeEntry) error {
	taxes, err := entry.Taxes()
	if err != nil {
		return err
	}
	a.Add(taxes, entry.FederalWithholding)
	return nil
}

func (a *Accumulator) Add(b models.EntryTaxBreakdown, withholding decimal.Decimal) {
	a.Entries++
	a.Hours = a.Hours.Add(b.Hours)
	if bucket := a.hoursBucket(b.PayType); bucket != nil {
		*bucket = bucket.Add(b.Hours)
	}

	a.GrossPay = a.GrossPay.Add(b.GrossPay)
	a.Reimbursement = a.Reimbursement.Add(b.Reimbursement)
	a.SocialSecurityWages = a.SocialSecurityWages.Add(b.GrossPay)
	a.FederalUnemploymentWages = a.FederalUnemploymentWages.Add(b.GrossPay)

	a.MedicareEmployee = a.MedicareEmployee.Add(b.MedicareEmployee)
	a.SocialSecurityEmployee = a.SocialSecurityEmployee.Add(b.SocialSecurityEmployee)
	a.PaidLeaveEmployee = a.PaidLeaveEmployee.Add(b.PaidLeaveEmployee)
	a.LongTermCareEmployee = a.LongTermCareEmployee.Add(b.LongTermCareEmployee)
	a.FederalWithholding = a.FederalWithholding.Add(withholding)

	a.MedicareCompany = a.MedicareCompany.Add(b.MedicareCompany)
	a.SocialSecurityCompany = a.SocialSecurityCompany.Add(b.SocialSecurityCompany)
	a.PaidLeaveCompany = a.PaidLeaveCompany.Add(b.PaidLeaveCompany)
	a.FederalUnemployment = a.FederalUnemployment.Add(b.FederalUnemployment)
	a.StateUnemployment = a.StateUnemployment.Add(b.StateUnemployment)
}

// Merge прибавляет суммы другого аккумулятора
func (a *Accumulator) Merge(o *Accumulator) {
	a.Entries += o.Entries
	for _, pair := range [][2]*decimal.Decimal{
		{&a.Hours, &o.Hours},
		{&a.RegularHours, &o.RegularHours},
		{&a.PaidTimeOffHours, &o.PaidTimeOffHours},
		{&a.PaidHolidayHours, &o.PaidHolidayHours},
		{&a.PaidSickHours, &o.PaidSickHours},
		{&a.UnpaidHours, &o.UnpaidHours},
		{&a.GrossPay, &o.GrossPay},
		{&a.Reimbursement, &o.Reimbursement},
		{&a.SocialSecurityWages, &o.SocialSecurityWages},
		{&a.FederalUnemploymentWages, &o.FederalUnemploymentWages},
		{&a.MedicareEmployee, &o.MedicareEmployee},
		{&a.SocialSecurityEmployee, &o.SocialSecurityEmployee},
		{&a.PaidLeaveEmployee, &o.PaidLeaveEmployee},
		{&a.LongTermCareEmployee, &o.LongTermCareEmployee},
		{&a.FederalWithholding, &o.FederalWithholding},
		{&a.MedicareCompany, &o.MedicareCompany},
		{&a.SocialSecurityCompany, &o.SocialSecurityCompany},
		{&a.PaidLeaveCompany, &o.PaidLeaveCompany},
		{&a.FederalUnemployment, &o.FederalUnemployment},
		{&a.StateUnemployment, &o.StateUnemployment},
	} {
		*pair[0] = pair[0].Add(*pair[1])
	}
}

func (a *Accumulator) hoursBucket(p models.PayType) *decimal.Decimal {
	switch p {
	case models.PayTypeRegular:
		return &a.RegularHours
	case models.PayTypePaidTimeOff:
		return &a.PaidTimeOffHours
	case models.PayTypePaidHoliday:
		return &a.PaidHolidayHours
	case models.PayTypePaidSickTime:
		return &a.PaidSickHours
	case models.PayTypeUnpaidTimeOff:
		return &a.UnpaidHours
	}
	return nil
}

// LeaveHours - часы по виду оплаты
func (a *Accumulator) LeaveHours(p models.PayType) decimal.Decimal {
	if bucket := a.hoursBucket(p); bucket != nil {
		return *bucket
	}
	return decimal.Zero
}

// PaidHours - часы без неоплачиваемого времени
func (a *Accumulator) PaidHours() decimal.Decimal {
	return a.Hours.Sub(a.UnpaidHours)
}

// EmployeeTaxesWithheld включает федеральное удержание
func (a *Accumulator) EmployeeTaxesWithheld() decimal.Decimal {
	return a.MedicareEmployee.Add(a.SocialSecurityEmployee).Add(a.PaidLeaveEmployee).
		Add(a.LongTermCareEmployee).Add(a.FederalWithholding)
}

func (a *Accumulator) NetPay() decimal.Decimal {
	return a.GrossPay.Sub(a.EmployeeTaxesWithheld())
}

func (a *Accumulator) CheckAmount() decimal.Decimal {
	return a.NetPay().Add(a.Reimbursement)
}

func (a *Accumulator) CompanyTaxContributions() decimal.Decimal {
	return a.MedicareCompany.Add(a.SocialSecurityCompany).Add(a.PaidLeaveCompany).
		Add(a.FederalUnemployment).Add(a.StateUnemployment)
}

func (a *Accumulator) CompanyTotalCost() decimal.Decimal {
	return a.GrossPay.Add(a.CompanyTaxContributions()).Add(a.Reimbursement)
}

// Totals - округленные до центов значения для вывода
type Totals struct {
	Hours            decimal.Decimal `json:"hours"`
	RegularHours     decimal.Decimal `json:"regular_hours"`
	PaidTimeOffHours decimal.Decimal `json:"paid_time_off_hours"`
	PaidHolidayHours decimal.Decimal `json:"paid_holiday_hours"`
	PaidSickHours    decimal.Decimal `json:"paid_sick_hours"`

	GrossPay                 decimal.Decimal `json:"gross_pay"`
	SocialSecurityWages      decimal.Decimal `json:"social_security_wages"`
	FederalUnemploymentWages decimal.Decimal `json:"federal_unemployment_wages"`
	Reimbursement            decimal.Decimal `json:"reimbursement"`

	MedicareEmployee       decimal.Decimal `json:"medicare_employee"`
	SocialSecurityEmployee decimal.Decimal `json:"social_security_employee"`
	PaidLeaveEmployee      decimal.Decimal `json:"paid_leave_employee"`
	LongTermCareEmployee   decimal.Decimal `json:"long_term_care_employee"`
	FederalWithholding     decimal.Decimal `json:"federal_withholding"`
	EmployeeTaxesWithheld  decimal.Decimal `json:"employee_taxes_withheld"`
	NetPay                 decimal.Decimal `json:"net_pay"`
	CheckAmount            decimal.Decimal `json:"check_amount"`

	MedicareCompany         decimal.Decimal `json:"medicare_company"`
	SocialSecurityCompany   decimal.Decimal `json:"social_security_company"`
	PaidLeaveCompany        decimal.Decimal `json:"paid_leave_company"`
	FederalUnemployment     decimal.Decimal `json:"federal_unemployment"`
	StateUnemployment       decimal.Decimal `json:"state_unemployment"`
	CompanyTaxContributions decimal.Decimal `json:"company_tax_contributions"`
	CompanyTotalCost        decimal.Decimal `json:"company_total_cost"`
}

func (a *Accumulator) Totals() Totals {
	r := func(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
	return Totals{
		Hours:            r(a.Hours),
		RegularHours:     r(a.RegularHours),
		PaidTimeOffHours: r(a.PaidTimeOffHours),
		PaidHolidayHours: r(a.PaidHolidayHours),
		PaidSickHours:    r(a.PaidSickHours),

		GrossPay:                 r(a.GrossPay),
		SocialSecurityWages:      r(a.SocialSecurityWages),
		FederalUnemploymentWages: r(a.FederalUnemploymentWages),
		Reimbursement:            r(a.Reimbursement),

		MedicareEmployee:       r(a.MedicareEmployee),
		SocialSecurityEmployee: r(a.SocialSecurityEmployee),
		PaidLeaveEmployee:      r(a.PaidLeaveEmployee),
		LongTermCareEmployee:   r(a.LongTermCareEmployee),
		FederalWithholding:     r(a.FederalWithholding),
		EmployeeTaxesWithheld:  r(a.EmployeeTaxesWithheld()),
		NetPay:                 r(a.NetPay()),
		CheckAmount:            r(a.CheckAmount()),

		MedicareCompany:         r(a.MedicareCompany),
		SocialSecurityCompany:   r(a.SocialSecurityCompany),
		PaidLeaveCompany:        r(a.PaidLeaveCompany),
		FederalUnemployment:     r(a.FederalUnemployment),
		StateUnemployment:       r(a.StateUnemployment),
		CompanyTaxContributions: r(a.CompanyTaxContributions()),
		CompanyTotalCost:        r(a.CompanyTotalCost()),
	}
}
