package report

import (
	"fmt"
	"strings"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"

	"github.com/shopspring/decimal"
)

type line struct {
	label   string
	current decimal.Decimal
	ytd     decimal.Decimal
}

func employeeLines(c, y payroll.Totals) []line {
	return []line{
		{"Gross pay", c.GrossPay, y.GrossPay},
		{"Medicare", c.MedicareEmployee, y.MedicareEmployee},
		{"Social Security", c.SocialSecurityEmployee, y.SocialSecurityEmployee},
		{"Paid family leave", c.PaidLeaveEmployee, y.PaidLeaveEmployee},
		{"Long-term care", c.LongTermCareEmployee, y.LongTermCareEmployee},
		{"Federal income tax", c.FederalWithholding, y.FederalWithholding},
		{"Taxes withheld", c.EmployeeTaxesWithheld, y.EmployeeTaxesWithheld},
		{"Net pay", c.NetPay, y.NetPay},
		{"Reimbursements", c.Reimbursement, y.Reimbursement},
		{"Check amount", c.CheckAmount, y.CheckAmount},
	}
}

func employerLines(c, y payroll.Totals) []line {
	return []line{
		{"Medicare", c.MedicareCompany, y.MedicareCompany},
		{"Social Security", c.SocialSecurityCompany, y.SocialSecurityCompany},
		{"Paid family leave", c.PaidLeaveCompany, y.PaidLeaveCompany},
		{"Federal unemployment", c.FederalUnemployment, y.FederalUnemployment},
		{"State unemployment", c.StateUnemployment, y.StateUnemployment},
		{"Tax contributions", c.CompanyTaxContributions, y.CompanyTaxContributions},
		{"Total cost", c.CompanyTotalCost, y.CompanyTotalCost},
	}
}

// PayslipText - расчетный лист для сообщения в чате
func PayslipText(r *payroll.Report) string {
	c, y := r.Current.Totals(), r.YearToDate.Totals()
	var b strings.Builder

	fmt.Fprintf(&b, "🧾 Payslip: %s\n", r.Employee.Name)
	fmt.Fprintf(&b, "📅 %s – %s (paid %s)\n", r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout), r.Employer.PayrollDayName())
	fmt.Fprintf(&b, "⏱ Hours: %s (YTD %s)\n\n", Hours(c.Hours), Hours(y.Hours))

	b.WriteString("Employee          this period / year to date\n")
	writeLines(&b, employeeLines(c, y))

	b.WriteString("\nEmployer\n")
	writeLines(&b, employerLines(c, y))

	b.WriteString("\nLeave (hours used / available)\n")
	fmt.Fprintf(&b, "• Vacation: %s / %s\n", Hours(r.Leave.Vacation.Used), Hours(r.Leave.Vacation.Available))
	fmt.Fprintf(&b, "• Sick: %s / %s\n", Hours(r.Leave.Sick.Used), Hours(r.Leave.Sick.Available))
	fmt.Fprintf(&b, "• Holiday: %s / %s\n", Hours(r.Leave.Holiday.Used), Hours(r.Leave.Holiday.Available))

	if r.Caps.SocialSecurityCapped || r.Caps.FederalUnemploymentCapped {
		b.WriteString("\nℹ️ Annual wage cap reached:")
		if r.Caps.SocialSecurityCapped {
			b.WriteString(" Social Security")
		}
		if r.Caps.FederalUnemploymentCapped {
			b.WriteString(" FUTA")
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n⚠️ Warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "• %s\n", w.Message)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeLines(b *strings.Builder, lines []line) {
	for _, l := range lines {
		fmt.Fprintf(b, "• %s: %s / %s\n", l.label, Money(l.current), Money(l.ytd))
	}
}

// EntriesText - список записей сотрудника
func EntriesText(employee *models.Employee, entries []*models.TimeEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("📭 No time entries for %s in this range.", employee.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Time entries: %s\n\n", employee.Name)

	total := decimal.Zero
	for _, e := range entries {
		fmt.Fprintf(&b, "#%d %s %s %sh × %s", e.ID, e.Date.Format("Mon 2006-01-02"), e.PayType, Hours(e.Hours), Money(e.PayRate))
		if e.Reimbursement.IsPositive() {
			fmt.Fprintf(&b, " +%s", Money(e.Reimbursement))
		}
		if e.HasWithholding() {
			fmt.Fprintf(&b, " [FIT %s]", Money(e.FederalWithholding))
		}
		if e.Note != "" {
			fmt.Fprintf(&b, " – %s", e.Note)
		}
		b.WriteString("\n")
		total = total.Add(e.Hours)
	}

	fmt.Fprintf(&b, "\nTotal hours: %s", Hours(total))
	return b.String()
}

// QuarterlyText - свод квартала по сотрудникам
func QuarterlyText(year, quarter int, summaries []*payroll.PeriodSummary) string {
	if len(summaries) == 0 {
		return fmt.Sprintf("📭 No wages paid in Q%d %d.", quarter, year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Q%d %d\n\n", quarter, year)

	total := decimal.Zero
	for _, s := range summaries {
		t := s.Totals.Totals()
		fmt.Fprintf(&b, "• %s: %s h, gross %s, SUTA %s\n", s.Employee.Name, Hours(t.Hours), Money(t.GrossPay), Money(t.StateUnemployment))
		total = total.Add(t.GrossPay)
	}

	fmt.Fprintf(&b, "\nTotal wages: %s", Money(total))
	return b.String()
}

// AnnualText - годовой свод в духе W-2
func AnnualText(year int, rows []W2Summary) string {
	if len(rows) == 0 {
		return fmt.Sprintf("📭 No wages paid in %d.", year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📑 W-2 summary %d\n", year)

	for _, r := range rows {
		fmt.Fprintf(&b, "\n👤 %s\n", r.Employee)
		fmt.Fprintf(&b, "1 Wages: %s\n", Money(r.Wages))
		fmt.Fprintf(&b, "2 Federal income tax: %s\n", Money(r.FederalIncomeTaxWithheld))
		fmt.Fprintf(&b, "3 Social Security wages: %s\n", Money(r.SocialSecurityWages))
		fmt.Fprintf(&b, "4 Social Security tax: %s\n", Money(r.SocialSecurityTax))
		fmt.Fprintf(&b, "5 Medicare wages: %s\n", Money(r.MedicareWages))
		fmt.Fprintf(&b, "6 Medicare tax: %s\n", Money(r.MedicareTax))
		fmt.Fprintf(&b, "FUTA wages / tax: %s / %s\n", Money(r.FederalUnemploymentWages), Money(r.FederalUnemploymentTax))
	}

	return strings.TrimRight(b.String(), "\n")
}

// HolidaysText - список праздников года
func HolidaysText(year int, holidays []models.PaidHoliday) string {
	if len(holidays) == 0 {
		return fmt.Sprintf("📭 No paid holidays for %d.", year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎉 Paid holidays %d\n\n", year)
	for _, h := range holidays {
		fmt.Fprintf(&b, "• %s – %s\n", h.Date.Format("Mon Jan 2"), h.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}
