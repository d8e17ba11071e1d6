package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
	"unicode/utf8"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testEmployee() *models.Employee {
	return &models.Employee{
		Name:         "Mary Poppins",
		SSN:          "123-45-6789",
		PayRate:      dec("20"),
		AddressLine1: "17 Cherry Tree Lane",
		AddressLine2: "London",
	}
}

func testReport() *payroll.Report {
	employer := &models.Employer{Name: "George Banks", EIN: "12-3456789", AddressLine1: "17 Cherry Tree Lane", PayrollDay: time.Friday}
	employee := testEmployee()

	entries := []*models.TimeEntry{
		{ID: 1, Employee: employee.Name, Date: day(2024, 1, 8), TaxYear: 2024, Hours: dec("10"), PayRate: dec("20")},
		{ID: 2, Employee: employee.Name, Date: day(2024, 1, 9), TaxYear: 2024, Hours: dec("8"), PayRate: dec("20"),
			PayType: models.PayTypePaidSickTime, Reimbursement: dec("12.50"), Note: "flu"},
	}

	current := &payroll.Accumulator{
		Hours:                  dec("18"),
		GrossPay:               dec("360"),
		Reimbursement:          dec("12.50"),
		MedicareEmployee:       dec("5.22"),
		SocialSecurityEmployee: dec("22.32"),
		FederalWithholding:     dec("10"),
		StateUnemployment:      dec("10.8"),
	}
	ytd := &payroll.Accumulator{
		Hours:                  dec("18"),
		GrossPay:               dec("360"),
		Reimbursement:          dec("12.50"),
		MedicareEmployee:       dec("5.22"),
		SocialSecurityEmployee: dec("22.32"),
		FederalWithholding:     dec("10"),
		StateUnemployment:      dec("10.8"),
	}

	return &payroll.Report{
		Employer:   employer,
		Employee:   employee,
		Start:      day(2024, 1, 6),
		End:        day(2024, 1, 12),
		YTDStart:   day(2023, 12, 30),
		Entries:    entries,
		Current:    current,
		YearToDate: ytd,
		Caps:       payroll.CapResult{SocialSecurityCapped: true},
		Leave: payroll.LeaveBalances{
			Sick: payroll.LeaveBalance{Allotted: dec("24"), Used: dec("8"), Available: dec("16")},
		},
		Warnings: []payroll.Warning{payroll.NewWarning(payroll.WarnInvalidProfile, "W-4 profile is invalid")},
	}
}

func TestQuarterlyCSV(t *testing.T) {
	summaries := []*payroll.PeriodSummary{
		{Employee: testEmployee(), Totals: &payroll.Accumulator{Hours: dec("49.5"), GrossPay: dec("1000")}},
		{
			Employee: &models.Employee{Name: "Bert Alfred Smith", SSN: "987-65-4321"},
			Totals:   &payroll.Accumulator{Hours: dec("12"), GrossPay: dec("240.456")},
		},
	}

	data, err := QuarterlyCSV(summaries, "")
	require.NoError(t, err)
	assert.Equal(t,
		"123-45-6789,Poppins,Mary,,50,1000.00,399011\n"+
			"987-65-4321,Smith,Bert,A,12,240.46,399011\n",
		string(data))

	rows := QuarterlyRows(summaries[:1], "111111")
	require.Len(t, rows, 1)
	assert.Equal(t, "111111", rows[0].OccupationalCode)

	assert.Equal(t, "Quarterly_2024_Q1.csv", QuarterlyFileName(2024, 1))
}

func TestQuarterlyRowsSkipUnpaidHours(t *testing.T) {
	summaries := []*payroll.PeriodSummary{{
		Employee: &models.Employee{Name: "Ana élise Ruiz", SSN: "111-22-3333"},
		Totals:   &payroll.Accumulator{Hours: dec("44"), UnpaidHours: dec("4.5"), GrossPay: dec("790")},
	}}

	data, err := QuarterlyCSV(summaries, "")
	require.NoError(t, err)
	assert.Equal(t, "111-22-3333,Ruiz,Ana,É,40,790.00,399011\n", string(data))
	assert.True(t, utf8.Valid(data))
}

func TestAnnualSummaries(t *testing.T) {
	summaries := []*payroll.PeriodSummary{{
		Employee: testEmployee(),
		Totals: &payroll.Accumulator{
			GrossPay:                 dec("15000"),
			SocialSecurityWages:      dec("10000"),
			SocialSecurityEmployee:   dec("620"),
			MedicareEmployee:         dec("217.50"),
			FederalWithholding:       dec("900"),
			FederalUnemploymentWages: dec("7000"),
			FederalUnemployment:      dec("42"),
		},
	}}

	rows := AnnualSummaries(summaries)
	require.Len(t, rows, 1)
	w2 := rows[0]
	assert.Equal(t, "Mary Poppins", w2.Employee)
	assert.Equal(t, "17 Cherry Tree Lane, London", w2.Address)
	assert.True(t, w2.Wages.Equal(dec("15000")))
	assert.True(t, w2.MedicareWages.Equal(dec("15000")))
	assert.True(t, w2.SocialSecurityWages.Equal(dec("10000")))
	assert.True(t, w2.SocialSecurityTax.Equal(dec("620")))
	assert.True(t, w2.FederalIncomeTaxWithheld.Equal(dec("900")))
	assert.True(t, w2.FederalUnemploymentTax.Equal(dec("42")))

	text := AnnualText(2024, rows)
	assert.Contains(t, text, "W-2 summary 2024")
	assert.Contains(t, text, "3 Social Security wages: $10,000.00")

	assert.Equal(t, "📭 No wages paid in 2024.", AnnualText(2024, nil))
}

func TestPayslipView(t *testing.T) {
	view := NewPayslipView(testReport())

	assert.Equal(t, "Friday", view.PayrollDay)
	assert.Equal(t, "2024-01-06", view.Start)
	assert.Equal(t, "2024-01-12", view.End)
	assert.Equal(t, "XXX-XX-6789", view.Employee.TaxID)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "200", view.Entries[0].GrossPay.String())
	assert.True(t, view.Current.NetPay.Equal(dec("322.46")))

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"payroll_day_name":"Friday"`)
	assert.NotContains(t, string(data), "withholding_worksheet")
}

func TestPayslipText(t *testing.T) {
	text := PayslipText(testReport())

	assert.Contains(t, text, "Payslip: Mary Poppins")
	assert.Contains(t, text, "2024-01-06 – 2024-01-12 (paid Friday)")
	assert.Contains(t, text, "• Gross pay: $360.00 / $360.00")
	assert.Contains(t, text, "• Check amount: $334.96 / $334.96")
	assert.Contains(t, text, "• Sick: 8 / 16")
	assert.Contains(t, text, "Social Security")
	assert.Contains(t, text, "W-4 profile is invalid")
}

func TestPayslipPDF(t *testing.T) {
	doc, err := PayslipPDF(testReport())
	require.NoError(t, err)

	assert.Equal(t, "Payroll_MaryPoppins_2024-01-12.pdf", doc.Name)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.NotEmpty(t, doc.Number)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestEntriesAndHolidaysText(t *testing.T) {
	r := testReport()

	text := EntriesText(r.Employee, r.Entries)
	assert.Contains(t, text, "#2 Tue 2024-01-09")
	assert.Contains(t, text, "+$12.50")
	assert.Contains(t, text, "– flu")
	assert.Contains(t, text, "Total hours: 18")

	assert.Contains(t, EntriesText(r.Employee, nil), "No time entries for Mary Poppins")

	holidays := []models.PaidHoliday{{Name: "New Year's Day", Date: day(2024, 1, 1)}}
	assert.Contains(t, HolidaysText(2024, holidays), "• Mon Jan 1 – New Year's Day")
	assert.Equal(t, "📭 No paid holidays for 2025.", HolidaysText(2025, nil))
}

func TestQuarterlyText(t *testing.T) {
	summaries := []*payroll.PeriodSummary{
		{Employee: testEmployee(), Totals: &payroll.Accumulator{Hours: dec("50"), GrossPay: dec("1000"), StateUnemployment: dec("30")}},
	}
	text := QuarterlyText(2024, 1, summaries)
	assert.Contains(t, text, "Q1 2024")
	assert.Contains(t, text, "• Mary Poppins: 50 h, gross $1,000.00, SUTA $30.00")
	assert.Contains(t, text, "Total wages: $1,000.00")
}
