package service

import (
	"testing"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addWorkWeek(t *testing.T, env *testEnv, employee *models.Employee) {
	t.Helper()
	for d := 8; d <= 12; d++ {
		_, _, err := env.entryService.AddWorkedTime(employee, AddTimeRequest{Date: day(2024, time.January, d), Hours: dec("10")})
		require.NoError(t, err)
	}
}

func TestTimesheetPersistsWithholding(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	addWorkWeek(t, env, employee)

	report, err := env.payrollService.Timesheet("Mary Poppins", day(2024, time.January, 12))
	require.NoError(t, err)

	assert.Equal(t, day(2024, time.January, 6), report.Start)
	assert.True(t, report.WithholdingAttached)
	assert.Equal(t, "81.85", report.Withholding.StringFixed(2))
	assert.Equal(t, "1000.00", report.Current.GrossPay.StringFixed(2))
	assert.Empty(t, report.Warnings)

	stored, err := env.entries.GetByEmployeeID(employee.ID)
	require.NoError(t, err)
	require.Len(t, stored, 5)
	last := stored[len(stored)-1]
	assert.True(t, last.WithholdingComputed)
	assert.Equal(t, "81.85", last.FederalWithholding.StringFixed(2))

	again, err := env.payrollService.Timesheet("Mary Poppins", day(2024, time.January, 12))
	require.NoError(t, err)
	assert.False(t, again.WithholdingAttached)
	assert.Equal(t, "81.85", again.Withholding.StringFixed(2))
	assert.Equal(t, "841.65", again.Current.NetPay().StringFixed(2))
}

func TestTimesheetErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payrollService.Timesheet("Mary Poppins", day(2024, time.January, 12))
	assert.ErrorIs(t, err, ErrEmployerNotConfigured)

	env.seed(t)

	_, err = env.payrollService.Timesheet("Bert", day(2024, time.January, 12))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = env.payrollService.Timesheet("Mary Poppins", day(2024, time.January, 11))
	assert.ErrorIs(t, err, payroll.ErrPayrollDayMismatch)

	_, err = env.payrollService.Timesheet("Mary Poppins", day(2025, time.January, 10))
	assert.ErrorIs(t, err, payroll.ErrTaxRatesMissing)
}

func TestDefaultPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	start, end, err := env.payrollService.DefaultPeriod(day(2024, time.January, 17))
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.January, 6), start)
	assert.Equal(t, day(2024, time.January, 12), end)
}

func TestQuarterlyAndAnnualSummaries(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	addWorkWeek(t, env, employee)

	idle := &models.Employee{Name: "Bert Chimney", PayRate: dec("15")}
	require.NoError(t, env.employees.Create(idle))

	q1, err := env.payrollService.Quarterly(2024, 1)
	require.NoError(t, err)
	require.Len(t, q1, 1)
	assert.Equal(t, "Mary Poppins", q1[0].Employee.Name)
	assert.Equal(t, "50", q1[0].Totals.Hours.String())
	assert.Equal(t, "1000.00", q1[0].Totals.GrossPay.StringFixed(2))

	q2, err := env.payrollService.Quarterly(2024, 2)
	require.NoError(t, err)
	assert.Empty(t, q2)

	_, err = env.payrollService.Quarterly(2024, 5)
	assert.ErrorIs(t, err, payroll.ErrInvalidQuarter)

	annual, err := env.payrollService.Annual(2024)
	require.NoError(t, err)
	require.Len(t, annual, 1)
	assert.Equal(t, "62.00", annual[0].Totals.SocialSecurityEmployee.StringFixed(2))

	single, err := env.payrollService.EmployeeAnnual("Mary Poppins", 2024)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", single.Totals.GrossPay.StringFixed(2))
}

func TestTimesheetSplitDayKeepsSingleWithholding(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	addWorkWeek(t, env, employee)

	first, err := env.payrollService.Timesheet("Mary Poppins", day(2024, time.January, 12))
	require.NoError(t, err)
	require.True(t, first.WithholdingAttached)

	reloaded, err := env.employeeService.Get("Mary Poppins")
	require.NoError(t, err)
	_, _, err = env.entryService.AddWorkedTime(reloaded, AddTimeRequest{
		Date:    day(2024, time.January, 12),
		Hours:   dec("2"),
		PayType: payType(models.PayTypePaidSickTime),
	})
	require.NoError(t, err)

	second, err := env.payrollService.Timesheet("Mary Poppins", day(2024, time.January, 12))
	require.NoError(t, err)

	assert.False(t, second.WithholdingAttached)
	assert.Equal(t, "1040.00", second.Current.GrossPay.StringFixed(2))
	assert.Equal(t, "81.85", second.Withholding.StringFixed(2))

	stored, err := env.entries.GetInRange(employee.ID, day(2024, time.January, 6), day(2024, time.January, 12))
	require.NoError(t, err)
	require.Len(t, stored, 6)
	withheld := 0
	for _, e := range stored {
		if e.HasWithholding() {
			withheld++
		}
	}
	assert.Equal(t, 1, withheld)
}

func TestTimesheetKeepsEntryIDs(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	addWorkWeek(t, env, employee)

	before, err := env.entries.GetByEmployeeID(employee.ID)
	require.NoError(t, err)

	report, err := env.payrollService.Timesheet("Mary Poppins", day(2024, time.January, 12))
	require.NoError(t, err)
	require.True(t, report.WithholdingAttached)

	after, err := env.entries.GetByEmployeeID(employee.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}

	// ID, показанный до расчета, по-прежнему можно удалить
	reloaded, err := env.employeeService.Get("Mary Poppins")
	require.NoError(t, err)
	require.NoError(t, env.entryService.DeleteEntry(reloaded, before[0].ID))
}
