package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"
	"nanny-payroll-bot/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	users     *repository.UserRepository
	employees *repository.GormEmployeeRepository
	entries   *repository.GormTimeEntryRepository
	rates     *repository.GormTaxRatesRepository
	holidays  *repository.GormPaidHolidayRepository
	employers *repository.GormEmployerRepository

	employerService *EmployerService
	employeeService *EmployeeService
	entryService    *TimeEntryService
	ratesService    *TaxRatesService
	holidayService  *PaidHolidayService
	userService     *UserService
	payrollService  *PayrollService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })

	env := &testEnv{}
	env.employees, err = repository.NewGormEmployeeRepository(db)
	require.NoError(t, err)
	env.entries, err = repository.NewGormTimeEntryRepository(db)
	require.NoError(t, err)
	env.rates, err = repository.NewGormTaxRatesRepository(db)
	require.NoError(t, err)
	env.holidays, err = repository.NewGormPaidHolidayRepository(db)
	require.NoError(t, err)
	env.employers, err = repository.NewGormEmployerRepository(db)
	require.NoError(t, err)
	env.users, err = repository.NewUserRepository(db)
	require.NoError(t, err)

	env.employerService = NewEmployerService(env.employers)
	env.employeeService = NewEmployeeService(env.employees, env.entries)
	env.entryService = NewTimeEntryService(env.entries, env.rates, env.holidays, env.employeeService.Locks())
	env.ratesService = NewTaxRatesService(env.rates)
	env.holidayService = NewPaidHolidayService(env.holidays)
	env.userService = NewUserService(env.users, env.employees)
	env.payrollService = NewPayrollService(env.employerService, env.employeeService, env.rates, payroll.DefaultConfig(), 6)
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func payType(p models.PayType) *models.PayType {
	return &p
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const taxRates2024JSON = `[{
	"TaxYear": 2024,
	"MedicareEmployee": 1.45,
	"MedicareCompany": 1.45,
	"SocialSecurityEmployee": 6.2,
	"SocialSecurityCompany": 6.2,
	"PaidFamilyMedicalLeaveEmployee": 0,
	"PaidFamilyMedicalLeaveCompany": 0,
	"LongTermCareEmployee": 0,
	"FederalUnemployment": 0.6,
	"StateUnemployment": 1.2,
	"FederalUnemploymentWageCap": 7000,
	"SocialSecurityWageCap": 168600,
	"WithholdingAdjustmentMarried": 12900,
	"WithholdingAdjustmentOther": 8600,
	"FederalWithholding": {
		"MultipleJobsNotChecked": {
			"Single": [
				{"A": 0, "B": 6000, "C": 0, "D": 0, "E": 0},
				{"A": 6000, "B": 17600, "C": 0, "D": 10, "E": 6000},
				{"A": 17600, "B": 53150, "C": 1160, "D": 12, "E": 17600},
				{"A": 53150, "B": -1, "C": 5426, "D": 22, "E": 53150}
			]
		}
	}
}]`

const employerJSON = `{
	"Name": "George Banks",
	"EIN": "12-3456789",
	"BusinessID": "604-123-456",
	"AddressLine1": "17 Cherry Tree Lane",
	"AddressLine2": "London",
	"AddressLine3": "",
	"PayrollDay": "Friday"
}`

const employeeJSON = `{
	"Name": "Mary Poppins",
	"SSN": "123-45-6789",
	"PayRate": 20,
	"PaidVacationHoursPerYear": 40,
	"PaidSickHoursPerYear": 24,
	"PaidHolidayHoursPerYear": 16,
	"AddressLine1": "1 Sky Road",
	"W4": {"FilingStatus": "Single"}
}`

// seed загружает ставки 2024, работодателя и одного сотрудника
func (env *testEnv) seed(t *testing.T) *models.Employee {
	t.Helper()
	dir := t.TempDir()

	_, err := env.ratesService.LoadFromJSON(writeFile(t, filepath.Join(dir, "tax_rates.json"), taxRates2024JSON))
	require.NoError(t, err)
	_, err = env.employerService.LoadFromJSON(writeFile(t, filepath.Join(dir, "employer.json"), employerJSON))
	require.NoError(t, err)
	_, err = env.employeeService.LoadFromJSON(writeFile(t, filepath.Join(dir, "MaryPoppins.json"), employeeJSON))
	require.NoError(t, err)

	employee, err := env.employeeService.Get("Mary Poppins")
	require.NoError(t, err)
	return employee
}
