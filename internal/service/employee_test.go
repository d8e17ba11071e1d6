package service

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nanny-payroll-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entriesJSON = `[
	{"Date": "2024-01-09", "Employee": "Mary Poppins", "TaxYear": 2024, "Hours": 8, "PayRate": 20, "PayType": 0},
	{"Date": "2024-01-08", "Employee": "Mary Poppins", "TaxYear": 2024, "Hours": 7.5, "PayRate": 20, "PayType": 1, "Note": "vacation"},
	{"Date": "2024-01-12", "Employee": "Mary Poppins", "TaxYear": 2024, "Hours": 8, "PayRate": 20, "PayType": 0,
	 "Reimbursement": 14.5, "FederalWithholding": 3.25}
]`

func TestEmployeeServiceGet(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	employee, err := env.employeeService.Get("  Mary Poppins ")
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", employee.SSN)

	profile, err := employee.WithholdingProfile()
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, models.FilingSingle, profile.FilingStatus)

	_, err = env.employeeService.Get("Bert")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestEmployeeServiceImportAndExport(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "MaryPoppins_TimeEntries.json"), entriesJSON)

	n, err := env.employeeService.ImportEntries(employee, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// повторный импорт не дублирует записи
	n, err = env.employeeService.ImportEntries(employee, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	loaded, err := env.employeeService.Get("Mary Poppins")
	require.NoError(t, err)
	require.Len(t, loaded.TimeEntries, 3)
	assert.Equal(t, day(2024, time.January, 8), loaded.TimeEntries[0].Date)
	assert.Equal(t, models.PayTypePaidTimeOff, loaded.TimeEntries[0].PayType)
	assert.True(t, loaded.TimeEntries[2].HasWithholding())

	out, err := env.employeeService.ExportEntries(loaded)
	require.NoError(t, err)
	exported := string(out)
	assert.Contains(t, exported, `"Date": "2024-01-08"`)
	assert.Contains(t, exported, `"Note": "vacation"`)
	assert.Equal(t, 1, strings.Count(exported, `"Reimbursement"`))

	reparsed, err := ParseTimeEntries(out)
	require.NoError(t, err)
	require.Len(t, reparsed, 3)
	assert.Equal(t, "7.5", reparsed[0].Hours.String())
	assert.Equal(t, "3.25", reparsed[2].FederalWithholding.String())
}

func TestEmployeeServiceImportRejectsForeignEntries(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "entries.json"),
		`[{"Date": "2024-01-09", "Employee": "Bert", "TaxYear": 2024, "Hours": 8, "PayRate": 20, "PayType": 0}]`)

	_, err := env.employeeService.ImportEntries(employee, path)
	assert.Error(t, err)
}

func TestEmployeeServiceSave(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	addWorkWeek(t, env, employee)

	saved, err := env.employeeService.Save(employee)
	require.NoError(t, err)
	assert.False(t, saved)

	employee.TimeEntries[0].Note = "changed"
	employee.MarkDirty()

	saved, err = env.employeeService.Save(employee)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.False(t, employee.IsDirty())

	reloaded, err := env.employeeService.Get("Mary Poppins")
	require.NoError(t, err)
	require.Len(t, reloaded.TimeEntries, 5)
	assert.Equal(t, "changed", reloaded.TimeEntries[0].Note)
}

func TestEmployeeServiceSaveKeepsEntriesAddedAfterLoad(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seed(t)
	addWorkWeek(t, env, employee)

	payslipCopy, err := env.employeeService.Get("Mary Poppins")
	require.NoError(t, err)
	chatCopy, err := env.employeeService.Get("Mary Poppins")
	require.NoError(t, err)

	_, _, err = env.entryService.AddWorkedTime(chatCopy, AddTimeRequest{Date: day(2024, time.January, 15), Hours: dec("8")})
	require.NoError(t, err)
	count, err := env.entries.CountByEmployee(employee.ID)
	require.NoError(t, err)
	require.Equal(t, int64(6), count)

	payslipCopy.TimeEntries[4].SetWithholding(dec("81.85"))
	payslipCopy.MarkDirty()
	saved, err := env.employeeService.Save(payslipCopy)
	require.NoError(t, err)
	assert.True(t, saved)

	stored, err := env.entries.GetByEmployeeID(employee.ID)
	require.NoError(t, err)
	require.Len(t, stored, 6)
	assert.Equal(t, "81.85", stored[4].FederalWithholding.StringFixed(2))
	assert.Equal(t, day(2024, time.January, 15), stored[5].Date)
}
