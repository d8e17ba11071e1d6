package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nanny-payroll-bot/internal/payroll"
	"nanny-payroll-bot/internal/repository"
	"nanny-payroll-bot/internal/service"

	"github.com/stretchr/testify/require"
)

const taxRatesJSON = `[{
	"TaxYear": 2024,
	"MedicareEmployee": 1.45,
	"MedicareCompany": 1.45,
	"SocialSecurityEmployee": 6.2,
	"SocialSecurityCompany": 6.2,
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

const employerJSON = `{"Name": "George Banks", "EIN": "12-3456789", "AddressLine1": "17 Cherry Tree Lane", "PayrollDay": "Friday"}`

const employeeJSON = `{
	"Name": "Mary Poppins",
	"SSN": "123-45-6789",
	"PayRate": 20,
	"PaidVacationHoursPerYear": 40,
	"PaidSickHoursPerYear": 24,
	"AddressLine1": "1 Sky Road",
	"W4": {"FilingStatus": "Single"}
}`

// newTestServer поднимает API на sqlite в памяти с загруженными ставками 2024,
// работодателем и одним сотрудником
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })

	employees, err := repository.NewGormEmployeeRepository(db)
	require.NoError(t, err)
	entries, err := repository.NewGormTimeEntryRepository(db)
	require.NoError(t, err)
	rates, err := repository.NewGormTaxRatesRepository(db)
	require.NoError(t, err)
	holidays, err := repository.NewGormPaidHolidayRepository(db)
	require.NoError(t, err)
	employers, err := repository.NewGormEmployerRepository(db)
	require.NoError(t, err)

	employerService := service.NewEmployerService(employers)
	employeeService := service.NewEmployeeService(employees, entries)
	holidayService := service.NewPaidHolidayService(holidays)

	dir := t.TempDir()
	_, err = service.NewTaxRatesService(rates).LoadFromJSON(writeTestFile(t, dir, "tax_rates.json", taxRatesJSON))
	require.NoError(t, err)
	_, err = employerService.LoadFromJSON(writeTestFile(t, dir, "employer.json", employerJSON))
	require.NoError(t, err)
	_, err = employeeService.LoadFromJSON(writeTestFile(t, dir, "MaryPoppins.json", employeeJSON))
	require.NoError(t, err)
	_, err = holidayService.Add("New Year's Day", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	handler := NewHandler(Services{
		Employees: employeeService,
		Entries:   service.NewTimeEntryService(entries, rates, holidays, employeeService.Locks()),
		Holidays:  holidayService,
		Payroll:   service.NewPayrollService(employerService, employeeService, rates, payroll.DefaultConfig(), 6),
	}, "399011")
	handler.now = func() time.Time { return time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC) }

	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)
	return server
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// decodeEnvelope читает ответ и раскладывает data в out
func decodeEnvelope(t *testing.T, resp *http.Response, out any) Envelope {
	t.Helper()
	var raw struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return raw.Envelope
}
