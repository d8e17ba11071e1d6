package repository

import (
	"testing"
	"time"

	"nanny-payroll-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEntries(t *testing.T) (*GormTimeEntryRepository, *models.Employee) {
	t.Helper()
	db := newTestDB(t)
	employees, err := NewGormEmployeeRepository(db)
	require.NoError(t, err)
	entries, err := NewGormTimeEntryRepository(db)
	require.NoError(t, err)

	employee := newEmployee("Mary Poppins")
	require.NoError(t, employees.Create(employee))
	return entries, employee
}

func workEntry(employee *models.Employee, date time.Time, hours string) *models.TimeEntry {
	return &models.TimeEntry{
		EmployeeID: employee.ID,
		Employee:   employee.Name,
		Date:       date,
		TaxYear:    date.Year(),
		Hours:      dec(hours),
		PayRate:    employee.PayRate,
	}
}

func TestTimeEntryRepositoryRangeIsInclusive(t *testing.T) {
	repo, employee := setupEntries(t)

	for d := 5; d <= 13; d++ {
		require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, d), "8")))
	}

	entries, err := repo.GetInRange(employee.ID, day(2024, time.January, 6), day(2024, time.January, 12))
	require.NoError(t, err)
	require.Len(t, entries, 7)
	assert.Equal(t, day(2024, time.January, 6), entries[0].Date)
	assert.Equal(t, day(2024, time.January, 12), entries[6].Date)
}

func TestTimeEntryRepositoryKeepsWithholding(t *testing.T) {
	repo, employee := setupEntries(t)

	entry := workEntry(employee, day(2024, time.January, 12), "12.5")
	entry.Reimbursement = dec("5")
	entry.Note = "park trip"
	entry.SetWithholding(dec("81.85"))
	require.NoError(t, repo.Create(entry))

	loaded, err := repo.GetByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "12.50", loaded.Hours.StringFixed(2))
	assert.Equal(t, "81.85", loaded.FederalWithholding.StringFixed(2))
	assert.Equal(t, "5.00", loaded.Reimbursement.StringFixed(2))
	assert.True(t, loaded.WithholdingComputed)
	assert.Equal(t, "park trip", loaded.Note)
}

func TestTimeEntryRepositoryByDate(t *testing.T) {
	repo, employee := setupEntries(t)

	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 8), "4")))
	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 8), "3")))
	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 9), "8")))

	entries, err := repo.GetByEmployeeAndDate(employee.ID, time.Date(2024, time.January, 8, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTimeEntryRepositoryRejectsInvalid(t *testing.T) {
	repo, employee := setupEntries(t)

	assert.ErrorIs(t, repo.Create(workEntry(employee, day(2024, time.January, 8), "25")), models.ErrInvalidTimeEntry)
	assert.ErrorIs(t, repo.Create(workEntry(employee, day(2024, time.January, 8), "0")), models.ErrInvalidTimeEntry)
}

func TestTimeEntryRepositorySaveAll(t *testing.T) {
	repo, employee := setupEntries(t)

	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 8), "4")))
	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 9), "4")))

	stored, err := repo.GetByEmployeeID(employee.ID)
	require.NoError(t, err)
	ids := []uint{stored[0].ID, stored[1].ID}
	stored[1].SetWithholding(dec("0"))
	stored = append(stored, workEntry(employee, day(2024, time.January, 10), "6"))

	require.NoError(t, repo.SaveAllForEmployee(employee.ID, stored))

	reloaded, err := repo.GetByEmployeeID(employee.ID)
	require.NoError(t, err)
	require.Len(t, reloaded, 3)
	assert.Equal(t, ids[0], reloaded[0].ID)
	assert.Equal(t, ids[1], reloaded[1].ID)
	assert.False(t, reloaded[0].HasWithholding())
	assert.True(t, reloaded[1].HasWithholding())
	assert.Equal(t, day(2024, time.January, 10), reloaded[2].Date)
	assert.NotZero(t, reloaded[2].ID)
}

func TestTimeEntryRepositorySaveAllKeepsOtherRows(t *testing.T) {
	repo, employee := setupEntries(t)

	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 8), "4")))
	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 9), "4")))

	// старая копия коллекции без записи за 10 января
	snapshot, err := repo.GetByEmployeeID(employee.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Create(workEntry(employee, day(2024, time.January, 10), "6")))
	require.NoError(t, repo.Delete(snapshot[0].ID))

	snapshot[1].SetWithholding(dec("12.34"))
	require.NoError(t, repo.SaveAllForEmployee(employee.ID, snapshot))

	reloaded, err := repo.GetByEmployeeID(employee.ID)
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	assert.Equal(t, day(2024, time.January, 9), reloaded[0].Date)
	assert.Equal(t, "12.34", reloaded[0].FederalWithholding.StringFixed(2))
	assert.Equal(t, day(2024, time.January, 10), reloaded[1].Date)
}
