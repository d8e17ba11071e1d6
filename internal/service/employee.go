package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type EmployeeService struct {
	employees repository.EmployeeRepository
	entries   repository.TimeEntryRepository
	locks     *EmployeeLocks
	logger    *logrus.Logger
}

func NewEmployeeService(employees repository.EmployeeRepository, entries repository.TimeEntryRepository) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		entries:   entries,
		locks:     NewEmployeeLocks(),
		logger:    newLogger(),
	}
}

// Locks - мьютексы сотрудников, общие для сервисов, которые меняют записи
func (s *EmployeeService) Locks() *EmployeeLocks {
	return s.locks
}

// Get загружает сотрудника со всеми записями
func (s *EmployeeService) Get(name string) (*models.Employee, error) {
	employee, err := s.employees.GetByNameWithEntries(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: %q", ErrEmployeeNotFound, name)
	}
	return employee, nil
}

// GetByID загружает сотрудника без записей, nil если не найден
func (s *EmployeeService) GetByID(id uint) (*models.Employee, error) {
	return s.employees.GetByID(id)
}

// List возвращает всех сотрудников без записей
func (s *EmployeeService) List() ([]*models.Employee, error) {
	return s.employees.GetAll()
}

// ListWithEntries возвращает всех сотрудников с записями
func (s *EmployeeService) ListWithEntries() ([]*models.Employee, error) {
	return s.employees.GetAllWithEntries()
}

func (s *EmployeeService) Upsert(employee *models.Employee) error {
	return s.employees.Upsert(employee)
}

// Save записывает коллекцию записей сотрудника, если она менялась в памяти.
// Записи, добавленные в базу после загрузки сотрудника, сохраняются.
// Возвращает true, если что-то было записано.
func (s *EmployeeService) Save(employee *models.Employee) (bool, error) {
	if !employee.IsDirty() {
		return false, nil
	}

	if err := s.entries.SaveAllForEmployee(employee.ID, employee.TimeEntries); err != nil {
		return false, fmt.Errorf("failed to save time entries for %s: %w", employee.Name, err)
	}
	employee.ClearDirty()

	s.logger.WithFields(logrus.Fields{
		"employee": employee.Name,
		"entries":  len(employee.TimeEntries),
	}).Info("Time entries saved")

	return true, nil
}

// LoadFromJSON читает файл сотрудника и сохраняет его по имени
func (s *EmployeeService) LoadFromJSON(filePath string) (*models.Employee, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read employee file: %w", err)
	}

	var employee models.Employee
	if err := json.Unmarshal(data, &employee); err != nil {
		return nil, fmt.Errorf("failed to parse employee file %s: %w", filePath, err)
	}

	if _, err := employee.WithholdingProfile(); err != nil {
		s.logger.WithError(err).WithField("employee", employee.Name).
			Warn("Withholding profile is invalid, federal withholding will be skipped")
	}

	if err := s.employees.Upsert(&employee); err != nil {
		return nil, fmt.Errorf("failed to save employee %s: %w", employee.Name, err)
	}

	s.logger.WithField("employee", employee.Name).Info("Employee loaded")
	return &employee, nil
}

// ParseTimeEntries разбирает массив записей в разреженном формате
func ParseTimeEntries(data []byte) ([]*models.TimeEntry, error) {
	var entries []*models.TimeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse time entries: %w", err)
	}
	sortEntries(entries)
	return entries, nil
}

// ImportEntries загружает записи из файла, только если у сотрудника их еще нет
func (s *EmployeeService) ImportEntries(employee *models.Employee, filePath string) (int, error) {
	count, err := s.entries.CountByEmployee(employee.ID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.WithFields(logrus.Fields{
			"employee": employee.Name,
			"stored":   count,
		}).Debug("Time entries already stored, skipping import")
		return 0, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read time entries file: %w", err)
	}

	entries, err := ParseTimeEntries(data)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if entry.Employee != "" && entry.Employee != employee.Name {
			return 0, fmt.Errorf("time entry %s belongs to %q, not %q",
				entry.Date.Format(models.DateLayout), entry.Employee, employee.Name)
		}
		entry.Employee = employee.Name
		entry.EmployeeID = employee.ID
	}

	if err := s.entries.BulkCreate(entries); err != nil {
		return 0, fmt.Errorf("failed to import time entries for %s: %w", employee.Name, err)
	}

	s.logger.WithFields(logrus.Fields{
		"employee": employee.Name,
		"count":    len(entries),
	}).Info("Time entries imported")

	return len(entries), nil
}

// ExportEntries возвращает все записи сотрудника в разреженном формате
func (s *EmployeeService) ExportEntries(employee *models.Employee) ([]byte, error) {
	entries := employee.TimeEntries
	if entries == nil {
		entries = []*models.TimeEntry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// OverlappingEntries возвращает записи сотрудника на ту же дату
func (s *EmployeeService) OverlappingEntries(employee *models.Employee, date time.Time) []*models.TimeEntry {
	return employee.EntriesInRange(date, date)
}

func sortEntries(entries []*models.TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
