package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const timeEntriesSuffix = "_TimeEntries"

// BootstrapFiles - файлы начальных данных. Пустой путь означает, что файл не задан.
type BootstrapFiles struct {
	TaxRatesFile string
	EmployerFile string
	EmployeesDir string
	HolidaysFile string
}

// BootstrapResult - сколько чего загружено
type BootstrapResult struct {
	TaxYears      int
	EmployerSaved bool
	Employees     int
	TimeEntries   int
	Holidays      int
}

type Bootstrapper struct {
	taxRates  *TaxRatesService
	employers *EmployerService
	employees *EmployeeService
	holidays  *PaidHolidayService
	logger    *logrus.Logger
}

func NewBootstrapper(
	taxRates *TaxRatesService,
	employers *EmployerService,
	employees *EmployeeService,
	holidays *PaidHolidayService,
) *Bootstrapper {
	return &Bootstrapper{
		taxRates:  taxRates,
		employers: employers,
		employees: employees,
		holidays:  holidays,
		logger:    newLogger(),
	}
}

// Run загружает существующие файлы. Отсутствие ставок - ошибка, только если
// в базе тоже нет ни одного года. Отсутствие файла праздников - предупреждение.
func (b *Bootstrapper) Run(files BootstrapFiles) (*BootstrapResult, error) {
	result := &BootstrapResult{}

	if exists(files.TaxRatesFile) {
		n, err := b.taxRates.LoadFromJSON(files.TaxRatesFile)
		if err != nil {
			return nil, err
		}
		result.TaxYears = n
	} else {
		hasRates, err := b.taxRates.HasAny()
		if err != nil {
			return nil, err
		}
		if !hasRates {
			return nil, fmt.Errorf("%w: tax rates file %q not found", ErrNoTaxRates, files.TaxRatesFile)
		}
		b.logger.WithField("file", files.TaxRatesFile).Warn("Tax rates file not found, using stored rates")
	}

	if exists(files.EmployerFile) {
		if _, err := b.employers.LoadFromJSON(files.EmployerFile); err != nil {
			return nil, err
		}
		result.EmployerSaved = true
	} else if files.EmployerFile != "" {
		b.logger.WithField("file", files.EmployerFile).Warn("Employer file not found")
	}

	if files.EmployeesDir != "" {
		employees, entries, err := b.loadEmployees(files.EmployeesDir)
		if err != nil {
			return nil, err
		}
		result.Employees, result.TimeEntries = employees, entries
	}

	if exists(files.HolidaysFile) {
		n, err := b.holidays.LoadFromJSON(files.HolidaysFile)
		if err != nil {
			return nil, err
		}
		result.Holidays = n
	} else {
		b.logger.WithField("file", files.HolidaysFile).Warn("Holidays file not found, paid holidays will not be suggested")
	}

	b.logger.WithFields(logrus.Fields{
		"tax_years":    result.TaxYears,
		"employees":    result.Employees,
		"time_entries": result.TimeEntries,
		"holidays":     result.Holidays,
	}).Info("Bootstrap data loaded")

	return result, nil
}

// loadEmployees читает <dir>/<Name>/<Name>.json и <Name>_TimeEntries.json рядом с ним
func (b *Bootstrapper) loadEmployees(dir string) (int, int, error) {
	if !exists(dir) {
		b.logger.WithField("dir", dir).Warn("Employees directory not found")
		return 0, 0, nil
	}

	var employees, entries int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		stem := strings.TrimSuffix(d.Name(), ".json")
		if strings.Contains(stem, "_") {
			return nil
		}

		employee, err := b.employees.LoadFromJSON(path)
		if err != nil {
			return err
		}
		employees++

		entriesFile := filepath.Join(filepath.Dir(path), stem+timeEntriesSuffix+".json")
		if !exists(entriesFile) {
			return nil
		}
		n, err := b.employees.ImportEntries(employee, entriesFile)
		if err != nil {
			return err
		}
		entries += n
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load employees: %w", err)
	}

	return employees, entries, nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
