package repository

import (
	"errors"
	"time"

	"nanny-payroll-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TimeEntryRepository interface {
	Create(entry *models.TimeEntry) error
	BulkCreate(entries []*models.TimeEntry) error
	GetByID(id uint) (*models.TimeEntry, error)
	GetByEmployeeID(employeeID uint) ([]*models.TimeEntry, error)
	GetByEmployeeAndDate(employeeID uint, date time.Time) ([]*models.TimeEntry, error)
	GetInRange(employeeID uint, start, end time.Time) ([]*models.TimeEntry, error)
	SaveAllForEmployee(employeeID uint, entries []*models.TimeEntry) error
	CountByEmployee(employeeID uint) (int64, error)
	Delete(id uint) error
}

type GormTimeEntryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTimeEntryRepository(db *gorm.DB) (*GormTimeEntryRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.TimeEntry{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate time_entries table")
		return nil, err
	}

	logger.Info("Time entry repository initialized")

	return &GormTimeEntryRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormTimeEntryRepository) Create(entry *models.TimeEntry) error {
	r.logger.WithFields(logrus.Fields{
		"employee": entry.Employee,
		"date":     entry.Date.Format(models.DateLayout),
		"pay_type": entry.PayType.String(),
	}).Debug("Creating time entry")

	if err := entry.Validate(); err != nil {
		r.logger.WithError(err).Warn("Invalid time entry data")
		return err
	}

	entry.Date = models.DateOnly(entry.Date)
	if err := r.db.Create(entry).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create time entry")
		return err
	}

	return nil
}

func (r *GormTimeEntryRepository) BulkCreate(entries []*models.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		entry.Date = models.DateOnly(entry.Date)
	}
	return r.db.Create(&entries).Error
}

func (r *GormTimeEntryRepository) GetByID(id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	result := r.db.First(&entry, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Time entry not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get time entry by ID")
		return nil, result.Error
	}

	entry.Date = models.DateOnly(entry.Date)
	return &entry, nil
}

func (r *GormTimeEntryRepository) GetByEmployeeID(employeeID uint) ([]*models.TimeEntry, error) {
	return r.find("Failed to get time entries by employee",
		r.db.Where("employee_id = ?", employeeID))
}

func (r *GormTimeEntryRepository) GetByEmployeeAndDate(employeeID uint, date time.Time) ([]*models.TimeEntry, error) {
	return r.find("Failed to get time entries by date",
		r.db.Where("employee_id = ? AND date = ?", employeeID, models.DateOnly(date)))
}

// GetInRange возвращает записи с датой в [start, end]
func (r *GormTimeEntryRepository) GetInRange(employeeID uint, start, end time.Time) ([]*models.TimeEntry, error) {
	return r.find("Failed to get time entries in range",
		r.db.Where("employee_id = ? AND date >= ? AND date <= ?",
			employeeID, models.DateOnly(start), models.DateOnly(end)))
}

func (r *GormTimeEntryRepository) find(failure string, query *gorm.DB) ([]*models.TimeEntry, error) {
	var entries []*models.TimeEntry
	result := orderEntries(query).Find(&entries)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error(failure)
		return nil, result.Error
	}

	normalizeEntries(entries)
	return entries, nil
}

// entryColumns - изменяемые колонки записи
var entryColumns = []string{
	"date", "tax_year", "hours", "pay_rate", "pay_type",
	"reimbursement", "note", "federal_withholding", "withholding_computed",
}

// SaveAllForEmployee записывает коллекцию записей сотрудника в одной транзакции.
// Существующие записи обновляются по ID, новые создаются. Записи, которых нет
// в коллекции, не удаляются, а удаленные из базы не восстанавливаются.
func (r *GormTimeEntryRepository) SaveAllForEmployee(employeeID uint, entries []*models.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}

	created, updated := 0, 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			entry.EmployeeID = employeeID
			entry.Date = models.DateOnly(entry.Date)

			if entry.ID == 0 {
				if err := tx.Create(entry).Error; err != nil {
					return err
				}
				created++
				continue
			}

			result := tx.Model(entry).Where("employee_id = ?", employeeID).Select(entryColumns).Updates(entry)
			if result.Error != nil {
				return result.Error
			}
			updated += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).WithField("employee_id", employeeID).Error("Failed to save time entries")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"created":     created,
		"updated":     updated,
	}).Debug("Time entries saved")

	return nil
}

func (r *GormTimeEntryRepository) CountByEmployee(employeeID uint) (int64, error) {
	var count int64
	result := r.db.Model(&models.TimeEntry{}).Where("employee_id = ?", employeeID).Count(&count)
	return count, result.Error
}

func (r *GormTimeEntryRepository) Delete(id uint) error {
	result := r.db.Delete(&models.TimeEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("time entry not found")
	}
	return nil
}

// normalizeEntries приводит даты, прочитанные из SQLite, к полуночи UTC
func normalizeEntries(entries []*models.TimeEntry) {
	for _, entry := range entries {
		entry.Date = models.DateOnly(entry.Date)
	}
}
