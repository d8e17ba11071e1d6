package repository

import (
	"errors"

	"nanny-payroll-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	Update(employee *models.Employee) error
	Upsert(employee *models.Employee) error
	GetByID(id uint) (*models.Employee, error)
	GetByName(name string) (*models.Employee, error)
	GetByNameWithEntries(name string) (*models.Employee, error)
	GetAll() ([]*models.Employee, error)
	GetAllWithEntries() ([]*models.Employee, error)
	Delete(id uint) error
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate employees table")
		return nil, err
	}

	logger.Info("Employee repository initialized")

	return &GormEmployeeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	if !employee.IsValid() {
		r.logger.WithField("name", employee.Name).Warn("Invalid employee data")
		return errors.New("invalid employee data")
	}

	exists, err := r.GetByName(employee.Name)
	if err != nil {
		return err
	}
	if exists != nil {
		return errors.New("employee already exists")
	}

	// записи сохраняются отдельно через TimeEntryRepository
	if err := r.db.Omit("TimeEntries").Create(employee).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create employee")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":   employee.ID,
		"name": employee.Name,
	}).Debug("Employee created")

	return nil
}

func (r *GormEmployeeRepository) Update(employee *models.Employee) error {
	if !employee.IsValid() {
		r.logger.WithField("id", employee.ID).Warn("Invalid employee data for update")
		return errors.New("invalid employee data")
	}

	result := r.db.Omit("TimeEntries").Save(employee)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update employee")
		return result.Error
	}

	return nil
}

// Upsert обновляет сотрудника с тем же именем или создает нового
func (r *GormEmployeeRepository) Upsert(employee *models.Employee) error {
	existing, err := r.GetByName(employee.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.Create(employee)
	}

	employee.ID = existing.ID
	employee.CreatedAt = existing.CreatedAt
	return r.Update(employee)
}

func (r *GormEmployeeRepository) GetByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.First(&employee, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Employee not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by ID")
		return nil, result.Error
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetByName(name string) (*models.Employee, error) {
	return r.getByName(r.db, name)
}

// GetByNameWithEntries загружает сотрудника вместе со всеми записями по возрастанию даты
func (r *GormEmployeeRepository) GetByNameWithEntries(name string) (*models.Employee, error) {
	employee, err := r.getByName(r.db.Preload("TimeEntries", orderEntries), name)
	if err != nil || employee == nil {
		return employee, err
	}
	normalizeEntries(employee.TimeEntries)
	return employee, nil
}

func (r *GormEmployeeRepository) getByName(db *gorm.DB, name string) (*models.Employee, error) {
	var employee models.Employee
	result := db.Where("name = ?", name).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("name", name).Debug("Employee not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by name")
		return nil, result.Error
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetAll() ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.Order("name ASC").Find(&employees)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employees")
		return nil, result.Error
	}

	return employees, nil
}

func (r *GormEmployeeRepository) GetAllWithEntries() ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.Preload("TimeEntries", orderEntries).Order("name ASC").Find(&employees)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employees with entries")
		return nil, result.Error
	}

	for _, employee := range employees {
		normalizeEntries(employee.TimeEntries)
	}

	r.logger.WithField("count", len(employees)).Debug("Retrieved employees with entries")

	return employees, nil
}

func (r *GormEmployeeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Employee{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("employee not found")
		}
		return nil
	})
}

func orderEntries(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC, id ASC")
}
