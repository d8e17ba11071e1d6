package repository

import (
	"errors"

	"nanny-payroll-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployerRepository interface {
	Get() (*models.Employer, error)
	Save(employer *models.Employer) error
}

type GormEmployerRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployerRepository(db *gorm.DB) (*GormEmployerRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.Employer{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate employers table")
		return nil, err
	}

	logger.Info("Employer repository initialized")

	return &GormEmployerRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Get возвращает единственного работодателя или nil
func (r *GormEmployerRepository) Get() (*models.Employer, error) {
	var employer models.Employer
	result := r.db.Order("id ASC").First(&employer)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employer")
		return nil, result.Error
	}

	return &employer, nil
}

// Save перезаписывает единственную строку работодателя
func (r *GormEmployerRepository) Save(employer *models.Employer) error {
	if !employer.IsValid() {
		r.logger.WithField("name", employer.Name).Warn("Invalid employer data")
		return errors.New("invalid employer data")
	}

	existing, err := r.Get()
	if err != nil {
		return err
	}
	if existing != nil {
		employer.ID = existing.ID
		employer.CreatedAt = existing.CreatedAt
	}

	if err := r.db.Save(employer).Error; err != nil {
		r.logger.WithError(err).Error("Failed to save employer")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":          employer.ID,
		"name":        employer.Name,
		"payroll_day": employer.PayrollDayName(),
	}).Debug("Employer saved")

	return nil
}
