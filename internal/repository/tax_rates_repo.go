package repository

import (
	"errors"

	"nanny-payroll-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TaxRatesRepository interface {
	Upsert(rates *models.TaxRates) error
	GetByYear(year int) (*models.TaxRates, error)
	GetMostRecent() (*models.TaxRates, error)
	GetYears() ([]int, error)
}

type GormTaxRatesRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTaxRatesRepository(db *gorm.DB) (*GormTaxRatesRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.TaxRates{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate tax_rates table")
		return nil, err
	}

	logger.Info("Tax rates repository initialized")

	return &GormTaxRatesRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Upsert заменяет ставки того же налогового года
func (r *GormTaxRatesRepository) Upsert(rates *models.TaxRates) error {
	if !rates.IsValid() {
		r.logger.WithField("tax_year", rates.TaxYear).Warn("Invalid tax rates data")
		return errors.New("invalid tax rates data")
	}

	existing, err := r.GetByYear(rates.TaxYear)
	if err != nil {
		return err
	}
	if existing != nil {
		rates.ID = existing.ID
		rates.CreatedAt = existing.CreatedAt
	}

	if err := r.db.Save(rates).Error; err != nil {
		r.logger.WithError(err).Error("Failed to save tax rates")
		return err
	}

	r.logger.WithField("tax_year", rates.TaxYear).Debug("Tax rates saved")
	return nil
}

func (r *GormTaxRatesRepository) GetByYear(year int) (*models.TaxRates, error) {
	var rates models.TaxRates
	result := r.db.Where("tax_year = ?", year).First(&rates)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("tax_year", year).Debug("Tax rates not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get tax rates by year")
		return nil, result.Error
	}

	return &rates, nil
}

func (r *GormTaxRatesRepository) GetMostRecent() (*models.TaxRates, error) {
	var rates models.TaxRates
	result := r.db.Order("tax_year DESC").First(&rates)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get most recent tax rates")
		return nil, result.Error
	}

	return &rates, nil
}

func (r *GormTaxRatesRepository) GetYears() ([]int, error) {
	var years []int
	result := r.db.Model(&models.TaxRates{}).Order("tax_year ASC").Pluck("tax_year", &years)
	return years, result.Error
}
