package repository

import (
	"time"

	"nanny-payroll-bot/internal/models"

	"gorm.io/gorm"
)

type PaidHolidayRepository interface {
	Create(holiday *models.PaidHoliday) error
	GetByDate(date time.Time) (*models.PaidHoliday, error)
	GetByYear(year int) ([]models.PaidHoliday, error)
	GetAll() ([]models.PaidHoliday, error)
	BulkCreate(holidays []models.PaidHoliday) error
	DeleteAll() error
	IsPaidHoliday(date time.Time) (bool, error)
}

type GormPaidHolidayRepository struct {
	db *gorm.DB
}

func NewGormPaidHolidayRepository(db *gorm.DB) (*GormPaidHolidayRepository, error) {
	// Автомиграция для таблицы paid_holidays
	if err := db.AutoMigrate(&models.PaidHoliday{}); err != nil {
		return nil, err
	}

	return &GormPaidHolidayRepository{db: db}, nil
}

func (r *GormPaidHolidayRepository) Create(holiday *models.PaidHoliday) error {
	holiday.Date = models.DateOnly(holiday.Date)
	holiday.Year = holiday.Date.Year()
	return r.db.Create(holiday).Error
}

func (r *GormPaidHolidayRepository) BulkCreate(holidays []models.PaidHoliday) error {
	if len(holidays) == 0 {
		return nil
	}
	for i := range holidays {
		holidays[i].Date = models.DateOnly(holidays[i].Date)
		holidays[i].Year = holidays[i].Date.Year()
	}
	return r.db.Create(&holidays).Error
}

// GetByDate возвращает nil, если праздника нет
func (r *GormPaidHolidayRepository) GetByDate(date time.Time) (*models.PaidHoliday, error) {
	var holidays []models.PaidHoliday
	err := r.db.Where("date = ?", models.DateOnly(date)).Limit(1).Find(&holidays).Error
	if err != nil || len(holidays) == 0 {
		return nil, err
	}
	holidays[0].Date = models.DateOnly(holidays[0].Date)
	return &holidays[0], nil
}

func (r *GormPaidHolidayRepository) GetByYear(year int) ([]models.PaidHoliday, error) {
	var holidays []models.PaidHoliday
	err := r.db.Where("year = ?", year).Order("date ASC").Find(&holidays).Error
	normalizeHolidays(holidays)
	return holidays, err
}

func (r *GormPaidHolidayRepository) GetAll() ([]models.PaidHoliday, error) {
	var holidays []models.PaidHoliday
	err := r.db.Order("date ASC").Find(&holidays).Error
	normalizeHolidays(holidays)
	return holidays, err
}

func (r *GormPaidHolidayRepository) DeleteAll() error {
	return r.db.Exec("DELETE FROM paid_holidays").Error
}

func (r *GormPaidHolidayRepository) IsPaidHoliday(date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.PaidHoliday{}).
		Where("date = ?", models.DateOnly(date)).
		Count(&count).Error
	return count > 0, err
}

func normalizeHolidays(holidays []models.PaidHoliday) {
	for i := range holidays {
		holidays[i].Date = models.DateOnly(holidays[i].Date)
	}
}
