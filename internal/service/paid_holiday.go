package service

import (
	"fmt"
	"strings"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/repository"
	"nanny-payroll-bot/pkg/holidays"

	"github.com/sirupsen/logrus"
)

type PaidHolidayService struct {
	repo   repository.PaidHolidayRepository
	logger *logrus.Logger
}

func NewPaidHolidayService(repo repository.PaidHolidayRepository) *PaidHolidayService {
	return &PaidHolidayService{repo: repo, logger: newLogger()}
}

// LoadFromJSON загружает праздники из JSON файла в базу данных
func (s *PaidHolidayService) LoadFromJSON(filePath string) (int, error) {
	days, err := holidays.ParseHolidaysJSON(filePath)
	if err != nil {
		return 0, err
	}

	paidHolidays := make([]models.PaidHoliday, 0, len(days))
	for _, day := range days {
		paidHolidays = append(paidHolidays, models.PaidHoliday{
			Name: day.Name,
			Date: day.Date,
			Year: day.Year,
		})
	}

	// Удаляем старые записи (чтобы избежать дублирования)
	if err := s.repo.DeleteAll(); err != nil {
		s.logger.WithError(err).Warn("Failed to delete old paid holidays")
	}

	if err := s.repo.BulkCreate(paidHolidays); err != nil {
		return 0, err
	}

	s.logger.WithField("count", len(paidHolidays)).Info("Paid holidays loaded")
	return len(paidHolidays), nil
}

// Add добавляет один праздник
func (s *PaidHolidayService) Add(name string, date time.Time) (*models.PaidHoliday, error) {
	holiday := &models.PaidHoliday{Name: strings.TrimSpace(name), Date: models.DateOnly(date)}
	if holiday.Name == "" {
		holiday.Name = holidays.DefaultName
	}
	if !holiday.IsValid() {
		return nil, fmt.Errorf("invalid paid holiday")
	}

	exists, err := s.repo.IsPaidHoliday(holiday.Date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("a paid holiday on %s already exists", holiday.Date.Format(models.DateLayout))
	}

	if err := s.repo.Create(holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

// GetForYear возвращает праздники года по возрастанию даты
func (s *PaidHolidayService) GetForYear(year int) ([]models.PaidHoliday, error) {
	return s.repo.GetByYear(year)
}

// GetByDate возвращает праздник на дату или nil
func (s *PaidHolidayService) GetByDate(date time.Time) (*models.PaidHoliday, error) {
	return s.repo.GetByDate(date)
}
