package service

import (
	"encoding/json"
	"fmt"
	"os"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type EmployerService struct {
	repo   repository.EmployerRepository
	logger *logrus.Logger
}

func NewEmployerService(repo repository.EmployerRepository) *EmployerService {
	return &EmployerService{repo: repo, logger: newLogger()}
}

// Get возвращает работодателя или ErrEmployerNotConfigured
func (s *EmployerService) Get() (*models.Employer, error) {
	employer, err := s.repo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}
	if employer == nil {
		return nil, ErrEmployerNotConfigured
	}
	return employer, nil
}

func (s *EmployerService) Save(employer *models.Employer) error {
	return s.repo.Save(employer)
}

// LoadFromJSON читает файл работодателя и сохраняет его
func (s *EmployerService) LoadFromJSON(filePath string) (*models.Employer, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read employer file: %w", err)
	}

	var employer models.Employer
	if err := json.Unmarshal(data, &employer); err != nil {
		return nil, fmt.Errorf("failed to parse employer file: %w", err)
	}

	if err := s.repo.Save(&employer); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"name":        employer.Name,
		"payroll_day": employer.PayrollDayName(),
	}).Info("Employer loaded")

	return &employer, nil
}
