package service

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type TaxRatesService struct {
	repo   repository.TaxRatesRepository
	logger *logrus.Logger
}

func NewTaxRatesService(repo repository.TaxRatesRepository) *TaxRatesService {
	return &TaxRatesService{repo: repo, logger: newLogger()}
}

// ParseTaxRates принимает массив годов или один объект
func ParseTaxRates(data []byte) ([]*models.TaxRates, error) {
	var rates []*models.TaxRates
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		if err := json.Unmarshal(data, &rates); err != nil {
			return nil, fmt.Errorf("failed to parse tax rates: %w", err)
		}
		return rates, nil
	}

	var single models.TaxRates
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to parse tax rates: %w", err)
	}
	return []*models.TaxRates{&single}, nil
}

// LoadFromJSON загружает ставки из файла, заменяя ставки тех же годов
func (s *TaxRatesService) LoadFromJSON(filePath string) (int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read tax rates file: %w", err)
	}

	rates, err := ParseTaxRates(data)
	if err != nil {
		return 0, err
	}

	for _, r := range rates {
		if err := s.repo.Upsert(r); err != nil {
			return 0, fmt.Errorf("failed to save tax rates for %d: %w", r.TaxYear, err)
		}
		s.logger.WithField("tax_year", r.TaxYear).Info("Tax rates loaded")
	}

	return len(rates), nil
}

// GetByYear возвращает (nil, nil), если ставок нет
func (s *TaxRatesService) GetByYear(year int) (*models.TaxRates, error) {
	return s.repo.GetByYear(year)
}

func (s *TaxRatesService) GetMostRecent() (*models.TaxRates, error) {
	return s.repo.GetMostRecent()
}

func (s *TaxRatesService) Years() ([]int, error) {
	return s.repo.GetYears()
}

func (s *TaxRatesService) HasAny() (bool, error) {
	recent, err := s.repo.GetMostRecent()
	return recent != nil, err
}
