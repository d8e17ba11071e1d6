package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DefaultName = "Paid holiday"

// HolidaysJSON - структура для парсинга исходного JSON.
// Праздники задаются списком с датами или, как в производственном календаре, днями по месяцам.
type HolidaysJSON struct {
	Year     int             `json:"year"`
	Holidays []HolidayJSON   `json:"holidays"`
	Months   []MonthHolidays `json:"months"`
}

type HolidayJSON struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type MonthHolidays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// Holiday - оплачиваемый праздник
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
	Year int       `json:"year"`
}

// ParseHolidaysJSON читает файл и возвращает праздники по возрастанию даты
func ParseHolidaysJSON(filePath string) ([]Holiday, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return Parse(data)
}

// Parse принимает один объект года или массив таких объектов
func Parse(data []byte) ([]Holiday, error) {
	var years []HolidaysJSON
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &years); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
	} else {
		var single HolidaysJSON
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
		years = append(years, single)
	}

	result := []Holiday{}
	seen := map[time.Time]bool{}
	add := func(h Holiday) {
		if seen[h.Date] {
			return
		}
		seen[h.Date] = true
		result = append(result, h)
	}

	for _, yearData := range years {
		for _, h := range yearData.Holidays {
			date, err := time.Parse("2006-01-02", strings.TrimSpace(h.Date))
			if err != nil {
				return nil, fmt.Errorf("failed to parse holiday date '%s': %w", h.Date, err)
			}
			if yearData.Year != 0 && date.Year() != yearData.Year {
				return nil, fmt.Errorf("holiday %s is outside year %d", h.Date, yearData.Year)
			}
			add(newHoliday(date, h.Name))
		}

		days, err := parseMonths(yearData.Year, yearData.Months)
		if err != nil {
			return nil, err
		}
		for _, h := range days {
			add(h)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func parseMonths(year int, months []MonthHolidays) ([]Holiday, error) {
	if len(months) > 0 && year == 0 {
		return nil, fmt.Errorf("year is required when holidays are listed by month")
	}

	var result []Holiday
	for _, monthData := range months {
		if monthData.Month < 1 || monthData.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", monthData.Month)
		}

		// Разбиваем строку с днями
		for _, dayStr := range strings.Split(monthData.Days, ",") {
			// Убираем специальные символы (+, *)
			dayStr = strings.TrimSpace(dayStr)
			dayStr = strings.TrimSuffix(dayStr, "+")
			dayStr = strings.TrimSuffix(dayStr, "*")

			if dayStr == "" {
				continue
			}

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w",
					dayStr, monthData.Month, err)
			}

			date := time.Date(year, time.Month(monthData.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(monthData.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, monthData.Month)
			}
			result = append(result, newHoliday(date, ""))
		}
	}
	return result, nil
}

func newHoliday(date time.Time, name string) Holiday {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Holiday{Date: date, Name: name, Year: date.Year()}
}

// ForYear возвращает праздники указанного года
func ForYear(days []Holiday, year int) []Holiday {
	result := []Holiday{}
	for _, day := range days {
		if day.Year == year {
			result = append(result, day)
		}
	}
	return result
}

// Find возвращает праздник на дату или nil
func Find(days []Holiday, date time.Time) *Holiday {
	for i, day := range days {
		if day.Date.Year() == date.Year() &&
			day.Date.Month() == date.Month() &&
			day.Date.Day() == date.Day() {
			return &days[i]
		}
	}
	return nil
}
