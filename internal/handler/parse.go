package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/service"

	"github.com/shopspring/decimal"
)

var errNoArgs = errors.New("no arguments")

// Форматы дат, которые принимает бот
var dateLayouts = []string{models.DateLayout, "01/02/2006", "1/2/2006"}
var shortDateLayouts = []string{"01/02", "1/2"}

// parseDate разбирает дату. Без года берется год из now.
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "today":
		return models.DateOnly(now), nil
	case "yesterday":
		return models.DateOnly(now).AddDate(0, 0, -1), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range shortDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or MM/DD", s)
}

// splitEmployee отделяет префикс "Имя Сотрудника:" от остальных аргументов.
// Префикс без цифр считается именем.
func splitEmployee(args string) (name, rest string) {
	args = strings.TrimSpace(args)
	idx := strings.Index(args, ":")
	if idx <= 0 {
		return "", args
	}
	prefix := strings.TrimSpace(args[:idx])
	if strings.IndexFunc(prefix, unicode.IsDigit) >= 0 {
		return "", args
	}
	return prefix, strings.TrimSpace(args[idx+1:])
}

// employeeArg - имя сотрудника как единственный аргумент, двоеточие необязательно
func employeeArg(args string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(args), ":"))
}

// parseAddTime разбирает "<дата> <часы> [вид] [+возмещение] [заметка...]"
func parseAddTime(args string, now time.Time) (service.AddTimeRequest, error) {
	var req service.AddTimeRequest

	fields := strings.Fields(args)
	if len(fields) == 0 {
		return req, errNoArgs
	}
	if len(fields) < 2 {
		return req, errors.New("date and hours are required")
	}

	date, err := parseDate(fields[0], now)
	if err != nil {
		return req, err
	}
	hours, err := decimal.NewFromString(fields[1])
	if err != nil {
		return req, fmt.Errorf("invalid hours %q", fields[1])
	}
	req.Date = date
	req.Hours = hours

	rest := fields[2:]
	if len(rest) > 0 && !isNumeric(rest[0]) && !isAmount(rest[0]) {
		if payType, err := models.ParsePayType(rest[0]); err == nil {
			req.PayType = &payType
			rest = rest[1:]
		}
	}
	if len(rest) > 0 && isAmount(rest[0]) {
		amount, err := decimal.NewFromString(strings.TrimLeft(rest[0], "+$"))
		if err != nil {
			return req, fmt.Errorf("invalid reimbursement %q", rest[0])
		}
		req.Reimbursement = amount
		rest = rest[1:]
	}
	req.Note = strings.Join(rest, " ")

	return req, nil
}

// parseRange разбирает "[начало] [конец]"; пустые значения остаются нулевыми
func parseRange(args string, now time.Time) (start, end time.Time, err error) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		return
	case 1:
		end, err = parseDate(fields[0], now)
		return
	case 2:
		if start, err = parseDate(fields[0], now); err != nil {
			return
		}
		end, err = parseDate(fields[1], now)
		return
	}
	err = errors.New("expected at most two dates")
	return
}

type payslipArgs struct {
	end    time.Time
	format string
}

// parsePayslip разбирает "[дата окончания] [text|pdf|json]"
func parsePayslip(args string, now time.Time) (payslipArgs, error) {
	out := payslipArgs{format: "text"}
	for _, f := range strings.Fields(args) {
		switch strings.ToLower(f) {
		case "text", "pdf", "json":
			out.format = strings.ToLower(f)
			continue
		}
		if !out.end.IsZero() {
			return out, fmt.Errorf("unexpected argument %q", f)
		}
		end, err := parseDate(f, now)
		if err != nil {
			return out, err
		}
		out.end = end
	}
	return out, nil
}

// parseQuarter разбирает "2024 1", "2024 Q1" или "Q1 2024". По умолчанию текущий квартал.
func parseQuarter(args string, now time.Time) (year, quarter int, err error) {
	year = now.Year()
	quarter = (int(now.Month())-1)/3 + 1

	for _, f := range strings.Fields(args) {
		f = strings.TrimPrefix(strings.ToUpper(f), "Q")
		n, convErr := strconv.Atoi(f)
		if convErr != nil {
			return 0, 0, fmt.Errorf("invalid quarter argument %q", f)
		}
		if n >= 1 && n <= 4 {
			quarter = n
		} else {
			year = n
		}
	}
	if year < 1900 {
		return 0, 0, fmt.Errorf("invalid year %d", year)
	}
	return year, quarter, nil
}

// parseYear разбирает год, по умолчанию текущий
func parseYear(args string, now time.Time) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return now.Year(), nil
	}
	year, err := strconv.Atoi(args)
	if err != nil || year < 1900 {
		return 0, fmt.Errorf("invalid year %q", args)
	}
	return year, nil
}

// parseChatID разбирает chat ID из первого аргумента и возвращает остаток
func parseChatID(args string) (int64, string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, "", errNoArgs
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid chat ID %q", fields[0])
	}
	return id, strings.Join(fields[1:], " "), nil
}

// parseHoliday разбирает "<дата> <название>"
func parseHoliday(args string, now time.Time) (time.Time, string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return time.Time{}, "", errNoArgs
	}
	date, err := parseDate(fields[0], now)
	if err != nil {
		return time.Time{}, "", err
	}
	return date, strings.Join(fields[1:], " "), nil
}

func isNumeric(s string) bool {
	_, err := decimal.NewFromString(s)
	return err == nil
}

func isAmount(s string) bool {
	return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "$")
}

// callbackData собирает данные inline кнопки
func callbackData(action string, parts ...string) string {
	return strings.Join(append([]string{action}, parts...), "|")
}

func parseCallbackData(data string) (string, []string) {
	parts := strings.Split(data, "|")
	return parts[0], parts[1:]
}
