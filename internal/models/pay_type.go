package models

import (
	"fmt"
	"strconv"
	"strings"
)

// PayType - вид оплачиваемого (или нет) времени в записи
type PayType int

const (
	PayTypeRegular PayType = iota
	PayTypePaidTimeOff
	PayTypePaidHoliday
	PayTypePaidSickTime
	PayTypeUnpaidTimeOff // зарезервировано, при вводе отклоняется
)

var payTypeNames = map[PayType]string{
	PayTypeRegular:       "REGULAR",
	PayTypePaidTimeOff:   "PAID_TIME_OFF",
	PayTypePaidHoliday:   "PAID_HOLIDAY",
	PayTypePaidSickTime:  "PAID_SICK_TIME",
	PayTypeUnpaidTimeOff: "UNPAID_TIME_OFF",
}

// короткие имена для ввода в чате
var payTypeAliases = map[string]PayType{
	"regular":  PayTypeRegular,
	"work":     PayTypeRegular,
	"pto":      PayTypePaidTimeOff,
	"vacation": PayTypePaidTimeOff,
	"holiday":  PayTypePaidHoliday,
	"sick":     PayTypePaidSickTime,
	"unpaid":   PayTypeUnpaidTimeOff,
}

func (p PayType) String() string {
	if name, ok := payTypeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PayType(%d)", int(p))
}

// IsKnown проверяет, что код входит в перечисление
func (p PayType) IsKnown() bool {
	_, ok := payTypeNames[p]
	return ok
}

// IsPaidLeave - отпуск, праздник или больничный
func (p PayType) IsPaidLeave() bool {
	return p == PayTypePaidTimeOff || p == PayTypePaidHoliday || p == PayTypePaidSickTime
}

// ParsePayType принимает код (0-4), полное имя или короткий алиас
func ParsePayType(s string) (PayType, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		p := PayType(code)
		if !p.IsKnown() {
			return 0, fmt.Errorf("unknown pay type code %d", code)
		}
		return p, nil
	}

	if p, ok := payTypeAliases[strings.ToLower(s)]; ok {
		return p, nil
	}

	for p, name := range payTypeNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unknown pay type %q", s)
}
