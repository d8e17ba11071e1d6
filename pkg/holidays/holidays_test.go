package holidays

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListAndMonths(t *testing.T) {
	data := []byte(`{
		"year": 2024,
		"holidays": [
			{"date": "2024-07-04", "name": "Independence Day"},
			{"date": "2024-01-01", "name": "New Year's Day"}
		],
		"months": [
			{"month": 11, "days": "28, 29*"},
			{"month": 7, "days": "4+"}
		]
	}`)

	days, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, "New Year's Day", days[0].Name)
	assert.Equal(t, "Independence Day", days[1].Name)
	assert.Equal(t, time.Date(2024, time.November, 28, 0, 0, 0, 0, time.UTC), days[2].Date)
	assert.Equal(t, DefaultName, days[3].Name)
	assert.Equal(t, 2024, days[3].Year)
}

func TestParseArrayOfYears(t *testing.T) {
	days, err := Parse([]byte(`[
		{"year": 2024, "holidays": [{"date": "2024-12-25", "name": "Christmas Day"}]},
		{"year": 2025, "holidays": [{"date": "2025-12-25", "name": "Christmas Day"}]}
	]`))
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Len(t, ForYear(days, 2025), 1)
	assert.Empty(t, ForYear(days, 2023))

	found := Find(days, time.Date(2025, time.December, 25, 9, 0, 0, 0, time.UTC))
	require.NotNil(t, found)
	assert.Equal(t, 2025, found.Year)
	assert.Nil(t, Find(days, time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC)))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{"year": `},
		{"bad date", `{"year": 2024, "holidays": [{"date": "07/04/2024"}]}`},
		{"date outside year", `{"year": 2024, "holidays": [{"date": "2025-01-01"}]}`},
		{"bad day", `{"year": 2024, "months": [{"month": 1, "days": "1,x"}]}`},
		{"day past month end", `{"year": 2024, "months": [{"month": 2, "days": "30"}]}`},
		{"months without year", `{"months": [{"month": 1, "days": "1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseHolidaysJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"year": 2024, "months": [{"month": 5, "days": "27"}]}`), 0o644))

	days, err := ParseHolidaysJSON(path)
	require.NoError(t, err)
	require.Len(t, days, 1)

	_, err = ParseHolidaysJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
