package recipients

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsBirthday(t *testing.T) {
	ana := Recipient{Name: "Ana", BirthDate: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC)}

	t.Run("same day and month in another year", func(t *testing.T) {
		assert.True(t, ana.IsBirthday(time.Date(2025, time.March, 15, 9, 30, 0, 0, time.Local)))
	})

	t.Run("next day", func(t *testing.T) {
		assert.False(t, ana.IsBirthday(time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("same day in another month", func(t *testing.T) {
		assert.False(t, ana.IsBirthday(time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)))
	})
}

func TestFilter(t *testing.T) {
	all := []Recipient{
		{Name: "Ana", BirthDate: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{Name: "Bruno", BirthDate: time.Date(1988, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Carla", BirthDate: time.Date(1975, time.March, 15, 0, 0, 0, 0, time.UTC)},
	}

	matched := Filter(all, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
	assert.Len(t, matched, 2)
	assert.Equal(t, "Ana", matched[0].Name)
	assert.Equal(t, "Carla", matched[1].Name)

	assert.Empty(t, Filter(all, time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)))
}

// futureSerial is the Excel serial of a day next year
func futureSerial() int {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return int(time.Now().AddDate(1, 0, 0).Sub(epoch).Hours() / 24)
}

func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		ok    bool
		day   int
		month time.Month
		year  int
	}{
		{name: "day first", raw: "15/03/2020", ok: true, day: 15, month: time.March, year: 2020},
		{name: "no leading zeros", raw: "5/3/1999", ok: true, day: 5, month: time.March, year: 1999},
		{name: "surrounding spaces", raw: " 01/12/1980 ", ok: true, day: 1, month: time.December, year: 1980},
		{name: "excel serial", raw: "43905", ok: true, day: 15, month: time.March, year: 2020},
		{name: "invalid day", raw: "31/02/2020", ok: false},
		{name: "month first is rejected", raw: "03/15/2020", ok: false},
		{name: "iso format", raw: "2020-03-15", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "text", raw: "unknown", ok: false},
		{name: "negative serial", raw: "-4", ok: false},
		{name: "old serial", raw: "12345", ok: true, day: 18, month: time.October, year: 1933},
		{name: "digits without separators", raw: "15032020", ok: false},
		{name: "serial in the future", raw: strconv.Itoa(futureSerial()), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBirthDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.day, got.Day())
				assert.Equal(t, tt.month, got.Month())
				assert.Equal(t, tt.year, got.Year())
			}
		})
	}
}
