package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, value string) CalDate {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return CalDate{parsed}
}

func TestCalDateJSON(t *testing.T) {
	raw, err := json.Marshal(date(t, "2024-01-06"))
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-06"`, string(raw))

	var d CalDate
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-06"`), &d))
	assert.Equal(t, "2024-01-06", d.String())

	// Метка времени усекается до даты
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-06T15:04:05Z"`), &d))
	assert.Equal(t, "2024-01-06", d.String())

	assert.Error(t, json.Unmarshal([]byte(`"06.01.2024"`), &d))
}

func TestCalDateScan(t *testing.T) {
	var d CalDate
	require.NoError(t, d.Scan("2024-01-06"))
	assert.Equal(t, "2024-01-06", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-01", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 5, DaysBetween(date(t, "2024-01-01"), date(t, "2024-01-06")))
	assert.Equal(t, 0, DaysBetween(date(t, "2024-01-01"), date(t, "2024-01-01")))
	assert.Equal(t, -3, DaysBetween(date(t, "2024-01-04"), date(t, "2024-01-01")))
}

func TestStatusTypeTracked(t *testing.T) {
	assert.True(t, StatusTypeNormal.Tracked())
	assert.False(t, StatusTypeStart.Tracked())
	assert.False(t, StatusTypeEnd.Tracked())
}
