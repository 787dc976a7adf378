package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"22:00", 1320, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			var cfgErr *InvalidConfigError
			assert.ErrorAs(t, err, &cfgErr)
		} else {
			require.NoError(t, err, "input %q", tt.in)
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestIsQuietHours_Disabled(t *testing.T) {
	q := QuietHours{Enabled: false, Start: "22:00", End: "08:00"}
	assert.False(t, IsQuietHours(q, 1380))
}

func TestIsQuietHours_SameDayWindow(t *testing.T) {
	q := QuietHours{Enabled: true, Start: "13:00", End: "15:00"}

	assert.False(t, IsQuietHours(q, 12*60+59))
	assert.True(t, IsQuietHours(q, 13*60))
	assert.True(t, IsQuietHours(q, 14*60))
	assert.True(t, IsQuietHours(q, 15*60))
	assert.False(t, IsQuietHours(q, 15*60+1))
}

func TestIsQuietHours_OvernightWrap(t *testing.T) {
	q := QuietHours{Enabled: true, Start: "22:00", End: "08:00"}

	assert.True(t, IsQuietHours(q, 23*60), "23:00 is inside 22:00-08:00")
	assert.True(t, IsQuietHours(q, 5*60), "05:00 is inside 22:00-08:00")
	assert.True(t, IsQuietHours(q, 22*60))
	assert.True(t, IsQuietHours(q, 8*60))
	assert.False(t, IsQuietHours(q, 9*60), "09:00 is outside 22:00-08:00")
	assert.False(t, IsQuietHours(q, 21*60+59))
}

func TestIsQuietHours_MalformedNeverQuiet(t *testing.T) {
	q := QuietHours{Enabled: true, Start: "banana", End: "08:00"}
	assert.False(t, IsQuietHours(q, 300))
}

func TestQuietHoursValidate(t *testing.T) {
	assert.NoError(t, QuietHours{Enabled: false, Start: "oops"}.Validate())
	assert.NoError(t, QuietHours{Enabled: true, Start: "22:00", End: "08:00"}.Validate())
	assert.Error(t, QuietHours{Enabled: true, Start: "25:00", End: "08:00"}.Validate())
	assert.Error(t, QuietHours{Enabled: true, Start: "22:00", End: "8pm"}.Validate())
}
