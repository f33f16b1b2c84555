package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New(2026, 8)
	require.NoError(t, err)
	assert.Equal(t, 2026, p.Year)
	assert.Equal(t, time.August, p.Month)

	for _, tc := range []struct{ year, month int }{
		{1999, 1},
		{2201, 1},
		{2026, 0},
		{2026, 13},
	} {
		_, err := New(tc.year, tc.month)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "year=%d month=%d", tc.year, tc.month)
	}
}

func TestCurrent(t *testing.T) {
	now := time.Date(2026, time.August, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Period{Year: 2026, Month: time.August}, Current(now))
}

func TestString(t *testing.T) {
	p, _ := New(2026, 3)
	assert.Equal(t, "2026-03", p.String())
}

func TestStartEnd(t *testing.T) {
	p, _ := New(2026, 12)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), p.End())
}
