package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	sp := time.FixedZone("BRT", -3*60*60)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-05-04T10:00:00Z", time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)},
		{"2026-05-04T10:00:00-03:00", time.Date(2026, 5, 4, 13, 0, 0, 0, time.UTC)},
		{"2026-05-04T10:00:00.5Z", time.Date(2026, 5, 4, 10, 0, 0, 500000000, time.UTC)},
		{"2026-05-04T10:00:00", time.Date(2026, 5, 4, 10, 0, 0, 0, sp)},
		{"2026-05-04T10:00", time.Date(2026, 5, 4, 10, 0, 0, 0, sp)},
		{"2026-05-04 10:00:30", time.Date(2026, 5, 4, 10, 0, 30, 0, sp)},
		{"2026-05-04", time.Date(2026, 5, 4, 0, 0, 0, 0, sp)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in, sp)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %s want %s", tc.in, got, tc.want)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "10:00", "2026-13-01"} {
		_, err := ParseTimestamp(in, time.UTC)
		assert.Error(t, err, in)
	}
}

func TestParseRangeEnd(t *testing.T) {
	sp := time.FixedZone("BRT", -3*60*60)

	end, err := ParseRangeEnd("2024-02-29", sp)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, sp).Equal(end), end.String())

	end, err = ParseRangeEnd("2024-02-29T10:00:00Z", sp)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC).Equal(end))

	_, err = ParseRangeEnd("29/02/2024", sp)
	assert.Error(t, err)
}
