package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManual(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	c := NewManual(start)
	require.Equal(t, start.UTC(), c.NowUTC())
	require.Equal(t, time.UTC, c.NowUTC().Location())

	got := c.Advance(time.Minute)
	require.Equal(t, start.Add(time.Minute).UTC(), got)
	require.Equal(t, got, c.NowUTC())

	later := start.Add(48 * time.Hour)
	c.Set(later)
	require.True(t, later.Equal(c.NowUTC()))
}

func TestSystemIsUTC(t *testing.T) {
	var c Clock = System{}
	require.Equal(t, time.UTC, c.NowUTC().Location())
}
