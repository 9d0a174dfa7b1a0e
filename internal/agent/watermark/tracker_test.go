package watermark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTracker_SeedsLookbackBehindNow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(now, 240*time.Minute)

	from, to := tr.Window(now)
	assert.Equal(t, now.Add(-240*time.Minute), from)
	assert.Equal(t, now, to)
}

func TestAdvance_MovesWatermarkForward(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(now, time.Hour)

	tr.Advance(now)
	from, _ := tr.Window(now.Add(time.Minute))
	assert.Equal(t, now, from)
}

func TestAdvance_IgnoresRegressions(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(now, time.Hour)

	tr.Advance(now)
	tr.Advance(now.Add(-30 * time.Minute))
	assert.Equal(t, now, tr.Current())
}

func TestWatermark_MonotonicAcrossCycles(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(now, time.Hour)

	prev := tr.Current()
	for i := 0; i < 10; i++ {
		now = now.Add(time.Minute)
		_, to := tr.Window(now)
		// Odd cycles fail: the caller never advances, window stays put.
		if i%2 == 0 {
			tr.Advance(to)
		}
		assert.False(t, tr.Current().Before(prev))
		prev = tr.Current()
	}
}
