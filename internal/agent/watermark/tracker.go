// Package watermark tracks the boundary between already-processed and
// not-yet-processed time for the polling loop.
package watermark

import "time"

// Tracker holds the end of the last successfully processed interval. The
// watermark is monotonically non-decreasing and only the owner of a completed
// cycle may advance it, which keeps failed windows eligible for retry.
type Tracker struct {
	last time.Time
}

// NewTracker seeds the watermark at now minus the configured lookback, so a
// restarted process re-covers the startup gap. Events near the seam may be
// observed twice; reconciliation is idempotent, so that is harmless.
func NewTracker(now time.Time, lookback time.Duration) *Tracker {
	return &Tracker{last: now.Add(-lookback)}
}

// Window returns the query interval for the next cycle: from the stored
// watermark up to now.
func (t *Tracker) Window(now time.Time) (from, to time.Time) {
	return t.last, now
}

// Advance moves the watermark to the given bound. Call it only after the
// cycle's sink write succeeded. Regressions are ignored to keep the
// watermark monotonic.
func (t *Tracker) Advance(to time.Time) {
	if to.After(t.last) {
		t.last = to
	}
}

// Current returns the stored watermark.
func (t *Tracker) Current() time.Time {
	return t.last
}
