// Package schedule decides when a newly created question should be
// reviewed. The default policy is the classic fixed ladder: one, three,
// seven, fourteen and thirty days after creation.
package schedule

import "time"

// Day is a fixed 24-hour span. Offsets are plain duration arithmetic, not
// calendar arithmetic, so a due instant never shifts across DST or
// timezone day boundaries.
const Day = 24 * time.Hour

// Policy maps a creation instant to the future due instants of its review
// tasks. Implementations must be pure: the same t0 always yields the same
// offsets, strictly increasing. An adaptive policy would replace this
// without touching the scheduler or the store.
type Policy interface {
	Due(t0 time.Time) []time.Time
}

// FixedPolicy reviews at a fixed set of offsets from the creation instant.
type FixedPolicy struct {
	offsets []time.Duration
}

// DefaultPolicy returns the 1/3/7/14/30-day ladder.
func DefaultPolicy() FixedPolicy {
	return FixedPolicy{offsets: []time.Duration{
		1 * Day,
		3 * Day,
		7 * Day,
		14 * Day,
		30 * Day,
	}}
}

// Due returns one due instant per offset, in ascending order.
func (p FixedPolicy) Due(t0 time.Time) []time.Time {
	due := make([]time.Time, len(p.offsets))
	for i, offset := range p.offsets {
		due[i] = t0.Add(offset)
	}
	return due
}

// Len reports how many reviews the policy schedules per question.
func (p FixedPolicy) Len() int {
	return len(p.offsets)
}

// StartOfDay truncates t to the local midnight of the calendar day
// containing it. Window queries are anchored here, so "today" follows the
// caller's calendar even though due offsets themselves are fixed 24h
// multiples.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
