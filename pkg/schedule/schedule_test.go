package schedule

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDefaultPolicyOffsets(t *testing.T) {
	due := DefaultPolicy().Due(t0)

	want := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	if len(due) != len(want) {
		t.Fatalf("Due returned %d instants, want %d", len(due), len(want))
	}
	for i := range want {
		if !due[i].Equal(want[i]) {
			t.Errorf("due[%d] = %v, want %v", i, due[i], want[i])
		}
	}
}

func TestDefaultPolicyStrictlyIncreasing(t *testing.T) {
	due := DefaultPolicy().Due(t0)
	for i := 1; i < len(due); i++ {
		if !due[i].After(due[i-1]) {
			t.Fatalf("due[%d] = %v is not after due[%d] = %v", i, due[i], i-1, due[i-1])
		}
	}
}

func TestDefaultPolicyDeterministic(t *testing.T) {
	p := DefaultPolicy()
	first := p.Due(t0)
	second := p.Due(t0)
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("due[%d] differs between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDefaultPolicyPreservesClockTime(t *testing.T) {
	// Offsets are fixed 24h spans, so the time-of-day component survives.
	ref := time.Date(2024, 6, 10, 15, 30, 45, 0, time.UTC)
	for i, due := range DefaultPolicy().Due(ref) {
		h, m, s := due.Clock()
		if h != 15 || m != 30 || s != 45 {
			t.Errorf("due[%d] clock = %02d:%02d:%02d, want 15:30:45", i, h, m, s)
		}
	}
}

func TestDefaultPolicyLen(t *testing.T) {
	if got := DefaultPolicy().Len(); got != 5 {
		t.Fatalf("Len = %d, want 5", got)
	}
}

func TestStartOfDay(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday truncates to midnight",
			in:   time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "midnight is a fixed point",
			in:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "location is preserved",
			in:   time.Date(2024, 3, 15, 23, 59, 59, 0, time.FixedZone("JST", 9*3600)),
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.FixedZone("JST", 9*3600)),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StartOfDay(tc.in); !got.Equal(tc.want) {
				t.Fatalf("StartOfDay(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
