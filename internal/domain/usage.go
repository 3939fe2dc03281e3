package domain

import "time"

// UsageLog is the ordered list of admission times recorded for one session.
type UsageLog []time.Time

// Prune returns the entries strictly after cutoff, preserving order.
// The receiver is not modified.
func (l UsageLog) Prune(cutoff time.Time) UsageLog {
	kept := make(UsageLog, 0, len(l))
	for _, ts := range l {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

// Clone returns an independent copy.
func (l UsageLog) Clone() UsageLog {
	out := make(UsageLog, len(l))
	copy(out, l)
	return out
}
