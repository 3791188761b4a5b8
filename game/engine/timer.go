package engine

import "time"

// Elapsed returns the time between start and now
func Elapsed(now, start time.Time) time.Duration {
	return now.Sub(start)
}

// wholeSeconds truncates d to whole non-negative seconds
func wholeSeconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// RunRecord tracks one run: when it started, when it was won and the best time
// to beat. PersonalBest is in whole seconds and 0 means no best yet.
type RunRecord struct {
	Start        time.Time  `json:"start"`
	WinTime      *time.Time `json:"win_time,omitempty"`
	PersonalBest int        `json:"personal_best"`

	finalized bool
}

// NewRunRecord starts a run at start against personalBest
func NewRunRecord(start time.Time, personalBest int) *RunRecord {
	if personalBest < 0 {
		personalBest = 0
	}
	return &RunRecord{Start: start, PersonalBest: personalBest}
}

// RecordWin captures now as the win time. Only the first call has an effect.
func (r *RunRecord) RecordWin(now time.Time) bool {
	if r.WinTime != nil {
		return false
	}
	t := now
	r.WinTime = &t
	return true
}

// Won reports whether a win time has been captured
func (r *RunRecord) Won() bool {
	return r.WinTime != nil
}

// WinSeconds returns the winning time in whole seconds
func (r *RunRecord) WinSeconds() (int, bool) {
	if r.WinTime == nil {
		return 0, false
	}
	return wholeSeconds(r.WinTime.Sub(r.Start)), true
}

// ElapsedAt returns the run time as of now, frozen at the win time once won
func (r *RunRecord) ElapsedAt(now time.Time) time.Duration {
	if r.WinTime != nil {
		return Elapsed(*r.WinTime, r.Start)
	}
	return Elapsed(now, r.Start)
}

// AheadOfBest reports whether the run is still faster than the personal best
func (r *RunRecord) AheadOfBest(now time.Time) bool {
	return r.PersonalBest == 0 || wholeSeconds(r.ElapsedAt(now)) < r.PersonalBest
}

// ResetBest clears the personal best baseline
func (r *RunRecord) ResetBest() {
	r.PersonalBest = 0
}

// Finalized reports whether Finalize has already run
func (r *RunRecord) Finalized() bool {
	return r.finalized
}

// Finalize folds a winning time into the personal best. It returns the
// resulting personal best and whether the run was won. Only the first call
// updates the record.
func (r *RunRecord) Finalize() (int, bool) {
	if r.finalized {
		return r.PersonalBest, r.Won()
	}
	r.finalized = true

	secs, won := r.WinSeconds()
	if !won {
		return r.PersonalBest, false
	}
	if r.PersonalBest == 0 || secs < r.PersonalBest {
		r.PersonalBest = secs
	}
	return r.PersonalBest, true
}
