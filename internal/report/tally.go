// Package report folds analysis issues into a Report: a global tally, tallies
// per rule and per severity, and one ResourceReport per affected file.
package report

import "encoding/json"

// Tally counts current, new and resolved issues. The zero value is ready to
// use. Counters only ever increase.
type Tally struct {
	current  int
	new      int
	resolved int
}

func (t *Tally) IncrementCurrent()  { t.current++ }
func (t *Tally) IncrementNew()      { t.new++ }
func (t *Tally) IncrementResolved() { t.resolved++ }

// Current is the number of open issues
func (t Tally) Current() int { return t.current }

// New is the number of open issues introduced by the analysis
func (t Tally) New() int { return t.new }

// Resolved is the number of issues fixed since the previous analysis
func (t Tally) Resolved() int { return t.resolved }

// IsZero reports whether no issue was counted
func (t Tally) IsZero() bool {
	return t.current == 0 && t.new == 0 && t.resolved == 0
}

// Add returns the element-wise sum of t and other
func (t Tally) Add(other Tally) Tally {
	return Tally{
		current:  t.current + other.current,
		new:      t.new + other.new,
		resolved: t.resolved + other.resolved,
	}
}

type tallyJSON struct {
	Current  int `json:"current"`
	New      int `json:"new"`
	Resolved int `json:"resolved"`
}

// MarshalJSON implements json.Marshaler
func (t Tally) MarshalJSON() ([]byte, error) {
	return json.Marshal(tallyJSON{Current: t.current, New: t.new, Resolved: t.resolved})
}
