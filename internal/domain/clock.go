package domain

import "github.com/jonboulle/clockwork"

// clock stamps assessments. Tests freeze it via SetClock so AssessedAt is stable.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for assessment timestamps. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
