package engine

import "time"

// Clock abstracts the wall clock so tick and reset logic can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
