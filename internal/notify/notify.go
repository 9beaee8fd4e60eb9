// Package notify delivers desktop notifications for pacing events.
// Delivery is fire-and-forget: failures are swallowed and never block
// the countdown engine.
package notify

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"
)

// Notifier is the outbound notification port consumed by the engine.
type Notifier interface {
	// CigaretteAllowed fires when the waiting interval has elapsed.
	CigaretteAllowed()
	// TimerFinished fires once when the countdown reaches zero,
	// carrying the time the wait started.
	TimerFinished(at time.Time)
	// DailyReset fires after counters roll over at the day boundary.
	DailyReset()
	// OverrunThresholdCrossed fires when a configurable overrun streak
	// suggests the goal is too strict.
	OverrunThresholdCrossed()
}

// Desktop sends native desktop notifications via beeep.
type Desktop struct {
	Sound bool
}

// NewDesktop returns a beeep-backed notifier.
func NewDesktop(sound bool) *Desktop {
	return &Desktop{Sound: sound}
}

func (d *Desktop) CigaretteAllowed() {
	d.send("Cigarette allowed", "The waiting interval is over. You held out - nice.")
}

func (d *Desktop) TimerFinished(at time.Time) {
	d.send("Timer finished", fmt.Sprintf("You have been waiting since %s.", at.Local().Format("15:04")))
}

func (d *Desktop) DailyReset() {
	d.send("New day", "Yesterday is archived. Counters start fresh.")
}

func (d *Desktop) OverrunThresholdCrossed() {
	d.send("Goal check", "You keep beating your interval by a wide margin. Consider loosening the goal.")
}

func (d *Desktop) send(title, body string) {
	if d.Sound {
		_ = beeep.Alert(title, body, "")
		return
	}
	_ = beeep.Notify(title, body, "")
}

// Noop discards every notification. Used when notifications are disabled
// and in tests.
type Noop struct{}

func (Noop) CigaretteAllowed()        {}
func (Noop) TimerFinished(time.Time)  {}
func (Noop) DailyReset()              {}
func (Noop) OverrunThresholdCrossed() {}
