// Package animation drives the two time-based animation styles of a
// pattern surface: offset scrolling and progressive reveal.
package animation

import (
	"time"

	"github.com/weave-visualizer/engine/internal/models"
	"github.com/weave-visualizer/engine/internal/scheduler"
)

// DefaultSpeed is the initial offset speed in cells per second.
const DefaultSpeed = 5

// Driver advances a 2-D sampling offset one cell per tick. At most one
// ticker is active per driver.
type Driver struct {
	sched     scheduler.Scheduler
	onTick    func()
	direction models.Direction
	speed     int
	offset    models.Offset
	ticker    scheduler.Timer
}

// NewDriver creates a stopped driver. onTick is called after every offset
// step and may be nil.
func NewDriver(s scheduler.Scheduler, onTick func()) *Driver {
	return &Driver{sched: s, onTick: onTick, speed: DefaultSpeed}
}

// SetDirection stops the driver, resets the offset and, for any direction
// other than none, starts it again.
func (d *Driver) SetDirection(dir models.Direction) {
	d.Stop()
	d.direction = dir
	d.offset = models.Offset{}
	if dir != models.DirectionNone {
		d.start()
	}
}

// SetSpeed clamps s to [0, MaxSpeed]. A running driver is restarted so the
// new period applies immediately.
func (d *Driver) SetSpeed(s int) {
	d.speed = models.ClampSpeed(s)
	if d.Running() {
		d.Stop()
		d.start()
	}
}

// Resume starts the ticker with the configured direction and speed while
// keeping the current offset.
func (d *Driver) Resume() {
	if d.Running() {
		return
	}
	d.start()
}

// Stop cancels the ticker. It is safe to call on a stopped driver.
func (d *Driver) Stop() {
	if d.ticker != nil {
		d.ticker.Stop()
		d.ticker = nil
	}
}

// Running reports whether a ticker is active.
func (d *Driver) Running() bool {
	return d.ticker != nil
}

// Direction returns the configured direction.
func (d *Driver) Direction() models.Direction {
	return d.direction
}

// Speed returns the configured speed in cells per second.
func (d *Driver) Speed() int {
	return d.speed
}

// Offset returns the current sampling offset.
func (d *Driver) Offset() models.Offset {
	return d.offset
}

// Spec returns the persisted animation settings.
func (d *Driver) Spec() models.AnimationSpec {
	return models.AnimationSpec{Direction: d.direction, Speed: d.speed}
}

// Period returns the tick period for the current speed, or 0 when the
// speed is 0.
func (d *Driver) Period() time.Duration {
	if d.speed <= 0 {
		return 0
	}
	return time.Second / time.Duration(d.speed)
}

func (d *Driver) start() {
	if d.direction == models.DirectionNone || d.speed == 0 {
		return
	}
	d.Stop()
	d.ticker = d.sched.Every(d.Period(), d.step)
}

func (d *Driver) step() {
	switch d.direction {
	case models.DirectionRight:
		d.offset.X--
	case models.DirectionLeft:
		d.offset.X++
	case models.DirectionDown:
		d.offset.Y--
	case models.DirectionUp:
		d.offset.Y++
	default:
		return
	}
	if d.onTick != nil {
		d.onTick()
	}
}
