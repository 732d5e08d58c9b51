package timer

// State is the state of a Countdown.
type State int

const (
	Running State = iota
	Paused
	Expired
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Countdown counts whole seconds down to zero. It is a plain state machine
// with no locking; the owner serializes calls and decides when ticks happen.
//
// Expired is terminal: the remaining time never goes below zero and the expiry
// is reported by exactly one Tick.
type Countdown struct {
	duration  int
	remaining int
	state     State
}

// NewCountdown starts Running with the given number of seconds. A duration of
// zero or less starts Expired.
func NewCountdown(seconds int) *Countdown {
	c := &Countdown{duration: seconds, remaining: seconds, state: Running}
	if seconds <= 0 {
		c.duration, c.remaining, c.state = 0, 0, Expired
	}
	return c
}

// Tick consumes one second while Running. It returns true only on the tick
// that reaches zero.
func (c *Countdown) Tick() bool {
	if c.state != Running {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = Expired
		return true
	}
	return false
}

func (c *Countdown) Pause() bool {
	if c.state != Running {
		return false
	}
	c.state = Paused
	return true
}

func (c *Countdown) Resume() bool {
	if c.state != Paused {
		return false
	}
	c.state = Running
	return true
}

func (c *Countdown) Remaining() int { return c.remaining }

func (c *Countdown) Duration() int { return c.duration }

// Elapsed is the number of seconds consumed so far.
func (c *Countdown) Elapsed() int { return c.duration - c.remaining }

func (c *Countdown) State() State { return c.state }
