package session

import (
	"sync"
	"time"
)

// DefaultAutoAdvanceDelay is how long feedback stays visible before the next exercise
const DefaultAutoAdvanceDelay = 2 * time.Second

// DefaultTick is the countdown display interval
const DefaultTick = time.Second

// Countdown is a cancellable scheduled advance.
// onTick is called with the remaining time on every tick before the end,
// onDone once the delay has passed unless Cancel was called first.
type Countdown struct {
	stop     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// StartCountdown arms a countdown of delay ticking every tick.
// A non-positive tick means a single tick at the end.
func StartCountdown(delay, tick time.Duration, onTick func(remaining time.Duration), onDone func()) *Countdown {
	if tick <= 0 {
		tick = delay
	}
	c := &Countdown{
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go c.run(delay, tick, onTick, onDone)
	return c
}

func (c *Countdown) run(delay, tick time.Duration, onTick func(time.Duration), onDone func()) {
	defer close(c.finished)

	if remaining := delay; remaining > 0 {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for remaining > 0 {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				remaining -= tick
				if remaining > 0 && onTick != nil {
					onTick(remaining)
				}
			}
		}
	}

	select {
	case <-c.stop:
		return
	default:
	}
	if onDone != nil {
		onDone()
	}
}

// Cancel stops the countdown. It is safe to call on a nil, finished or
// already cancelled countdown.
func (c *Countdown) Cancel() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

// Finished is closed once the countdown has fired or observed cancellation
func (c *Countdown) Finished() <-chan struct{} {
	return c.finished
}

// Seconds rounds d up to whole seconds for display
func Seconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
