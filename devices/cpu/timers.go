package cpu

// TimerFrequency is the rate in Hz at which Tick is meant to be called.
const TimerFrequency = 60

// Timers holds the delay and sound timer registers.
type Timers struct {
	Delay byte
	Sound byte
}

// Tick decrements each non-zero timer by one.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}
