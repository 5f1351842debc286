package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/chip8/arch"
)

type tickCounter struct {
	ticks atomic.Int64
}

func (m *tickCounter) Framebuffer(*arch.Framebuffer) bool { return false }
func (m *tickCounter) SetKey(int, bool)                   {}
func (m *tickCounter) SoundActive() bool                  { return false }
func (m *tickCounter) Tick()                              { m.ticks.Add(1) }

func TestClock(t *testing.T) {
	m := &tickCounter{}
	d := New(1000)
	assert.NoError(t, d.Startup(m))

	deadline := time.Now().Add(2 * time.Second)
	for m.ticks.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	assert.NoError(t, d.Shutdown())
	n := m.ticks.Load()
	assert.True(t, n >= 5)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, m.ticks.Load())

	assert.NoError(t, d.Shutdown())
}

func TestDefaultFrequency(t *testing.T) {
	d := New(0)
	assert.Equal(t, time.Second/DefaultFrequency, d.interval)
}
