package devices

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
)

var errBroken = errors.New("broken")

type fakeDevice struct {
	id      ID
	fail    bool
	started bool
}

func (d *fakeDevice) ID() ID { return d.id }

func (d *fakeDevice) Startup(Machine) error {
	if d.fail {
		return errBroken
	}
	d.started = true
	return nil
}

func (d *fakeDevice) Shutdown() error {
	if d.fail {
		return errBroken
	}
	d.started = false
	return nil
}

type nopMachine struct{}

func (nopMachine) Framebuffer(*arch.Framebuffer) bool { return false }
func (nopMachine) SetKey(int, bool)                   {}
func (nopMachine) SoundActive() bool                  { return false }
func (nopMachine) Tick()                              {}

func TestID(t *testing.T) {
	id := NewID(Manufacturer, SerialKeypad)
	assert.Equal(t, Manufacturer, id.Manufacturer())
	assert.Equal(t, SerialKeypad, id.Serial())
	assert.Equal(t, "c808:0003", id.String())
}

func TestMapConnect(t *testing.T) {
	var dm Map
	assert.True(t, dm.Connect(&fakeDevice{id: NewID(Manufacturer, SerialClock)}))
	assert.True(t, dm.Connect(&fakeDevice{id: NewID(Manufacturer, SerialScreen)}))
	assert.False(t, dm.Connect(&fakeDevice{id: NewID(Manufacturer, SerialClock)}))

	assert.Len(t, dm, 2)
	assert.Equal(t, 1, dm.Find(NewID(Manufacturer, SerialScreen)))
	assert.Equal(t, -1, dm.Find(NewID(Manufacturer, SerialBeeper)))
}

func TestMapStartup(t *testing.T) {
	logger := log.NewTestLogger(t)
	good := &fakeDevice{id: NewID(Manufacturer, SerialClock)}
	bad := &fakeDevice{id: NewID(Manufacturer, SerialBeeper), fail: true}

	var dm Map
	dm.Connect(good)
	dm.Connect(bad)

	err := dm.Startup(logger, nopMachine{})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errBroken))
	assert.ErrorContains(t, err, "c808:0004")
	assert.True(t, good.started)

	err = dm.Shutdown(logger)
	assert.True(t, errors.Is(err, errBroken))
	assert.False(t, good.started)
}

func TestMapStartupClean(t *testing.T) {
	logger := log.NewTestLogger(t)

	var dm Map
	dm.Connect(&fakeDevice{id: NewID(Manufacturer, SerialClock)})
	assert.NoError(t, dm.Startup(logger, nopMachine{}))
	assert.NoError(t, dm.Shutdown(logger))
}

func TestErrorSet(t *testing.T) {
	var set ErrorSet
	set.Append(nil, errors.New("a"), nil, errBroken)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "a; broken", set.Error())
	assert.True(t, errors.Is(set, errBroken))
}
