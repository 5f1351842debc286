// Package devices defines the peripherals connected to the virtual machine.
package devices

import (
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Device represents a peripheral device.
// It interacts with the machine through the Machine interface.
type Device interface {
	// ID yields the manufacturer and serial number for the device.
	ID() ID

	// Startup initializes internal resources.
	// The device may hold on to m until Shutdown is called.
	Startup(m Machine) error

	// Shutdown cleans up internal resources.
	Shutdown() error
}

// Map contains a list of registered peripherals.
type Map []Device

// Connect adds the given device to the device map.
// Returns false if the device type is already present in the set.
func (dm *Map) Connect(dev Device) bool {
	if (*dm).Find(dev.ID()) > -1 {
		return false
	}

	*dm = append(*dm, dev)
	return true
}

// Startup initializes internal resources.
func (dm Map) Startup(logger *log.Logger, m Machine) error {
	var errorset ErrorSet

	for _, dev := range dm {
		logger.Debug("Device startup", log.Stringer("device", dev.ID()))
		if err := dev.Startup(m); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	if errorset.Len() == 0 {
		return nil
	}

	return errorset
}

// Shutdown cleans up internal resources.
func (dm Map) Shutdown(logger *log.Logger) error {
	var errorset ErrorSet

	for _, dev := range dm {
		logger.Debug("Device shutdown", log.Stringer("device", dev.ID()))
		if err := dev.Shutdown(); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	if errorset.Len() == 0 {
		return nil
	}

	return errorset
}

// Find returns the index for the device with the given id.
// Returns -1 if it can't be found.
func (dm Map) Find(id ID) int {
	for i, dev := range dm {
		if dev.ID() == id {
			return i
		}
	}
	return -1
}
