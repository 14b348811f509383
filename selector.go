package vkinit

import (
	"log/slog"

	"github.com/pkg/errors"
)

// PickPhysicalDevice returns the first device, in enumeration order, whose
// queue families fill every required role. A graphics family is always
// required; a present family is required when surface is not nil. Devices are
// not scored, the first suitable one wins.
func PickPhysicalDevice(instance *Instance, surface *Surface) (*PhysicalDevice, QueueFamilyIndices, error) {
	return pickPhysicalDevice(instance, surface, slog.Default())
}

func pickPhysicalDevice(instance *Instance, surface *Surface, logger *slog.Logger) (*PhysicalDevice, QueueFamilyIndices, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, QueueFamilyIndices{}, err
	}
	if len(devices) == 0 {
		return nil, QueueFamilyIndices{}, errors.WithStack(ErrNoPhysicalDevices)
	}

	for _, d := range devices {
		indices, err := d.FindQueueFamilies(surface)
		if err != nil {
			return nil, QueueFamilyIndices{}, errors.Wrapf(err, "inspecting %s", d)
		}
		logger.Debug("inspected physical device",
			"name", d.DeviceName, "type", d.Properties.Type.String(),
			"indices", indices.String(), "suitable", indices.IsComplete())
		if indices.IsComplete() {
			return d, indices, nil
		}
	}
	return nil, QueueFamilyIndices{}, errors.Wrapf(ErrNoSuitableDevice, "checked %d devices", len(devices))
}
