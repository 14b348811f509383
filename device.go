package vkinit

import (
	"fmt"

	"github.com/pkg/errors"
)

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// QueueRequests builds one single-queue request at priority 1.0 for each
// distinct family in indices. A family serving several roles is requested
// once.
func QueueRequests(indices QueueFamilyIndices) []QueueRequest {
	unique := indices.Unique()
	reqs := make([]QueueRequest, len(unique))
	for i, idx := range unique {
		reqs[i] = QueueRequest{
			FamilyIndex: idx,
			Count:       1,
			Priorities:  []float32{1.0},
		}
	}
	return reqs
}

// CreateLogicalDeviceWithOptions creates a logical device with a queue for
// every role in indices and fetches those queues.
func (p *PhysicalDevice) CreateLogicalDeviceWithOptions(indices QueueFamilyIndices, options *CreateDeviceOptions) (*Device, error) {
	if !indices.IsComplete() {
		return nil, errors.Errorf("queue family indices %s are incomplete", indices)
	}

	info := DeviceInfo{Queues: QueueRequests(indices)}
	if options != nil {
		info.Extensions = options.EnabledExtensions
		info.Layers = options.EnabledLayers
	}

	h, err := p.Host.CreateDevice(p.Handle, info)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logical device")
	}

	d := &Device{
		PhysicalDevice: p,
		Handle:         h,
		Indices:        indices,
	}
	d.GraphicsQueue = d.GetQueue(indices.Graphics.Must())
	if idx, ok := indices.Present.Get(); ok {
		d.PresentQueue = d.GetQueue(idx)
	}
	return d, nil
}

func (p *PhysicalDevice) CreateLogicalDevice(indices QueueFamilyIndices) (*Device, error) {
	return p.CreateLogicalDeviceWithOptions(indices, nil)
}

type Device struct {
	PhysicalDevice *PhysicalDevice
	Handle         DeviceHandle
	Indices        QueueFamilyIndices

	GraphicsQueue *Queue
	// PresentQueue is nil when no surface was bound during selection
	PresentQueue *Queue

	destroyed bool
}

// Destroy waits for the device to go idle and releases it. Later calls do
// nothing.
func (d *Device) Destroy() {
	if d == nil || d.destroyed {
		return
	}
	d.destroyed = true
	host := d.PhysicalDevice.Host
	host.DeviceWaitIdle(d.Handle)
	host.DestroyDevice(d.Handle)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s Queues: %s }", d.PhysicalDevice, d.Indices)
}

func (d *Device) WaitIdle() {
	d.PhysicalDevice.Host.DeviceWaitIdle(d.Handle)
}

// GetQueue returns queue 0 of the given family.
func (d *Device) GetQueue(family uint32) *Queue {
	return &Queue{
		Device:      d,
		FamilyIndex: family,
		Handle:      d.PhysicalDevice.Host.DeviceQueue(d.Handle, family, 0),
	}
}
