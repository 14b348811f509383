package vkinit

import (
	"fmt"
	"strings"

	units "github.com/docker/go-units"
)

type PhysicalDevice struct {
	Host       Host
	Handle     PhysicalDeviceHandle
	DeviceName string
	Properties PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

// QueueFamilies returns the device's queue families in driver order.
func (p *PhysicalDevice) QueueFamilies() QueueFamilySlice {
	props := p.Host.QueueFamilyProperties(p.Handle)
	if len(props) == 0 {
		return nil
	}

	ret := make(QueueFamilySlice, len(props))
	for i, qp := range props {
		ret[i] = &QueueFamily{Index: uint32(i), PhysicalDevice: p, Properties: qp}
	}
	return ret
}

// FindQueueFamilies assigns the first graphics family and, when surface is
// not nil, the first family able to present to it. Families without queues
// are never considered, and no family is queried past the first one that can
// present.
func (p *PhysicalDevice) FindQueueFamilies(surface *Surface) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{RequirePresent: surface != nil}
	families := p.QueueFamilies()
	if graphics := families.FilterGraphics(); len(graphics) > 0 {
		indices.Graphics.setOnce(graphics[0].Index)
	}
	if surface == nil {
		return indices, nil
	}

	for _, qf := range families.Filter(hasQueues) {
		ok, err := qf.SupportsPresent(surface)
		if err != nil {
			return indices, err
		}
		if ok {
			indices.Present.setOnce(qf.Index)
			break
		}
	}
	return indices, nil
}

// TotalMemory is the sum of all device-local heap sizes.
func (p *PhysicalDevice) TotalMemory() uint64 {
	var total uint64
	for _, h := range p.Properties.Heaps {
		if h.DeviceLocal {
			total += h.Size
		}
	}
	return total
}

// Describe returns a multi-line, human readable summary of the device.
func (p *PhysicalDevice) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", p.DeviceName)
	fmt.Fprintf(&sb, "-----------------------------\n")
	fmt.Fprintf(&sb, "\tType: %s\n", p.Properties.Type)
	fmt.Fprintf(&sb, "\tAPI: %s\n", p.Properties.APIVersion)
	fmt.Fprintf(&sb, "\tVendor: 0x%04x Device: 0x%04x\n", p.Properties.VendorID, p.Properties.DeviceID)

	fmt.Fprintf(&sb, "\n\tQueue Families\n")
	for _, qf := range p.QueueFamilies() {
		fmt.Fprintf(&sb, "\t\t%s\n", qf)
	}

	fmt.Fprintf(&sb, "\n\tHeaps\n")
	for _, h := range p.Properties.Heaps {
		flags := ""
		if h.DeviceLocal {
			flags = "device-local"
		}
		fmt.Fprintf(&sb, "\t\t%s\t%s\n", units.BytesSize(float64(h.Size)), flags)
	}
	return sb.String()
}
