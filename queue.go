package vkinit

import (
	"fmt"
)

// Queue is a view of one device queue. It is only valid while its device is alive.
type Queue struct {
	Device      *Device
	FamilyIndex uint32
	Handle      QueueHandle
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %d}", q.Device.PhysicalDevice, q.FamilyIndex)
}
