package vkinit

import (
	"fmt"

	"github.com/pkg/errors"
)

// QueueFamilySlice is a device's queue families in driver order.
type QueueFamilySlice []*QueueFamily

// Filter returns the families matching f, keeping their order.
func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make([]*QueueFamily, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsGraphics()
	})
}

func hasQueues(q *QueueFamily) bool {
	return q.Properties.Count > 0
}

// QueueFamily is one queue family of a physical device.
type QueueFamily struct {
	Index          uint32
	PhysicalDevice *PhysicalDevice
	Properties     QueueFamilyProperties
}

func (q *QueueFamily) has(flag QueueFlags) bool {
	return q.Properties.Flags&flag == flag
}

func (q *QueueFamily) IsCompute() bool {
	return q.has(QueueCompute)
}

// IsGraphics reports whether the family can execute graphics work and has at
// least one queue.
func (q *QueueFamily) IsGraphics() bool {
	return q.Properties.Count > 0 && q.has(QueueGraphics)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.has(QueueTransfer)
}

// SupportsPresent asks the host whether this family can present to surface.
func (q *QueueFamily) SupportsPresent(surface *Surface) (bool, error) {
	ok, err := q.PhysicalDevice.Host.SurfaceSupport(q.PhysicalDevice.Handle, q.Index, surface.Handle)
	if err != nil {
		return false, errors.Wrapf(err, "surface support query for family %d", q.Index)
	}
	return ok, nil
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Count: %d Compute: %v Graphics: %v Transfer: %v }",
		q.Index, q.Properties.Count, q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}

// OptionalIndex is a queue family index that is either present or absent.
type OptionalIndex struct {
	index uint32
	set   bool
}

// Some returns a present index.
func Some(index uint32) OptionalIndex {
	return OptionalIndex{index: index, set: true}
}

// Get returns the index and whether it is present.
func (o OptionalIndex) Get() (uint32, bool) {
	return o.index, o.set
}

// IsSet reports whether the index is present.
func (o OptionalIndex) IsSet() bool {
	return o.set
}

// Must returns the index, panicking when it is absent.
func (o OptionalIndex) Must() uint32 {
	if !o.set {
		panic("vkinit: queue family index not set")
	}
	return o.index
}

// setOnce assigns index unless a value is already present. It reports whether
// the assignment happened.
func (o *OptionalIndex) setOnce(index uint32) bool {
	if o.set {
		return false
	}
	o.index = index
	o.set = true
	return true
}

func (o OptionalIndex) String() string {
	if !o.set {
		return "none"
	}
	return fmt.Sprintf("%d", o.index)
}

// QueueFamilyIndices records which queue family fills each role.
type QueueFamilyIndices struct {
	Graphics OptionalIndex
	Present  OptionalIndex

	// RequirePresent marks the present role as required for completeness.
	RequirePresent bool
}

// IsComplete reports whether every required role has an index.
func (i QueueFamilyIndices) IsComplete() bool {
	if !i.Graphics.IsSet() {
		return false
	}
	return !i.RequirePresent || i.Present.IsSet()
}

// Unique returns the distinct family indices in role order, graphics first.
func (i QueueFamilyIndices) Unique() []uint32 {
	var ret []uint32
	for _, o := range []OptionalIndex{i.Graphics, i.Present} {
		idx, ok := o.Get()
		if !ok {
			continue
		}
		dup := false
		for _, r := range ret {
			if r == idx {
				dup = true
				break
			}
		}
		if !dup {
			ret = append(ret, idx)
		}
	}
	return ret
}

func (i QueueFamilyIndices) String() string {
	return fmt.Sprintf("{ Graphics: %s Present: %s }", i.Graphics, i.Present)
}
