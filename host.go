package vkinit

import "unsafe"

// Handle is an opaque reference to an object owned by a Host. The zero value
// never refers to a live object.
type Handle uint64

type (
	InstanceHandle       Handle
	DebugHandle          Handle
	SurfaceHandle        Handle
	PhysicalDeviceHandle Handle
	DeviceHandle         Handle
	QueueHandle          Handle
)

// QueueFlags mirrors the capability bits a queue family declares.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// QueueFamilyProperties describes one queue family of a physical device.
type QueueFamilyProperties struct {
	Flags QueueFlags
	Count uint32
}

// PhysicalDeviceType classifies a physical device.
type PhysicalDeviceType int

const (
	DeviceTypeOther PhysicalDeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// MemoryHeap is one memory heap reported by a physical device.
type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

// PhysicalDeviceProperties is the read-only capability data the driver reports
// for a physical device.
type PhysicalDeviceProperties struct {
	Name       string
	Type       PhysicalDeviceType
	APIVersion Version
	VendorID   uint32
	DeviceID   uint32
	Heaps      []MemoryHeap
}

// InstanceInfo holds the parameters used to create an instance.
type InstanceInfo struct {
	ApplicationName    string
	ApplicationVersion Version
	EngineName         string
	EngineVersion      Version
	APIVersion         Version
	Extensions         []string
	Layers             []string
}

// QueueRequest asks for Count queues of one family.
type QueueRequest struct {
	FamilyIndex uint32
	Count       uint32
	Priorities  []float32
}

// DeviceInfo holds the parameters used to create a logical device.
type DeviceInfo struct {
	Queues     []QueueRequest
	Extensions []string
	Layers     []string
}

// SurfaceSource is anything able to create a presentable surface for a raw
// instance. *glfw.Window satisfies it.
type SurfaceSource interface {
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error)
}

// Host is the boundary to the graphics driver. Every call the initialization
// pipeline makes into the driver goes through a Host, so it can be swapped
// out for an in-memory implementation.
type Host interface {
	// Init loads the driver entry points through procAddr, the loader's
	// vkGetInstanceProcAddr. A nil procAddr uses the system loader.
	Init(procAddr unsafe.Pointer) error

	InstanceLayers() ([]string, error)
	InstanceExtensions() ([]string, error)
	CreateInstance(info InstanceInfo) (InstanceHandle, error)
	DestroyInstance(instance InstanceHandle)

	CreateDebugCallback(instance InstanceHandle, handler DiagnosticsHandler) (DebugHandle, error)
	DestroyDebugCallback(instance InstanceHandle, callback DebugHandle)

	CreateSurface(instance InstanceHandle, source SurfaceSource) (SurfaceHandle, error)
	DestroySurface(instance InstanceHandle, surface SurfaceHandle)

	PhysicalDevices(instance InstanceHandle) ([]PhysicalDeviceHandle, error)
	PhysicalDeviceProperties(device PhysicalDeviceHandle) PhysicalDeviceProperties
	QueueFamilyProperties(device PhysicalDeviceHandle) []QueueFamilyProperties
	SurfaceSupport(device PhysicalDeviceHandle, family uint32, surface SurfaceHandle) (bool, error)

	CreateDevice(physical PhysicalDeviceHandle, info DeviceInfo) (DeviceHandle, error)
	DeviceQueue(device DeviceHandle, family, index uint32) QueueHandle
	DeviceWaitIdle(device DeviceHandle)
	DestroyDevice(device DeviceHandle)
}
