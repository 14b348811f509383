package vkhost

import (
	"github.com/celer/vkinit"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func (h *Host) PhysicalDevices(handle vkinit.InstanceHandle) ([]vkinit.PhysicalDeviceHandle, error) {
	instance, err := h.instance(handle)
	if err != nil {
		return nil, err
	}

	var count uint32
	if err := check("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, count)
	if err := check("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &count, devices)); err != nil {
		return nil, err
	}

	ret := make([]vkinit.PhysicalDeviceHandle, 0, count)
	for _, d := range devices[:count] {
		ph := vkinit.PhysicalDeviceHandle(h.alloc())
		h.mu.Lock()
		h.physical[ph] = physicalEntry{instance: handle, device: d}
		h.mu.Unlock()
		ret = append(ret, ph)
	}
	return ret, nil
}

func (h *Host) physicalDevice(ph vkinit.PhysicalDeviceHandle) (vk.PhysicalDevice, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.physical[ph]
	return e.device, ok
}

func deviceType(t vk.PhysicalDeviceType) vkinit.PhysicalDeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return vkinit.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return vkinit.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return vkinit.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return vkinit.DeviceTypeCPU
	default:
		return vkinit.DeviceTypeOther
	}
}

func (h *Host) PhysicalDeviceProperties(ph vkinit.PhysicalDeviceHandle) vkinit.PhysicalDeviceProperties {
	device, ok := h.physicalDevice(ph)
	if !ok {
		return vkinit.PhysicalDeviceProperties{}
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &props)
	props.Deref()

	ret := vkinit.PhysicalDeviceProperties{
		Name:       vk.ToString(props.DeviceName[:]),
		Type:       deviceType(props.DeviceType),
		APIVersion: vkinit.UnpackVersion(props.ApiVersion),
		VendorID:   props.VendorID,
		DeviceID:   props.DeviceID,
	}

	var mem vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(device, &mem)
	mem.Deref()
	for i := uint32(0); i < mem.MemoryHeapCount; i++ {
		heap := mem.MemoryHeaps[i]
		heap.Deref()
		ret.Heaps = append(ret.Heaps, vkinit.MemoryHeap{
			Size:        uint64(heap.Size),
			DeviceLocal: vk.MemoryHeapFlagBits(heap.Flags)&vk.MemoryHeapDeviceLocalBit != 0,
		})
	}
	return ret
}

func queueFlags(f vk.QueueFlags) vkinit.QueueFlags {
	var ret vkinit.QueueFlags
	if f&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		ret |= vkinit.QueueGraphics
	}
	if f&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		ret |= vkinit.QueueCompute
	}
	if f&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		ret |= vkinit.QueueTransfer
	}
	if f&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		ret |= vkinit.QueueSparseBinding
	}
	return ret
}

func (h *Host) QueueFamilyProperties(ph vkinit.PhysicalDeviceHandle) []vkinit.QueueFamilyProperties {
	device, ok := h.physicalDevice(ph)
	if !ok {
		return nil
	}

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, nil)
	if count == 0 {
		return nil
	}
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, families)

	ret := make([]vkinit.QueueFamilyProperties, 0, count)
	for _, f := range families[:count] {
		f.Deref()
		ret = append(ret, vkinit.QueueFamilyProperties{
			Flags: queueFlags(f.QueueFlags),
			Count: f.QueueCount,
		})
	}
	return ret
}

func (h *Host) SurfaceSupport(ph vkinit.PhysicalDeviceHandle, family uint32, sh vkinit.SurfaceHandle) (bool, error) {
	device, ok := h.physicalDevice(ph)
	if !ok {
		return false, errors.Errorf("unknown physical device handle %d", ph)
	}
	surface, err := h.surface(sh)
	if err != nil {
		return false, err
	}
	var supported vk.Bool32
	if err := check("vkGetPhysicalDeviceSurfaceSupportKHR",
		vk.GetPhysicalDeviceSurfaceSupport(device, family, surface, &supported)); err != nil {
		return false, err
	}
	return supported == vk.True, nil
}

func (h *Host) CreateDevice(ph vkinit.PhysicalDeviceHandle, info vkinit.DeviceInfo) (vkinit.DeviceHandle, error) {
	physical, ok := h.physicalDevice(ph)
	if !ok {
		return 0, errors.Errorf("unknown physical device handle %d", ph)
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(info.Queues))
	for i, q := range info.Queues {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.FamilyIndex,
			QueueCount:       q.Count,
			PQueuePriorities: q.Priorities,
		}
	}

	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var device vk.Device
	if err := check("vkCreateDevice", vk.CreateDevice(physical, &deviceCreateInfo, nil, &device)); err != nil {
		return 0, err
	}

	dh := vkinit.DeviceHandle(h.alloc())
	h.mu.Lock()
	h.devices[dh] = device
	h.mu.Unlock()
	return dh, nil
}

func (h *Host) device(dh vkinit.DeviceHandle) (vk.Device, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.devices[dh]
	return d, ok
}

func (h *Host) DeviceQueue(dh vkinit.DeviceHandle, family, index uint32) vkinit.QueueHandle {
	device, ok := h.device(dh)
	if !ok {
		return 0
	}
	var queue vk.Queue
	vk.GetDeviceQueue(device, family, index, &queue)

	qh := vkinit.QueueHandle(h.alloc())
	h.mu.Lock()
	h.queues[qh] = queueEntry{device: dh, queue: queue}
	h.mu.Unlock()
	return qh
}

func (h *Host) DeviceWaitIdle(dh vkinit.DeviceHandle) {
	if device, ok := h.device(dh); ok {
		vk.DeviceWaitIdle(device)
	}
}

// DestroyDevice destroys the device. Its queue handles stop resolving.
func (h *Host) DestroyDevice(dh vkinit.DeviceHandle) {
	h.mu.Lock()
	device, ok := h.devices[dh]
	delete(h.devices, dh)
	for k, e := range h.queues {
		if e.device == dh {
			delete(h.queues, k)
		}
	}
	h.mu.Unlock()
	if ok {
		vk.DestroyDevice(device, nil)
	}
}

// VKDevice returns the native device behind dh.
func (h *Host) VKDevice(dh vkinit.DeviceHandle) (vk.Device, bool) {
	return h.device(dh)
}

// VKQueue returns the native queue behind qh.
func (h *Host) VKQueue(qh vkinit.QueueHandle) (vk.Queue, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.queues[qh]
	return e.queue, ok
}
