package vkinit

import (
	"fmt"
	"unsafe"
)

type fakeDevice struct {
	props    PhysicalDeviceProperties
	families []QueueFamilyProperties
	// present lists the families able to present to any surface
	present map[uint32]bool
}

// fakeHost is an in-memory Host. It records every create/destroy call so
// tests can check ordering and counts.
type fakeHost struct {
	layers  []string
	devices []fakeDevice

	initErr           error
	createInstanceErr error
	debugErr          error
	surfaceErr        error
	createDeviceErr   error

	next        uint64
	initCalls   int
	createCalls int
	deviceInfos []DeviceInfo
	surfaceQs   int
	handlers    []DiagnosticsHandler
	events      []string
	released    map[string]int
}

func newFakeHost(devices ...fakeDevice) *fakeHost {
	return &fakeHost{
		layers:   []string{KhronosValidationLayer},
		devices:  devices,
		released: map[string]int{},
	}
}

// gpu returns a device with the given queue families; present lists the
// families that can present.
func gpu(name string, families []QueueFamilyProperties, present ...uint32) fakeDevice {
	d := fakeDevice{
		props:    PhysicalDeviceProperties{Name: name, Type: DeviceTypeDiscreteGPU},
		families: families,
		present:  map[uint32]bool{},
	}
	for _, p := range present {
		d.present[p] = true
	}
	return d
}

func (h *fakeHost) alloc() uint64 {
	h.next++
	return h.next
}

func (h *fakeHost) release(kind string, id uint64) {
	key := fmt.Sprintf("%s:%d", kind, id)
	h.released[key]++
	h.events = append(h.events, "destroy "+kind)
}

func (h *fakeHost) Init(procAddr unsafe.Pointer) error {
	h.initCalls++
	return h.initErr
}

func (h *fakeHost) InstanceLayers() ([]string, error) {
	return h.layers, nil
}

func (h *fakeHost) InstanceExtensions() ([]string, error) {
	return []string{"VK_KHR_surface", DebugReportExtension}, nil
}

func (h *fakeHost) CreateInstance(info InstanceInfo) (InstanceHandle, error) {
	h.createCalls++
	if h.createInstanceErr != nil {
		return 0, h.createInstanceErr
	}
	h.events = append(h.events, "create instance")
	return InstanceHandle(h.alloc()), nil
}

func (h *fakeHost) DestroyInstance(instance InstanceHandle) {
	h.release("instance", uint64(instance))
}

func (h *fakeHost) CreateDebugCallback(instance InstanceHandle, handler DiagnosticsHandler) (DebugHandle, error) {
	if h.debugErr != nil {
		return 0, h.debugErr
	}
	h.handlers = append(h.handlers, handler)
	h.events = append(h.events, "create debug")
	return DebugHandle(h.alloc()), nil
}

func (h *fakeHost) DestroyDebugCallback(instance InstanceHandle, callback DebugHandle) {
	h.release("debug", uint64(callback))
}

func (h *fakeHost) CreateSurface(instance InstanceHandle, source SurfaceSource) (SurfaceHandle, error) {
	if h.surfaceErr != nil {
		return 0, h.surfaceErr
	}
	if _, err := source.CreateWindowSurface(instance, nil); err != nil {
		return 0, err
	}
	h.events = append(h.events, "create surface")
	return SurfaceHandle(h.alloc()), nil
}

func (h *fakeHost) DestroySurface(instance InstanceHandle, surface SurfaceHandle) {
	h.release("surface", uint64(surface))
}

// Physical device handles are 1-based indexes into devices.
func (h *fakeHost) PhysicalDevices(instance InstanceHandle) ([]PhysicalDeviceHandle, error) {
	ret := make([]PhysicalDeviceHandle, len(h.devices))
	for i := range h.devices {
		ret[i] = PhysicalDeviceHandle(i + 1)
	}
	return ret, nil
}

func (h *fakeHost) PhysicalDeviceProperties(device PhysicalDeviceHandle) PhysicalDeviceProperties {
	return h.devices[device-1].props
}

func (h *fakeHost) QueueFamilyProperties(device PhysicalDeviceHandle) []QueueFamilyProperties {
	return h.devices[device-1].families
}

func (h *fakeHost) SurfaceSupport(device PhysicalDeviceHandle, family uint32, surface SurfaceHandle) (bool, error) {
	h.surfaceQs++
	return h.devices[device-1].present[family], nil
}

func (h *fakeHost) CreateDevice(physical PhysicalDeviceHandle, info DeviceInfo) (DeviceHandle, error) {
	h.deviceInfos = append(h.deviceInfos, info)
	if h.createDeviceErr != nil {
		return 0, h.createDeviceErr
	}
	h.events = append(h.events, "create device")
	return DeviceHandle(h.alloc()), nil
}

func (h *fakeHost) DeviceQueue(device DeviceHandle, family, index uint32) QueueHandle {
	return QueueHandle(h.alloc())
}

func (h *fakeHost) DeviceWaitIdle(device DeviceHandle) {}

func (h *fakeHost) DestroyDevice(device DeviceHandle) {
	h.release("device", uint64(device))
}

type fakeWindow struct {
	extensions []string
	closeAfter int
	polls      int
	destroyed  int
	surfaceErr error
}

func (w *fakeWindow) CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error) {
	return 1, w.surfaceErr
}

func (w *fakeWindow) ShouldClose() bool {
	return w.polls >= w.closeAfter
}

func (w *fakeWindow) GetRequiredInstanceExtensions() []string {
	return w.extensions
}

func (w *fakeWindow) Destroy() {
	w.destroyed++
}

type fakePlatform struct {
	window      *fakeWindow
	unsupported bool
	initErr     error
	windowErr   error

	opts       WindowOptions
	terminated int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		window: &fakeWindow{
			extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
			closeAfter: 3,
		},
	}
}

func (p *fakePlatform) Init() error { return p.initErr }

func (p *fakePlatform) VulkanSupported() bool { return !p.unsupported }

func (p *fakePlatform) InstanceProcAddr() unsafe.Pointer { return nil }

func (p *fakePlatform) CreateWindow(opts WindowOptions) (Window, error) {
	if p.windowErr != nil {
		return nil, p.windowErr
	}
	p.opts = opts
	return p.window, nil
}

func (p *fakePlatform) PollEvents() {
	p.window.polls++
}

func (p *fakePlatform) Terminate() {
	p.terminated++
}

var (
	graphicsFamily = QueueFamilyProperties{Flags: QueueGraphics | QueueCompute | QueueTransfer, Count: 1}
	computeFamily  = QueueFamilyProperties{Flags: QueueCompute | QueueTransfer, Count: 2}
	transferFamily = QueueFamilyProperties{Flags: QueueTransfer, Count: 1}
)
