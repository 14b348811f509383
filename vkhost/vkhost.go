// Package vkhost implements vkinit.Host on top of the vulkan-go bindings.
package vkhost

import (
	"sync"
	"unsafe"

	"github.com/celer/vkinit"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var end = "\x00"
var endChar byte = '\x00'

func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	ret := make([]string, len(list))
	for i := range list {
		ret[i] = safeString(list[i])
	}
	return ret
}

func vkVersion(v vkinit.Version) uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

func check(op string, ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return errors.WithStack(&vkinit.ResultError{Op: op, Code: int32(ret), Err: vk.Error(ret)})
}

type debugEntry struct {
	instance vkinit.InstanceHandle
	callback vk.DebugReportCallback
	handler  vkinit.DiagnosticsHandler
}

type surfaceEntry struct {
	instance vkinit.InstanceHandle
	surface  vk.Surface
}

type physicalEntry struct {
	instance vkinit.InstanceHandle
	device   vk.PhysicalDevice
}

type queueEntry struct {
	device vkinit.DeviceHandle
	queue  vk.Queue
}

// Host talks to the Vulkan driver. Driver objects are kept in tables keyed by
// the opaque handles handed out to callers. Entries owned by an instance or a
// device are dropped when their owner is destroyed.
type Host struct {
	mu   sync.Mutex
	next uint64

	instances map[vkinit.InstanceHandle]vk.Instance
	debug     map[vkinit.DebugHandle]debugEntry
	surfaces  map[vkinit.SurfaceHandle]surfaceEntry
	physical  map[vkinit.PhysicalDeviceHandle]physicalEntry
	devices   map[vkinit.DeviceHandle]vk.Device
	queues    map[vkinit.QueueHandle]queueEntry

	initialized bool
}

// New returns a Host. Call Init before anything else.
func New() *Host {
	return &Host{
		instances: make(map[vkinit.InstanceHandle]vk.Instance),
		debug:     make(map[vkinit.DebugHandle]debugEntry),
		surfaces:  make(map[vkinit.SurfaceHandle]surfaceEntry),
		physical:  make(map[vkinit.PhysicalDeviceHandle]physicalEntry),
		devices:   make(map[vkinit.DeviceHandle]vk.Device),
		queues:    make(map[vkinit.QueueHandle]queueEntry),
	}
}

var _ vkinit.Host = (*Host)(nil)

func (h *Host) alloc() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	return h.next
}

func (h *Host) Init(procAddr unsafe.Pointer) error {
	if h.initialized {
		return nil
	}
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return errors.Wrap(err, "loading vulkan library")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vk.Init")
	}
	h.initialized = true
	return nil
}

func (h *Host) InstanceLayers() ([]string, error) {
	var count uint32
	if err := check("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := check("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(props))
	for _, l := range props[:count] {
		l.Deref()
		names = append(names, vk.ToString(l.LayerName[:]))
	}
	return names, nil
}

func (h *Host) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := check("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := check("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(props))
	for _, e := range props[:count] {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}

func (h *Host) CreateInstance(info vkinit.InstanceInfo) (vkinit.InstanceHandle, error) {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(info.ApplicationName),
		ApplicationVersion: vkVersion(info.ApplicationVersion),
		PEngineName:        safeString(info.EngineName),
		EngineVersion:      vkVersion(info.EngineVersion),
		ApiVersion:         vkVersion(info.APIVersion),
	}

	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if err := check("vkCreateInstance", vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return 0, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return 0, errors.Wrap(err, "vk.InitInstance")
	}

	handle := vkinit.InstanceHandle(h.alloc())
	h.mu.Lock()
	h.instances[handle] = instance
	h.mu.Unlock()
	return handle, nil
}

func (h *Host) instance(handle vkinit.InstanceHandle) (vk.Instance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i, ok := h.instances[handle]
	if !ok {
		return nil, errors.Errorf("unknown instance handle %d", handle)
	}
	return i, nil
}

// DestroyInstance destroys the instance and forgets every physical device,
// surface and debug callback enumerated or created through it. Surfaces and
// callbacks should already have been destroyed by the caller.
func (h *Host) DestroyInstance(handle vkinit.InstanceHandle) {
	h.mu.Lock()
	instance, ok := h.instances[handle]
	delete(h.instances, handle)
	h.forgetInstance(handle)
	h.mu.Unlock()
	if ok {
		vk.DestroyInstance(instance, nil)
	}
}

// forgetInstance must be called with mu held.
func (h *Host) forgetInstance(handle vkinit.InstanceHandle) {
	for k, e := range h.physical {
		if e.instance == handle {
			delete(h.physical, k)
		}
	}
	for k, e := range h.surfaces {
		if e.instance == handle {
			delete(h.surfaces, k)
		}
	}
	for k, e := range h.debug {
		if e.instance == handle {
			delete(h.debug, k)
		}
	}
}

func severity(flags vk.DebugReportFlags) vkinit.Severity {
	var s vkinit.Severity
	if flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0 {
		s |= vkinit.SeverityInformation
	}
	if flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0 {
		s |= vkinit.SeverityWarning
	}
	if flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0 {
		s |= vkinit.SeverityPerformanceWarning
	}
	if flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0 {
		s |= vkinit.SeverityError
	}
	if flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0 {
		s |= vkinit.SeverityDebug
	}
	return s
}

func (h *Host) CreateDebugCallback(handle vkinit.InstanceHandle, handler vkinit.DiagnosticsHandler) (vkinit.DebugHandle, error) {
	instance, err := h.instance(handle)
	if err != nil {
		return 0, err
	}

	fn := func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
		object uint64, location uint, messageCode int32, pLayerPrefix string,
		pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
		handler.HandleMessage(vkinit.DebugMessage{
			Severity:    severity(flags),
			LayerPrefix: pLayerPrefix,
			Code:        messageCode,
			Text:        pMessage,
		})
		return vk.Bool32(vk.False)
	}

	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: fn,
	}, nil, &callback)
	if err := check("vkCreateDebugReportCallbackEXT", ret); err != nil {
		return 0, err
	}

	dh := vkinit.DebugHandle(h.alloc())
	h.mu.Lock()
	h.debug[dh] = debugEntry{instance: handle, callback: callback, handler: handler}
	h.mu.Unlock()
	return dh, nil
}

func (h *Host) DestroyDebugCallback(handle vkinit.InstanceHandle, dh vkinit.DebugHandle) {
	instance, err := h.instance(handle)
	if err != nil {
		return
	}
	h.mu.Lock()
	entry, ok := h.debug[dh]
	delete(h.debug, dh)
	h.mu.Unlock()
	if ok {
		vk.DestroyDebugReportCallback(instance, entry.callback, nil)
	}
}

func (h *Host) CreateSurface(handle vkinit.InstanceHandle, source vkinit.SurfaceSource) (vkinit.SurfaceHandle, error) {
	instance, err := h.instance(handle)
	if err != nil {
		return 0, err
	}
	ptr, err := source.CreateWindowSurface(instance, nil)
	if err != nil {
		return 0, errors.Wrap(err, "glfwCreateWindowSurface")
	}
	sh := vkinit.SurfaceHandle(h.alloc())
	h.mu.Lock()
	h.surfaces[sh] = surfaceEntry{instance: handle, surface: vk.SurfaceFromPointer(ptr)}
	h.mu.Unlock()
	return sh, nil
}

func (h *Host) surface(sh vkinit.SurfaceHandle) (vk.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.surfaces[sh]
	if !ok {
		return vk.NullSurface, errors.Errorf("unknown surface handle %d", sh)
	}
	return s.surface, nil
}

func (h *Host) DestroySurface(handle vkinit.InstanceHandle, sh vkinit.SurfaceHandle) {
	instance, err := h.instance(handle)
	if err != nil {
		return
	}
	h.mu.Lock()
	s, ok := h.surfaces[sh]
	delete(h.surfaces, sh)
	h.mu.Unlock()
	if ok {
		vk.DestroySurface(instance, s.surface, nil)
	}
}

// VKInstance returns the native instance behind handle.
func (h *Host) VKInstance(handle vkinit.InstanceHandle) (vk.Instance, bool) {
	i, err := h.instance(handle)
	return i, err == nil
}
