package vkinit

import (
	"github.com/pkg/errors"
)

// App is used to provide information about this specific application to the driver
type App struct {
	// Name the name of the application
	Name string
	// EngineName the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// EngineVersion the version of the engine
	EngineVersion Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	// EnabledLayers the enabled layers
	EnabledLayers []string

	// EnabledExtensions the enabled extensions
	EnabledExtensions []string

	// Debug requests the diagnostics extension on the instance
	Debug bool
}

// EnableDebugging enables the given validation layers along with the
// extension required to receive diagnostics. With no layers it enables the
// Khronos validation layer.
func (a *App) EnableDebugging(layers ...string) *App {
	if len(layers) == 0 {
		layers = []string{KhronosValidationLayer}
	}
	for _, l := range layers {
		a.EnableLayer(l)
	}
	a.Debug = true
	return a
}

// EnableLayer adds a layer to the list requested at instance creation.
// Availability is checked by CreateInstance.
func (a *App) EnableLayer(layer string) *App {
	if !contains(a.EnabledLayers, layer) {
		a.EnabledLayers = append(a.EnabledLayers, layer)
	}
	return a
}

// EnableExtension enables an extension for use by the application
func (a *App) EnableExtension(extensions ...string) *App {
	for _, e := range extensions {
		if !contains(a.EnabledExtensions, e) {
			a.EnabledExtensions = append(a.EnabledExtensions, e)
		}
	}
	return a
}

// Extensions returns the full list of instance extensions, including the
// diagnostics extension when debugging is enabled.
func (a *App) Extensions() []string {
	ext := make([]string, 0, len(a.EnabledExtensions)+1)
	ext = append(ext, a.EnabledExtensions...)
	if a.Debug && !contains(ext, DebugReportExtension) {
		ext = append(ext, DebugReportExtension)
	}
	return ext
}

// InstanceInfo creates a structure describing this application to the host
func (a *App) InstanceInfo() InstanceInfo {
	api := a.APIVersion
	if api.Major < 1 {
		api = Version{Major: 1}
	}
	return InstanceInfo{
		ApplicationName:    a.Name,
		ApplicationVersion: a.Version,
		EngineName:         a.EngineName,
		EngineVersion:      a.EngineVersion,
		APIVersion:         api,
		Extensions:         a.Extensions(),
		Layers:             append([]string(nil), a.EnabledLayers...),
	}
}

// CreateInstance creates the instance. Requested layers are checked against
// the host first; if any is missing the host is never asked to create an
// instance.
func (a *App) CreateInstance(host Host) (*Instance, error) {
	if len(a.EnabledLayers) > 0 {
		missing, err := MissingLayers(host, a.EnabledLayers)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, errors.Wrapf(ErrLayersUnavailable, "missing %v", missing)
		}
	}

	info := a.InstanceInfo()
	handle, err := host.CreateInstance(info)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create instance")
	}

	return &Instance{
		Host:       host,
		Handle:     handle,
		Layers:     info.Layers,
		Extensions: info.Extensions,
	}, nil
}

// Instance is an instance of the Vulkan subsystem
type Instance struct {
	Host   Host
	Handle InstanceHandle

	// Layers and Extensions are the names the instance was created with
	Layers     []string
	Extensions []string

	destroyed bool
}

// PhysicalDevices returns the physical devices known to the host, in
// enumeration order.
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	handles, err := i.Host.PhysicalDevices(i.Handle)
	if err != nil {
		return nil, errors.Wrap(err, "error enumerating physical devices")
	}
	if len(handles) == 0 {
		return nil, nil
	}

	ret := make([]*PhysicalDevice, len(handles))
	for n, h := range handles {
		props := i.Host.PhysicalDeviceProperties(h)
		ret[n] = &PhysicalDevice{
			Host:       i.Host,
			Handle:     h,
			DeviceName: props.Name,
			Properties: props,
		}
	}
	return ret, nil
}

// Destroy releases the instance. Later calls do nothing.
func (i *Instance) Destroy() {
	if i == nil || i.destroyed {
		return
	}
	i.destroyed = true
	i.Host.DestroyInstance(i.Handle)
}
