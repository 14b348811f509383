package vkinit

import (
	"log/slog"

	"github.com/pkg/errors"
)

// GraphicsApp walks the initialization pipeline up to the configured Stage:
// window, instance, diagnostics hook, surface, physical device selection and
// logical device. Everything it creates is released in reverse order by
// Destroy, whichever step failed.
//
// See https://vulkan-tutorial.com/ for a good walkthrough of what this code does.
type GraphicsApp struct {
	Config   Config
	Host     Host
	Platform Platform
	Logger   *slog.Logger

	// DiagnosticsHandler receives validation messages. Defaults to a
	// StderrHandler.
	DiagnosticsHandler DiagnosticsHandler

	App *App

	Window   Window
	Instance *Instance
	Debug    *DebugHook
	Surface  *Surface

	PhysicalDevice *PhysicalDevice
	QueueFamilies  QueueFamilyIndices
	Device         *Device

	GraphicsQueue *Queue
	PresentQueue  *Queue

	cleanup teardown
}

// NewGraphicsApp creates a new graphics app from cfg. Nothing is initialized
// until InitWindow and Init, or Run, are called.
func NewGraphicsApp(cfg Config, host Host, platform Platform) (*GraphicsApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if host == nil || platform == nil {
		return nil, errors.New("graphics app needs a host and a platform")
	}
	p := &GraphicsApp{
		Config:   cfg,
		Host:     host,
		Platform: platform,
		Logger:   slog.Default(),
	}
	p.cleanup.logger = p.Logger
	return p, nil
}

// SetLogger replaces the app's logger.
func (p *GraphicsApp) SetLogger(l *slog.Logger) {
	p.Logger = l
	p.cleanup.logger = l
}

// Run initializes the window and the graphics context, idles until the window
// is closed and releases everything.
func (p *GraphicsApp) Run() error {
	defer p.Destroy()

	if err := p.InitWindow(); err != nil {
		return errors.Wrap(err, "initWindow")
	}
	if err := p.Init(); err != nil {
		return errors.Wrap(err, "initVulkan")
	}
	p.MainLoop()
	return nil
}

// InitWindow starts the platform and opens the window.
func (p *GraphicsApp) InitWindow() error {
	if err := p.Platform.Init(); err != nil {
		return errors.Wrap(err, "platform init")
	}
	p.cleanup.push("platform", p.Platform.Terminate)

	w, err := p.Platform.CreateWindow(WindowOptions{
		Width:     p.Config.Width,
		Height:    p.Config.Height,
		Title:     p.Config.Title,
		Resizable: p.Config.Resizable,
	})
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	p.Window = w
	p.cleanup.push("window", w.Destroy)
	p.Logger.Info("window created", "width", p.Config.Width, "height", p.Config.Height, "title", p.Config.Title)
	return nil
}

// Init creates the graphics objects for the configured stage. The window must
// already exist.
func (p *GraphicsApp) Init() error {
	if p.Config.Stage < StageInstance {
		return nil
	}
	if p.Window == nil {
		return errors.Wrap(ErrNotInitialized, "window must be created before the instance")
	}
	if !p.Platform.VulkanSupported() {
		return errors.WithStack(ErrVulkanUnsupported)
	}
	if err := p.Host.Init(p.Platform.InstanceProcAddr()); err != nil {
		return errors.Wrap(err, "failed to init vulkan")
	}

	if err := p.createInstance(); err != nil {
		return err
	}
	if p.Config.Validation() {
		if err := p.setupDebugCallback(); err != nil {
			return err
		}
	}
	if p.Config.Stage >= StageSurface {
		if err := p.createSurface(); err != nil {
			return err
		}
	}
	if p.Config.Stage >= StageLogicalDevice {
		if err := p.pickPhysicalDevice(); err != nil {
			return err
		}
		if err := p.createLogicalDevice(); err != nil {
			return err
		}
	}
	return nil
}

func (p *GraphicsApp) createInstance() error {
	required := p.Window.GetRequiredInstanceExtensions()
	if len(required) == 0 && p.Config.Stage >= StageSurface {
		return errors.WithStack(ErrNoWindowExtensions)
	}
	p.App = p.Config.App()
	p.App.EnableExtension(required...)

	instance, err := p.App.CreateInstance(p.Host)
	if err != nil {
		return err
	}
	p.Instance = instance
	p.cleanup.push("instance", instance.Destroy)
	p.Logger.Info("instance created", "extensions", instance.Extensions, "layers", instance.Layers)
	return nil
}

func (p *GraphicsApp) setupDebugCallback() error {
	handler := p.DiagnosticsHandler
	if handler == nil {
		handler = &StderrHandler{}
	}
	hook, err := p.Instance.SetDebugHandler(handler)
	if err != nil {
		return err
	}
	p.Debug = hook
	p.cleanup.push("debug callback", hook.Destroy)
	return nil
}

func (p *GraphicsApp) createSurface() error {
	surface, err := p.Instance.CreateSurface(p.Window)
	if err != nil {
		return err
	}
	p.Surface = surface
	p.cleanup.push("surface", surface.Destroy)
	return nil
}

func (p *GraphicsApp) pickPhysicalDevice() error {
	pd, indices, err := pickPhysicalDevice(p.Instance, p.Surface, p.Logger)
	if err != nil {
		return err
	}
	p.PhysicalDevice = pd
	p.QueueFamilies = indices
	p.Logger.Info("selected physical device", "name", pd.DeviceName, "type", pd.Properties.Type.String())
	return nil
}

func (p *GraphicsApp) createLogicalDevice() error {
	var opts *CreateDeviceOptions
	if p.Config.Validation() {
		opts = &CreateDeviceOptions{EnabledLayers: p.Instance.Layers}
	}

	device, err := p.PhysicalDevice.CreateLogicalDeviceWithOptions(p.QueueFamilies, opts)
	if err != nil {
		return err
	}
	p.Device = device
	p.cleanup.push("device", device.Destroy)

	p.GraphicsQueue = device.GraphicsQueue
	p.PresentQueue = device.PresentQueue
	p.Logger.Info("logical device created", "queues", p.QueueFamilies.String())
	return nil
}

// MainLoop polls window events until the window asks to close.
func (p *GraphicsApp) MainLoop() {
	p.Logger.Debug("entering main loop")
	for !p.Window.ShouldClose() {
		p.Platform.PollEvents()
	}
}

// Destroy tears down the graphics application in reverse creation order. It
// is safe to call more than once, and after a failed Init.
func (p *GraphicsApp) Destroy() {
	p.cleanup.run()
}
