package vkinit

import "unsafe"

// Window is a platform window able to host a presentable surface.
// *glfw.Window satisfies it.
type Window interface {
	SurfaceSource
	ShouldClose() bool
	GetRequiredInstanceExtensions() []string
	Destroy()
}

// WindowOptions describes the window to open.
type WindowOptions struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
}

// Platform is the windowing system.
type Platform interface {
	Init() error
	VulkanSupported() bool
	// InstanceProcAddr returns the loader entry point the platform found.
	InstanceProcAddr() unsafe.Pointer
	CreateWindow(opts WindowOptions) (Window, error)
	// PollEvents dispatches pending events and returns without waiting.
	PollEvents()
	Terminate()
}
