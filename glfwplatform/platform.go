// Package glfwplatform provides the GLFW window provider for vkinit.
//
// GLFW must be driven from the main OS thread; binaries using this package
// should call runtime.LockOSThread from an init function.
package glfwplatform

import (
	"unsafe"

	"github.com/celer/vkinit"
	"github.com/pkg/errors"
	"github.com/vulkan-go/glfw/v3.3/glfw"
)

// Platform is a vkinit.Platform backed by GLFW.
type Platform struct {
	initialized bool
}

var _ vkinit.Platform = (*Platform)(nil)

// New returns an uninitialized GLFW platform.
func New() *Platform {
	return &Platform{}
}

func (p *Platform) Init() error {
	if p.initialized {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw.Init")
	}
	p.initialized = true
	return nil
}

func (p *Platform) VulkanSupported() bool {
	return glfw.VulkanSupported()
}

func (p *Platform) InstanceProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// CreateWindow opens a window with no client API attached, so the graphics
// context can be bound to it through a surface.
func (p *Platform) CreateWindow(opts vkinit.WindowOptions) (vkinit.Window, error) {
	if !p.initialized {
		return nil, errors.WithStack(vkinit.ErrNotInitialized)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolHint(opts.Resizable))

	w, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "glfw.CreateWindow")
	}
	return w, nil
}

func (p *Platform) PollEvents() {
	glfw.PollEvents()
}

func (p *Platform) Terminate() {
	if !p.initialized {
		return
	}
	p.initialized = false
	glfw.Terminate()
}
