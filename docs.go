/*
Package vkinit brings a Vulkan graphics context up to the point where work could be submitted to
it, and tears it back down again. It covers the first steps every Vulkan program has to take before
it can draw anything, and stops there.

Overview of Vulkan initialization

Vulkan exposes far less of the GPU behind abstractions than OpenGL does, so a lot of what used to be
implicit is now up to the application. Before any drawing can happen a program must:

	1. Open a window with no client API attached
	2. Create an instance, naming the layers and extensions it wants
	3. Optionally register a debug callback so validation layers can report misuse
	4. Bind the window to the instance through a surface
	5. Pick a physical device which has a graphics queue family (and one able to present to the surface)
	6. Create a logical device and fetch its queues
	7. Idle until the window is closed
	8. Release everything, in the reverse order it was created

Native Vulkan terms
	Instance	the vulkan runtime instance
	Layer		an optional interceptor, such as VK_LAYER_KHRONOS_validation
	Surface		the link between a window and the instance
	PhysicalDevice	the physical hardware device
	QueueFamily	a group of queues on a physical device sharing capabilities
	LogicalDevice	a representation of the device which is the target of most of the vulkan apis
	Queue		a queue which work may be submitted to

About this package

The package never talks to the driver directly. Every driver call goes through the Host interface,
and the objects handed back are opaque handles. The vkhost package implements Host with the
vulkan-go bindings and the glfwplatform package provides windows through GLFW. This keeps the
selection and teardown logic in this package testable without a GPU.

GraphicsApp:
	walks the initialization steps up to a configured Stage and releases what it created
Config:
	window, application and validation settings, loadable from TOML and the environment
DiagnosticsHandler:
	receives validation layer messages, written to stderr or a slog.Logger

*/
package vkinit
