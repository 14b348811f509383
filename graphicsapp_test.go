package vkinit

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg Config, h *fakeHost, p *fakePlatform) *GraphicsApp {
	app, err := NewGraphicsApp(cfg, h, p)
	require.NoError(t, err)
	app.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	app.DiagnosticsHandler = &StderrHandler{W: &bytes.Buffer{}}
	return app
}

func singleFamilyGPU() fakeDevice {
	return gpu("gpu", []QueueFamilyProperties{{Flags: QueueGraphics, Count: 1}}, 0)
}

func TestRunEndToEnd(t *testing.T) {
	h := newFakeHost(singleFamilyGPU())
	p := newFakePlatform()
	app := newTestApp(t, DefaultConfig(), h, p)

	require.NoError(t, app.Run())

	require.Len(t, h.deviceInfos, 1)
	require.Len(t, h.deviceInfos[0].Queues, 1)
	assert.Equal(t, uint32(0), h.deviceInfos[0].Queues[0].FamilyIndex)
	assert.Equal(t, []string{KhronosValidationLayer}, h.deviceInfos[0].Layers)

	require.NotNil(t, app.GraphicsQueue)
	require.NotNil(t, app.PresentQueue)
	assert.Equal(t, uint32(0), app.GraphicsQueue.FamilyIndex)
	assert.Equal(t, uint32(0), app.PresentQueue.FamilyIndex)
	assert.Same(t, app.Device, app.GraphicsQueue.Device)

	assert.Equal(t, WindowOptions{Width: 800, Height: 600, Title: "Vulkan"}, p.opts)
	assert.Equal(t, 3, p.window.polls)
	assert.Equal(t, 1, p.window.destroyed)
	assert.Equal(t, 1, p.terminated)
	assert.Equal(t, 1, h.initCalls)

	assert.Equal(t, []string{
		"create instance",
		"create debug",
		"create surface",
		"create device",
		"destroy device",
		"destroy surface",
		"destroy debug",
		"destroy instance",
	}, h.events)
	for k, n := range h.released {
		assert.Equal(t, 1, n, k)
	}
}

func TestRunInstanceExtensions(t *testing.T) {
	h := newFakeHost(singleFamilyGPU())
	p := newFakePlatform()
	app := newTestApp(t, DefaultConfig(), h, p)
	require.NoError(t, app.InitWindow())
	require.NoError(t, app.Init())
	defer app.Destroy()

	assert.Equal(t, []string{"VK_KHR_surface", "VK_KHR_xcb_surface", DebugReportExtension}, app.Instance.Extensions)
}

func TestRunStages(t *testing.T) {
	tests := []struct {
		stage  Stage
		events []string
	}{
		{StageBase, nil},
		{StageInstance, []string{"create instance", "destroy instance"}},
		{StageValidation, []string{"create instance", "create debug", "destroy debug", "destroy instance"}},
		{StageLogicalDevice, []string{"create instance", "create debug", "create device",
			"destroy device", "destroy debug", "destroy instance"}},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			h := newFakeHost(singleFamilyGPU())
			p := newFakePlatform()
			cfg := DefaultConfig()
			cfg.Stage = tt.stage

			app := newTestApp(t, cfg, h, p)
			require.NoError(t, app.Run())
			assert.Equal(t, tt.events, h.events)
			assert.Equal(t, 1, p.window.destroyed)
			assert.Equal(t, 1, p.terminated)
		})
	}
}

func TestRunWithoutWindowExtensionsBeforeSurface(t *testing.T) {
	h := newFakeHost(singleFamilyGPU())
	p := newFakePlatform()
	p.window.extensions = nil
	cfg := DefaultConfig()
	cfg.Stage = StageLogicalDevice

	app := newTestApp(t, cfg, h, p)
	require.NoError(t, app.Run())
	assert.Equal(t, []string{DebugReportExtension}, app.Instance.Extensions)
}

func TestRunLogicalDeviceHasNoPresentQueue(t *testing.T) {
	h := newFakeHost(gpu("gpu", []QueueFamilyProperties{graphicsFamily}))
	p := newFakePlatform()
	cfg := DefaultConfig()
	cfg.Stage = StageLogicalDevice
	cfg.EnableValidation = false

	app := newTestApp(t, cfg, h, p)
	require.NoError(t, app.Run())
	require.NotNil(t, app.GraphicsQueue)
	assert.Nil(t, app.PresentQueue)
	assert.Nil(t, app.Debug)
	assert.Empty(t, h.deviceInfos[0].Layers)
	assert.Equal(t, 0, h.surfaceQs)
}

func TestRunFailureCleansUpOnce(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(h *fakeHost, p *fakePlatform)
		target error
		events []string
	}{
		{
			name:   "no suitable device",
			setup:  func(h *fakeHost, p *fakePlatform) { h.devices = []fakeDevice{gpu("compute", []QueueFamilyProperties{computeFamily}, 0)} },
			target: ErrNoSuitableDevice,
			events: []string{"create instance", "create debug", "create surface",
				"destroy surface", "destroy debug", "destroy instance"},
		},
		{
			name:   "no devices",
			setup:  func(h *fakeHost, p *fakePlatform) { h.devices = nil },
			target: ErrNoPhysicalDevices,
			events: []string{"create instance", "create debug", "create surface",
				"destroy surface", "destroy debug", "destroy instance"},
		},
		{
			name:   "layers missing",
			setup:  func(h *fakeHost, p *fakePlatform) { h.layers = nil },
			target: ErrLayersUnavailable,
		},
		{
			name:   "vulkan unsupported",
			setup:  func(h *fakeHost, p *fakePlatform) { p.unsupported = true },
			target: ErrVulkanUnsupported,
		},
		{
			name:   "debug callback rejected",
			setup:  func(h *fakeHost, p *fakePlatform) { h.debugErr = NewResultError("vkCreateDebugReportCallbackEXT", -7) },
			events: []string{"create instance", "destroy instance"},
		},
		{
			name:   "surface rejected",
			setup:  func(h *fakeHost, p *fakePlatform) { p.window.surfaceErr = errors.New("no surface") },
			events: []string{"create instance", "create debug", "destroy debug", "destroy instance"},
		},
		{
			name:   "no window extensions",
			setup:  func(h *fakeHost, p *fakePlatform) { p.window.extensions = nil },
			target: ErrNoWindowExtensions,
		},
		{
			name:   "device rejected",
			setup:  func(h *fakeHost, p *fakePlatform) { h.createDeviceErr = NewResultError("vkCreateDevice", -3) },
			events: []string{"create instance", "create debug", "create surface",
				"destroy surface", "destroy debug", "destroy instance"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost(singleFamilyGPU())
			p := newFakePlatform()
			tt.setup(h, p)

			app := newTestApp(t, DefaultConfig(), h, p)
			err := app.Run()
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Equal(t, tt.events, h.events)
			assert.Equal(t, 0, p.window.polls, "main loop must not run")

			app.Destroy()
			for k, n := range h.released {
				assert.Equal(t, 1, n, k)
			}
			assert.Equal(t, 1, p.window.destroyed)
			assert.Equal(t, 1, p.terminated)
		})
	}
}

func TestRunWindowFailure(t *testing.T) {
	h := newFakeHost(singleFamilyGPU())
	p := newFakePlatform()
	p.windowErr = errors.New("no display")

	app := newTestApp(t, DefaultConfig(), h, p)
	require.Error(t, app.Run())
	assert.Equal(t, 0, h.createCalls)
	assert.Equal(t, 1, p.terminated)
	assert.Equal(t, 0, p.window.destroyed)
}

func TestInitWithoutWindow(t *testing.T) {
	app := newTestApp(t, DefaultConfig(), newFakeHost(), newFakePlatform())
	require.ErrorIs(t, app.Init(), ErrNotInitialized)
}

func TestDestroyTwice(t *testing.T) {
	h := newFakeHost(singleFamilyGPU())
	p := newFakePlatform()
	app := newTestApp(t, DefaultConfig(), h, p)
	require.NoError(t, app.InitWindow())
	require.NoError(t, app.Init())

	app.Destroy()
	app.Destroy()
	app.Device.Destroy()
	app.Instance.Destroy()

	assert.Len(t, h.released, 4)
	for k, n := range h.released {
		assert.Equal(t, 1, n, k)
	}
	assert.Equal(t, 1, p.terminated)
}

func TestNewGraphicsAppRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	_, err := NewGraphicsApp(cfg, newFakeHost(), newFakePlatform())
	require.Error(t, err)

	_, err = NewGraphicsApp(DefaultConfig(), nil, newFakePlatform())
	require.Error(t, err)
}
