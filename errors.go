package vkinit

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrVulkanUnsupported is returned when the platform cannot find a Vulkan loader.
	ErrVulkanUnsupported = errors.New("vulkan is not supported on this platform")
	// ErrLayersUnavailable is returned when requested validation layers are missing on the host.
	ErrLayersUnavailable = errors.New("validation layers requested, but not available")
	// ErrNoPhysicalDevices is returned when the host enumerates zero GPUs.
	ErrNoPhysicalDevices = errors.New("failed to find GPUs with vulkan support")
	// ErrNoSuitableDevice is returned when no GPU satisfies every required queue role.
	ErrNoSuitableDevice = errors.New("failed to find a suitable GPU")
	// ErrNoWindowExtensions is returned when the window system cannot name the
	// instance extensions a surface needs.
	ErrNoWindowExtensions = errors.New("failed to find list of required vulkan extensions")
	// ErrNotInitialized is returned when an operation needs a resource that has not been created yet.
	ErrNotInitialized = errors.New("not initialized")
)

// ResultError reports a failed driver call together with its numeric status
// code. Err, when set, is the driver binding's own error for the code.
type ResultError struct {
	Op   string
	Code int32
	Err  error
}

func (e *ResultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (%d)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("%s: vulkan error %d", e.Op, e.Code)
}

func (e *ResultError) Cause() error  { return e.Err }
func (e *ResultError) Unwrap() error { return e.Err }

// NewResultError returns a *ResultError for op, or nil when code signals success.
func NewResultError(op string, code int32) error {
	if code == 0 {
		return nil
	}
	return errors.WithStack(&ResultError{Op: op, Code: code})
}

// ResultCode extracts the driver status code from err, if it carries one.
func ResultCode(err error) (int32, bool) {
	var re *ResultError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return 0, false
}
