package vkinit

import (
	"github.com/pkg/errors"
)

// KhronosValidationLayer is the comprehensive Khronos validation layer.
const KhronosValidationLayer = "VK_LAYER_KHRONOS_validation"

// DebugReportExtension is the instance extension needed to receive driver diagnostics.
const DebugReportExtension = "VK_EXT_debug_report"

// MissingLayers returns the entries of desired the host does not provide, in
// the order they were requested.
func MissingLayers(host Host, desired []string) ([]string, error) {
	available, err := host.InstanceLayers()
	if err != nil {
		return nil, errors.Wrap(err, "error getting supported layers")
	}
	found := make(map[string]struct{}, len(available))
	for _, l := range available {
		found[l] = struct{}{}
	}
	var missing []string
	for _, l := range desired {
		if _, ok := found[l]; !ok {
			missing = append(missing, l)
		}
	}
	return missing, nil
}

// CheckLayerSupport reports whether every desired layer is available on the host.
func CheckLayerSupport(host Host, desired []string) (bool, error) {
	missing, err := MissingLayers(host, desired)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}
