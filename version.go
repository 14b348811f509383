package vkinit

import "fmt"

// Version is used to specify versions of components
type Version struct {
	Major int `toml:"major"`
	Minor int `toml:"minor"`
	Patch int `toml:"patch"`
}

// Packed returns the version in the driver's packed 32 bit representation
func (v Version) Packed() uint32 {
	return uint32(v.Major)<<22 | uint32(v.Minor)<<12 | uint32(v.Patch)
}

// UnpackVersion is the inverse of Packed
func UnpackVersion(v uint32) Version {
	return Version{
		Major: int(v >> 22),
		Minor: int((v >> 12) & 0x3ff),
		Patch: int(v & 0xfff),
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
