package vkinit

import (
	"github.com/pkg/errors"
)

// Surface binds a window to an instance for presentation.
type Surface struct {
	Instance *Instance
	Handle   SurfaceHandle

	destroyed bool
}

// CreateSurface creates a presentable surface for source, usually a window.
func (i *Instance) CreateSurface(source SurfaceSource) (*Surface, error) {
	h, err := i.Host.CreateSurface(i.Handle, source)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window surface")
	}
	return &Surface{Instance: i, Handle: h}, nil
}

// Destroy releases the surface. It must run before the instance is destroyed.
func (s *Surface) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	s.destroyed = true
	s.Instance.Host.DestroySurface(s.Instance.Handle, s.Handle)
}
