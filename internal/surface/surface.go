// Package surface defines the render-surface capability the processor drives:
// elements that can be posed, tweened, reparented into the grid container and
// destroyed. Drawing is left to implementations.
package surface

import (
	"time"

	"github.com/five82/photowall/internal/grid"
)

// Handle identifies an element or container on a surface.
type Handle string

// Pose is an element's transform relative to its parent.
type Pose struct {
	Position grid.Point
	Scale    float64
}

// Neutral is the identity pose: no translation, unit scale.
var Neutral = Pose{Scale: 1}

// Channel selects which pose components a tween drives.
type Channel uint8

const (
	ChannelPosition Channel = 1 << iota
	ChannelScale

	ChannelAll = ChannelPosition | ChannelScale
)

// Tween describes one animation toward Target over Duration.
type Tween struct {
	Target   Pose
	Channels Channel
	Duration time.Duration
	Easing   Easing
}

// Done is closed when an animation completes.
type Done <-chan struct{}

// Surface is the render surface. Root is the free-floating canvas centered on
// the viewport; Grid is the container committed items are parented into.
type Surface interface {
	Root() Handle
	Grid() Handle

	CreateElement(parent Handle) (Handle, error)
	SetImage(h Handle, image []byte) error
	SetCaption(h Handle, caption string) error
	SetPose(h Handle, pose Pose) error
	AnimateTo(h Handle, tween Tween) (Done, error)
	Reparent(h Handle, parent Handle) error
	Destroy(h Handle) error

	// ResizeGrid interpolates the grid container's cell geometry.
	ResizeGrid(geometry grid.Geometry, d time.Duration) (Done, error)
}

// Join returns a Done that closes once every input has closed. Nil inputs are
// treated as already complete.
func Join(done ...Done) Done {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for _, d := range done {
			if d == nil {
				continue
			}
			<-d
		}
	}()
	return out
}

// Completed returns a Done that is already closed.
func Completed() Done {
	ch := make(chan struct{})
	close(ch)
	return ch
}
