package renderer

import (
	"github.com/ivlev/numate/internal/interp"
	"github.com/ivlev/numate/internal/subject"
)

// Camera is the animated scene: every field is a target for storyboard keys.
type Camera struct {
	Position interp.Vec3
	Zoom     float64
	Focus    float64
	Tint     interp.RGBA
}

// NewCamera returns a camera at the origin with no zoom and a neutral tint.
func NewCamera() *Camera {
	return &Camera{
		Zoom:  1.0,
		Focus: 3.0,
		Tint:  interp.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1},
	}
}

func (c *Camera) PositionSubject() subject.Subject[interp.Vec3] { return subject.Ref(&c.Position) }
func (c *Camera) ZoomSubject() subject.Subject[float64]         { return subject.Ref(&c.Zoom) }
func (c *Camera) FocusSubject() subject.Subject[float64]        { return subject.Ref(&c.Focus) }
func (c *Camera) TintSubject() subject.Subject[interp.RGBA]     { return subject.Ref(&c.Tint) }

// State is a copy of the camera taken at one tick.
type State struct {
	Frame    int
	Position interp.Vec3
	Zoom     float64
	Focus    float64
	Tint     interp.RGBA
}

func (c *Camera) snapshot(frame int) State {
	return State{
		Frame:    frame,
		Position: c.Position,
		Zoom:     c.Zoom,
		Focus:    c.Focus,
		Tint:     c.Tint,
	}
}
