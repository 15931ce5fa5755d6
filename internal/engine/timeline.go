package engine

import (
	"fmt"
	"time"

	"github.com/ivlev/numate/internal/interp"
	"github.com/ivlev/numate/internal/storyboard"
)

// Build authors the demo timeline on sb:
//
//	tint   -> Warm        4s
//	pos    -> (1,1,1)     4s
//	zoom   -> 5           2s
//	complete
//	zoom   -> focus       4s (linked)
//	complete
//	zoom   -> focus + 1   4s (computed)
//
// Durations are multiplied by the configured scale and every key uses the
// configured easing.
func (p *Project) Build(sb *storyboard.Storyboard) error {
	cam := p.Camera
	ease := p.Config.Curve()
	scaled := p.Config.Scaled

	sb.Now()

	tint, err := storyboard.Add(sb, cam.TintSubject(), storyboard.Value(Warm), scaled(4*time.Second))
	if err != nil {
		return err
	}
	tint.Eased(ease)

	pos, err := storyboard.Add(sb, cam.PositionSubject(), storyboard.Value(interp.Vec3{1, 1, 1}), scaled(4*time.Second))
	if err != nil {
		return err
	}
	pos.Eased(ease).Then(p.say("position settled"))

	zoom, err := storyboard.Add(sb, cam.ZoomSubject(), storyboard.Value(5.0), scaled(2*time.Second))
	if err != nil {
		return err
	}
	zoom.Eased(ease).Then(p.say("zoom in"))
	sb.Complete()

	follow, err := storyboard.Add(sb, cam.ZoomSubject(), storyboard.Linked(cam.FocusSubject()), scaled(4*time.Second))
	if err != nil {
		return err
	}
	follow.Eased(ease).Then(p.say("zoom on focus"))
	sb.Complete()

	beyond, err := storyboard.Add(sb, cam.ZoomSubject(), storyboard.Computed(func() float64 {
		return cam.Focus + 1
	}), scaled(4*time.Second))
	if err != nil {
		return err
	}
	beyond.Eased(ease).Then(p.say("done"))

	p.keys.Store(int32(sb.Len()))
	p.Logger.Debug("timeline built", "keys", sb.Len(), "end", sb.End())
	return nil
}

func (p *Project) say(msg string) func() {
	return func() {
		fmt.Fprintf(p.Out, "[+] %s\n", msg)
	}
}
