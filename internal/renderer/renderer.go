// Package renderer draws the animated camera as one text line per tick.
package renderer

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/numate/internal/interp"
)

// MaxZoom is the zoom level drawn as a full bar.
const MaxZoom = 6.0

type Renderer struct {
	w      io.Writer
	width  int
	styles *lipgloss.Renderer
	swatch lipgloss.Style
	frames int
	last   State
}

// New returns a renderer writing to w with a zoom bar width cells wide.
// Styling follows the color profile lipgloss detects for w, so a plain
// buffer gets no escape codes.
func New(w io.Writer, width int) *Renderer {
	if width <= 0 {
		width = 40
	}
	styles := lipgloss.NewRenderer(w)
	return &Renderer{
		w:      w,
		width:  width,
		styles: styles,
		swatch: styles.NewStyle().Padding(0, 1),
	}
}

// Frame draws the camera's current state and returns it.
func (r *Renderer) Frame(c *Camera) (State, error) {
	r.frames++
	s := c.snapshot(r.frames)
	r.last = s

	_, err := fmt.Fprintf(r.w, "[%04d] pos=(%5.2f,%5.2f,%5.2f) zoom=%5.2f %s %s\n",
		s.Frame, s.Position[0], s.Position[1], s.Position[2], s.Zoom,
		Bar(s.Zoom/MaxZoom, r.width), r.tint(s.Tint))
	if err != nil {
		return s, fmt.Errorf("write frame %d: %w", s.Frame, err)
	}
	return s, nil
}

// Frames is the number of frames drawn so far.
func (r *Renderer) Frames() int { return r.frames }

// Last is the most recently drawn state.
func (r *Renderer) Last() State { return r.last }

func (r *Renderer) tint(c interp.RGBA) string {
	hex := Hex(c)
	return r.swatch.Background(lipgloss.Color(hex)).Render(hex)
}

// Hex converts a color to #rrggbb, clamping out-of-range channels.
func Hex(c interp.RGBA) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Bar draws fraction (clamped to [0,1]) of width cells as '#', the rest as '.'.
func Bar(fraction float64, width int) string {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(math.Round(fraction * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
