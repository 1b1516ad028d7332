// Package device defines the peripheral capabilities a gate checkpoint is
// built from: a token reader, a two-line display, an LED indicator strip, a
// buzzer, and a direction selector. The state machine depends only on these
// interfaces; implementations range from real hardware drivers to the console
// simulator in this package.
package device

import (
	"context"

	"github.com/alfredjeanlab/gatehouse/internal/protocol"
)

// Color is an RGB value for the indicator strip.
type Color struct {
	R, G, B uint8
}

// Indicator colors used by the gate state machine.
var (
	ColorOff    = Color{}
	ColorBlue   = Color{B: 50}
	ColorYellow = Color{R: 50, G: 50}
	ColorGreen  = Color{G: 255}
	ColorRed    = Color{R: 255}
)

// Pattern names a short tone the buzzer can play.
type Pattern string

const (
	PatternClick   Pattern = "click"
	PatternSuccess Pattern = "success"
	PatternError   Pattern = "error"
)

// Display renders two lines of text for the person at the gate.
type Display interface {
	Show(primary, secondary string)
	Clear()
}

// Indicator is the LED strip giving at-a-glance gate state.
type Indicator interface {
	SetColor(c Color)
}

// Buzzer plays short audio cues.
type Buzzer interface {
	Play(p Pattern)
}

// TokenReader produces identity tokens. TryRead is non-blocking: it returns
// ok=false immediately when no token is present.
type TokenReader interface {
	TryRead() (token string, ok bool, err error)
}

// Selector blocks until the person chooses a crossing direction. This is the
// one gate capability allowed to block indefinitely; ctx cancellation is the
// only way out.
type Selector interface {
	AwaitChoice(ctx context.Context) (protocol.Direction, error)
}
