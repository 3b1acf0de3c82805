// Package render defines the renderer contract, the quality policy and the
// registry that manages the lifecycle of the interchangeable rendering styles.
package render

import (
	"log/slog"

	"github.com/soundweaver/vizor/internal/domain"
	"github.com/soundweaver/vizor/internal/ports"
)

// Renderer is the capability interface every rendering backend implements.
//
// Lifecycle state machine:
//
//	Uninitialized --Initialize()--> Initialized
//	Initialized   --Configure()---> Configured
//	Configured    --Render()*-----> Configured
//	any state     --Dispose()-----> Disposed (terminal)
//
// Initialize and Dispose are idempotent. Render requires a prior Configure;
// when its preconditions fail it is a silent no-op with a diagnostic log,
// never a fault. Dispose may race an in-flight Render: every stateful
// operation checks the disposed state first and no-ops.
type Renderer interface {
	// Style returns the style identifier this backend renders.
	Style() domain.StyleID

	// Initialize prepares the backend for use. Second and later calls are no-ops.
	Initialize() error

	// Configure sets the overlay flag and applies the quality policy.
	// Overlay mode smooths more aggressively to suppress flicker over a
	// transparent surface. Configure may be called repeatedly.
	Configure(overlayActive bool, quality domain.RenderQuality) error

	// Render draws the spectrum onto the target surface. The raw spectrum is
	// scaled and smoothed internally before drawing. Requires a prior
	// Configure, a live surface and positive dimensions; otherwise it logs
	// and returns without drawing.
	Render(target ports.Surface, spectrum []float64, width, height int)

	// Quality returns the active quality level.
	Quality() domain.RenderQuality

	// SetQuality re-applies the quality policy for the new level. It is
	// equivalent to an implicit re-Configure of the fidelity flags only.
	SetQuality(quality domain.RenderQuality)

	// Overlay reports whether overlay mode is active.
	Overlay() bool

	// Dispose releases drawing resources. Safe to call multiple times and
	// concurrently with an in-flight Render.
	Dispose()
}

// Constructor builds a renderer backend for one style.
// Constructors are registered in the registry's style table; they must not
// perform drawing work, only allocation.
type Constructor func(logger *slog.Logger) (Renderer, error)
