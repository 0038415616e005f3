package render

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// ErrUnavailable is returned by renderers that are switched off.
var ErrUnavailable = errors.New("renderer not configured")

// Renderer turns diagram source into SVG markup. An error means the
// source could not be rendered, most often because of a syntax problem.
type Renderer interface {
	Render(ctx context.Context, source string) (string, error)
}

// Result is the outcome of one render. Markup is empty when OK is false.
type Result struct {
	OK     bool   `json:"ok"`
	Markup string `json:"markup,omitempty"`
}

// Adapter calls a Renderer and swallows its failures, so callers only
// ever see OK or not OK. It keeps no state between calls.
type Adapter struct {
	renderer Renderer
	timeout  time.Duration
}

// NewAdapter wraps r. A zero timeout means renders may take as long as
// the renderer needs.
func NewAdapter(r Renderer, timeout time.Duration) *Adapter {
	return &Adapter{renderer: r, timeout: timeout}
}

// Render renders the trimmed source.
func (a *Adapter) Render(ctx context.Context, source string) Result {
	if a == nil || a.renderer == nil {
		return Result{}
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	markup, err := a.renderer.Render(ctx, strings.TrimSpace(source))
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			log.Printf("render: %v", err)
		}
		return Result{}
	}
	return Result{OK: true, Markup: markup}
}

// Disabled is a Renderer that always fails with ErrUnavailable. The editor
// still works with it; the preview just shows the syntax error state.
type Disabled struct{}

func (Disabled) Render(context.Context, string) (string, error) { return "", ErrUnavailable }

// Func adapts a plain function to the Renderer interface.
type Func func(ctx context.Context, source string) (string, error)

func (f Func) Render(ctx context.Context, source string) (string, error) { return f(ctx, source) }
