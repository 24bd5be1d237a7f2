package pipeline

import (
	"errors"
	"fmt"
)

// ErrRender is the parent of every failure to produce output for a
// document or theme.
var ErrRender = errors.New("render failed")

// Render failures with a more specific cause. Both match ErrRender.
var (
	ErrUnknownTheme = fmt.Errorf("%w: unknown theme", ErrRender)
	ErrNoStyles     = fmt.Errorf("%w: no styles produced", ErrRender)
)
