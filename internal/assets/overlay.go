package assets

import "errors"

// Overlay reads from Top first and falls back to Base only when Top has
// no such asset. Other errors from Top are returned as is.
type Overlay struct {
	Top  Loader
	Base Loader
}

func (o Overlay) Load(kind Kind, name string) (string, error) {
	if o.Top == nil {
		return o.Base.Load(kind, name)
	}
	text, err := o.Top.Load(kind, name)
	if errors.Is(err, ErrNotFound) {
		return o.Base.Load(kind, name)
	}
	return text, err
}

// NewResolver returns the built-in assets overlaid by dir. An empty dir
// yields the built-in loader alone.
func NewResolver(dir string) (Loader, error) {
	if dir == "" {
		return Builtin(), nil
	}
	top, err := NewDir(dir)
	if err != nil {
		return nil, err
	}
	return Overlay{Top: top, Base: Builtin()}, nil
}

var _ Loader = Overlay{}
