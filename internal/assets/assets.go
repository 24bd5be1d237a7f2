package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the built-in assets used by the code-frame renderer.
const (
	CodeFrameStyle   = "code-frame"
	CopyButtonScript = "copy-button"
)

// Kind selects the asset family, which fixes its directory and extension.
type Kind uint8

const (
	Style Kind = iota
	Script
)

func (k Kind) String() string {
	if k == Script {
		return "script"
	}
	return "style"
}

func (k Kind) dir() string {
	if k == Script {
		return "scripts"
	}
	return "styles"
}

func (k Kind) ext() string {
	if k == Script {
		return ".js"
	}
	return ".css"
}

// file is the slash-separated path of asset name within a source.
func (k Kind) file(name string) string {
	return k.dir() + "/" + name + k.ext()
}

var (
	ErrNotFound         = errors.New("asset not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidDir       = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
)

// Loader returns the text of an asset.
type Loader interface {
	// Load returns ErrNotFound when the source has no such asset and
	// ErrInvalidAssetName when name is not a bare file stem.
	Load(kind Kind, name string) (string, error)
}

// checkName accepts bare stems only: no separators and no dots, so a name
// can pick neither another directory nor another extension.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

func notFound(kind Kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
}
