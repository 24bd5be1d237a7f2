package main

import (
	"errors"
	"os"

	md2hatena "github.com/alnah/go-md2hatena"
	"github.com/alnah/go-md2hatena/internal/atom"
	"github.com/alnah/go-md2hatena/internal/atompub"
	"github.com/alnah/go-md2hatena/internal/config"
	"github.com/alnah/go-md2hatena/internal/pipeline"
)

// Exit codes for md2hatena CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or credentials
	ExitIO      = 3 // File not found, permission denied
	ExitRemote  = 4 // Blog service or network errors
	ExitPartial = 5 // Published but frontmatter not updated, or some renders failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Partial success is checked first: its cause is usually an I/O error.
	if errors.Is(err, md2hatena.ErrMetadataUpdate) ||
		errors.Is(err, ErrPartialRender) {
		return ExitPartial
	}

	if errors.Is(err, atompub.ErrTransport) ||
		errors.Is(err, atom.ErrWireFormat) {
		return ExitRemote
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, md2hatena.ErrConfiguration) ||
		errors.Is(err, md2hatena.ErrEmptyDocument) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidEndpoint) ||
		errors.Is(err, config.ErrUnknownTheme) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, pipeline.ErrUnknownTheme) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
