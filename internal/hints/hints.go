// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// InCI reports whether the process runs under a CI system, where no one
// can answer a prompt.
var InCI = func() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForMissingCredentials returns hints for an absent API key or endpoint.
func ForMissingCredentials() string {
	var hints []string

	if os.Getenv("MD2HATENA_ROOT_ENDPOINT") == "" {
		hints = append(hints, "set MD2HATENA_ROOT_ENDPOINT or hatena.rootEndpoint (see the blog's advanced settings)")
	}
	if os.Getenv("MD2HATENA_API_KEY") == "" {
		if InCI() {
			hints = append(hints, "set MD2HATENA_API_KEY as a CI secret")
		} else {
			hints = append(hints, "set MD2HATENA_API_KEY or run in a terminal to be prompted")
		}
	}

	return formatHints(hints)
}

// ForUnauthorized returns hints for a rejected WSSE header.
func ForUnauthorized() string {
	return formatHints([]string{
		"check the API key and that the endpoint user matches its owner",
		"check the system clock; stale Created timestamps are refused",
	})
}

// ForTimeout returns a hint about increasing timeout for slow uploads.
func ForTimeout() string {
	return format("for large images, use --timeout or MD2HATENA_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2hatena/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2hatena") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound returns hints for unknown theme errors.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForImageNotFound returns hints for embeds that could not be read.
func ForImageNotFound() string {
	return format("embeds resolve against the document directory, then post.imageRoot")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
