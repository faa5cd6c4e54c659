// Package hints provides actionable error hints for common CLI failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ConfigDirName is the directory under $XDG_CONFIG_HOME holding named configs.
const ConfigDirName = "go-wiki2html"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config directory when it was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ConfigDirName+"/") {
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

// ForStyleNotFound returns hints listing the embedded stylesheets.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForMode returns the list of valid rendering modes.
func ForMode(modes []string) string {
	return format("valid modes: " + strings.Join(modes, ", "))
}

// ForNoInput returns hints when neither a path nor piped text was given.
func ForNoInput() string {
	return formatHints([]string{
		"pass a .wiki or .txt file or a directory",
		"or pipe wiki text on stdin",
	})
}

// ForOutlineDepth returns a hint about the accepted heading depths.
func ForOutlineDepth() string {
	return format("depths range from 1 to 6, e.g. --outline-min 2 --outline-max 3")
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
