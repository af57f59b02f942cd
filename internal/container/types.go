package container

import (
	"strings"
)

// Mount represents a bind mount configuration
type Mount struct {
	Source string // Host path
	Target string // Container path
}

// Flag renders the mount as a docker run -v argument
func (m Mount) Flag() string {
	return "-v " + quoteIfSpaced(m.Source+":"+m.Target)
}

// Invocation is a docker run command line for one wrapped command
type Invocation struct {
	Image   string
	ImageOS string
	User    string
	Name    string
	WorkDir string
	Remove  bool
	Mounts  []Mount
	Shell   string
}

// IsWindows reports whether an inspected image OS is Windows based
func IsWindows(imageOS string) bool {
	return strings.Contains(strings.ToLower(imageOS), "windows")
}

func quoteIfSpaced(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
