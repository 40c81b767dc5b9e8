// Package buildinfo holds build-time metadata kept apart from user configuration.
package buildinfo

import "fmt"

// UnknownValue is reported for metadata the build did not inject.
const UnknownValue = "unknown"

// BuildInfo provides access to build-time metadata.
type BuildInfo interface {
	GetVersion() string
	GetBuildDate() string
}

// Context contains the metadata injected at startup via -ldflags.
type Context struct {
	Version   string
	BuildDate string
}

// NewContext creates a build context.
func NewContext(version, buildDate string) *Context {
	return &Context{Version: version, BuildDate: buildDate}
}

// GetVersion implements BuildInfo.GetVersion
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate implements BuildInfo.GetBuildDate
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}

// Release returns the release name used for error reports, e.g. "rps@1.2.0".
func (c *Context) Release() string {
	return "rps@" + c.GetVersion()
}

// String renders the version line printed by the CLI.
func (c *Context) String() string {
	return fmt.Sprintf("rps %s (built %s)", c.GetVersion(), c.GetBuildDate())
}
