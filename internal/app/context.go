package app

import (
	"strconv"
	"strings"

	"github.com/tphakala/rps-results/internal/buildinfo"
	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/errors"
)

// Context is shared by the CLI commands. Settings are filled in before a
// command runs; the runtime is assembled on first use.
type Context struct {
	Settings    *conf.Settings
	Build       *buildinfo.Context
	MetricsAddr string // serve metrics here while the command runs

	app *App
}

// NewContext creates a command context with empty settings.
func NewContext(build *buildinfo.Context) *Context {
	return &Context{Settings: &conf.Settings{}, Build: build}
}

// App returns the runtime, assembling it on the first call.
func (c *Context) App() (*App, error) {
	if c.app != nil {
		return c.app, nil
	}
	if c.MetricsAddr != "" {
		c.Settings.Metrics.Enabled = true
	}

	a, err := New(c.Settings, c.Build)
	if err != nil {
		return nil, err
	}
	if c.MetricsAddr != "" {
		if _, err := a.ServeMetrics(c.MetricsAddr); err != nil {
			a.Close()
			return nil, err
		}
	}
	c.app = a
	return a, nil
}

// Close releases the runtime if it was assembled.
func (c *Context) Close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

// ParseID parses a positive database id.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil || id == 0 {
		return 0, errors.Newf("invalid id %q", s).
			Component("app").
			Category(errors.CategoryValidation).
			Build()
	}
	return uint(id), nil
}

// ParseIDs parses ids given as separate values or comma separated lists.
func ParseIDs(values []string) ([]uint, error) {
	var ids []uint
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
