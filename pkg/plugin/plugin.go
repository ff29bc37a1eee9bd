// Package plugin provides the plugin interface and the base type plugins
// embed to get a csutils context and logger.
package plugin

import (
	"fmt"

	"github.com/corrreia/gostrike-utils/pkg/csutils"
)

// Plugin is the interface all GoStrike plugins must implement
type Plugin interface {
	// Name returns the plugin's display name
	Name() string

	// Version returns the plugin's version string
	Version() string

	// Author returns the plugin author
	Author() string

	// Description returns a brief description
	Description() string

	// Load is called when the plugin is loaded
	// hotReload is true if this is a reload, not initial load
	Load(hotReload bool) error

	// Unload is called when the plugin is being unloaded
	// hotReload is true if plugin will be reloaded
	Unload(hotReload bool) error
}

// ContextHolder is implemented by plugins that embed BasePlugin
type ContextHolder interface {
	SetContext(ctx *csutils.Context)
}

// BasePlugin provides a default implementation of Plugin
// Embed this in your plugin struct to provide default implementations
type BasePlugin struct {
	logger csutils.Logger
	ctx    *csutils.Context
}

// Name returns the plugin's display name
func (p *BasePlugin) Name() string { return "Unnamed Plugin" }

// Version returns the plugin's version string
func (p *BasePlugin) Version() string { return "0.0.0" }

// Author returns the plugin author
func (p *BasePlugin) Author() string { return "Unknown" }

// Description returns a brief description
func (p *BasePlugin) Description() string { return "" }

// Load is called when the plugin is loaded
func (p *BasePlugin) Load(hotReload bool) error { return nil }

// Unload is called when the plugin is being unloaded
func (p *BasePlugin) Unload(hotReload bool) error { return nil }

// GetLogger returns the plugin's logger. It falls back to the context
// logger, then to a logger tagged with the plugin name.
func (p *BasePlugin) GetLogger() csutils.Logger {
	if p.logger == nil {
		if p.ctx != nil {
			p.logger = p.ctx.Logger()
		} else {
			p.logger = csutils.GetLogger(p.Name())
		}
	}
	return p.logger
}

// SetLogger sets the plugin's logger
func (p *BasePlugin) SetLogger(logger csutils.Logger) {
	p.logger = logger
}

// Context returns the plugin's helper context, or nil before Start
func (p *BasePlugin) Context() *csutils.Context {
	return p.ctx
}

// SetContext sets the plugin's helper context
func (p *BasePlugin) SetContext(ctx *csutils.Context) {
	p.ctx = ctx
}

// Start builds a helper context for p, hands it to p when it embeds
// BasePlugin, and calls Load.
func Start(p Plugin, hotReload bool, opts ...csutils.Option) (*csutils.Context, error) {
	ctx := csutils.NewContext(p, opts...)
	if holder, ok := p.(ContextHolder); ok {
		holder.SetContext(ctx)
	}
	if err := p.Load(hotReload); err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Name(), err)
	}
	ctx.Logger().Info("Loaded %s v%s by %s", p.Name(), p.Version(), p.Author())
	return ctx, nil
}

// Stop calls Unload
func Stop(p Plugin, hotReload bool) error {
	if err := p.Unload(hotReload); err != nil {
		return fmt.Errorf("unload %s: %w", p.Name(), err)
	}
	return nil
}
